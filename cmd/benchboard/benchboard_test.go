package main

import (
	"testing"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildApp(t *testing.T) {
	app := buildApp()

	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, name := range []string{"service", "client", "report", "analyze", "select", "export", "import"} {
		assert.True(t, names[name], name)
	}
}

func TestLoggingSetup(t *testing.T) {
	sender := grip.GetSender()
	prev := sender.Level()
	defer func() { assert.NoError(t, sender.SetLevel(prev)) }()

	require.NoError(t, loggingSetup("benchboard-test", "debug"))
	assert.Equal(t, level.Debug, grip.GetSender().Level().Threshold)
	assert.Equal(t, "benchboard-test", grip.GetSender().Name())
}
