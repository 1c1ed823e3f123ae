package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionActionValidate(t *testing.T) {
	for name, test := range map[string]struct {
		action SelectionAction
		valid  bool
	}{
		"Version":                  {action: SelectionAction{Type: SelectionActionVersion, Version: "0.76.0"}, valid: true},
		"VersionWithoutVersion":    {action: SelectionAction{Type: SelectionActionVersion}},
		"Configuration":            {action: SelectionAction{Type: SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/newarch"}, valid: true},
		"ConfigurationWithoutPair": {action: SelectionAction{Type: SelectionActionConfiguration, Version: "0.76.0"}},
		"Reset":                    {action: SelectionAction{Type: SelectionActionReset}, valid: true},
		"Generate":                 {action: SelectionAction{Type: SelectionActionGenerate}, valid: true},
		"Unknown":                  {action: SelectionAction{Type: "toggle"}},
		"Empty":                    {},
	} {
		t.Run(name, func(t *testing.T) {
			err := test.action.Validate()
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSelectionApply(t *testing.T) {
	t.Run("VersionSeedsAndGenerates", func(t *testing.T) {
		s := newTestSelection(t)
		tr, err := s.Apply(SelectionAction{Type: SelectionActionVersion, Version: "0.76.0"})
		require.NoError(t, err)
		assert.True(t, tr.Generate)
		assert.Equal(t, []ConfigurationKey{
			key("0.76.0", PlatformAndroid, ArchitectureOld),
			key("0.76.0", PlatformAndroid, ArchitectureNew),
		}, s.Configurations())
	})
	t.Run("ConfigurationToggles", func(t *testing.T) {
		s := newTestSelection(t)
		_, err := s.Apply(SelectionAction{Type: SelectionActionVersion, Version: "0.76.0"})
		require.NoError(t, err)

		tr, err := s.Apply(SelectionAction{Type: SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/oldarch"})
		require.NoError(t, err)
		assert.True(t, tr.Changed)
		assert.False(t, tr.Generate)
		assert.True(t, s.HasConfiguration(key("0.76.0", PlatformIOS, ArchitectureOld)))
	})
	t.Run("ExplicitGenerateAlwaysGenerates", func(t *testing.T) {
		s := newTestSelection(t)
		for i := 0; i < 2; i++ {
			tr, err := s.Apply(SelectionAction{Type: SelectionActionGenerate})
			require.NoError(t, err)
			assert.True(t, tr.Generate)
			assert.False(t, tr.Changed)
		}
	})
	t.Run("Reset", func(t *testing.T) {
		s := newTestSelection(t)
		_, err := s.Apply(SelectionAction{Type: SelectionActionVersion, Version: "0.76.0"})
		require.NoError(t, err)

		tr, err := s.Apply(SelectionAction{Type: SelectionActionReset})
		require.NoError(t, err)
		assert.True(t, tr.Changed)
		assert.Empty(t, s.Versions())
		assert.Empty(t, s.Configurations())
	})
	t.Run("InvalidActionLeavesStateUnchanged", func(t *testing.T) {
		s := newTestSelection(t)
		_, err := s.Apply(SelectionAction{Type: SelectionActionConfiguration, Version: "0.76.0", PlatformArch: "ios/oldarch"})
		assert.Error(t, err)
		_, err = s.Apply(SelectionAction{Type: "bogus"})
		assert.Error(t, err)
		assert.Empty(t, s.Configurations())
	})
}
