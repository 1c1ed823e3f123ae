package rest

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	keyParam      = "key"
	versionParam  = "version"
	scenarioParam = "scenario"
)

// parseKeys collects the configuration keys from repeated "key" params.
// Comma separated lists are accepted as well; order is kept.
func parseKeys(vals url.Values) []string {
	keys := []string{}
	for _, raw := range vals[keyParam] {
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}

	return keys
}

func parseScenario(vals url.Values) (string, error) {
	scenario := strings.TrimSpace(vals.Get(scenarioParam))
	if scenario == "" {
		return "", errors.Errorf("must specify a '%s'", scenarioParam)
	}

	return scenario, nil
}
