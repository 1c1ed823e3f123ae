package model

import (
	"fmt"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

// NoticeKind classifies an advisory notice.
type NoticeKind string

const (
	NoticeMaxConfigurations NoticeKind = "max-configurations"
	NoticeMaxVersions       NoticeKind = "max-versions"
	NoticeDataNotFound      NoticeKind = "data-not-found"
)

// Notice is an advisory signal for the presentation layer. Notices describe
// recoverable conditions and are never returned as errors.
type Notice struct {
	Kind    NoticeKind `json:"kind" yaml:"kind"`
	Message string     `json:"message" yaml:"message"`
	Key     string     `json:"key,omitempty" yaml:"key,omitempty"`
}

func maxConfigurationsNotice(max int) Notice {
	return Notice{
		Kind:    NoticeMaxConfigurations,
		Message: fmt.Sprintf("maximum %d configurations can be selected", max),
	}
}

func maxVersionsNotice(max int) Notice {
	return Notice{
		Kind:    NoticeMaxVersions,
		Message: fmt.Sprintf("maximum %d versions can be selected", max),
	}
}

// DataNotFoundNotice reports that no usable record exists for the key.
func DataNotFoundNotice(key ConfigurationKey) Notice {
	return Notice{
		Kind:    NoticeDataNotFound,
		Message: fmt.Sprintf("data not found for key '%s'", key),
		Key:     key.String(),
	}
}

// MissingScenarioNotice reports a record that lacks one of the routed
// scenarios.
func MissingScenarioNotice(key ConfigurationKey, sc Scenario) Notice {
	return Notice{
		Kind:    NoticeDataNotFound,
		Message: fmt.Sprintf("data not found for key '%s': missing scenario '%s'", key, sc),
		Key:     key.String(),
	}
}

// LogNotices writes the notices to the global logger.
func LogNotices(notices []Notice, fields message.Fields) {
	for _, n := range notices {
		msg := message.Fields{
			"message": n.Message,
			"kind":    n.Kind,
		}
		if n.Key != "" {
			msg["key"] = n.Key
		}
		for k, v := range fields {
			msg[k] = v
		}

		if n.Kind == NoticeDataNotFound {
			grip.Warning(msg)
		} else {
			grip.Notice(msg)
		}
	}
}
