package model

import (
	"github.com/pkg/errors"
)

// SelectionActionType names a user interaction with the selection menus.
type SelectionActionType string

const (
	SelectionActionVersion       SelectionActionType = "version"
	SelectionActionConfiguration SelectionActionType = "configuration"
	SelectionActionReset         SelectionActionType = "reset"
	SelectionActionGenerate      SelectionActionType = "generate"
)

// SelectionAction is one recorded interaction. Version is required for the
// version and configuration actions; PlatformArch only for configuration
// actions.
type SelectionAction struct {
	Type         SelectionActionType `json:"type" yaml:"type"`
	Version      string              `json:"version,omitempty" yaml:"version,omitempty"`
	PlatformArch string              `json:"platform_arch,omitempty" yaml:"platform_arch,omitempty"`
}

// Validate checks that the action carries the fields its type needs.
func (a SelectionAction) Validate() error {
	switch a.Type {
	case SelectionActionVersion:
		if a.Version == "" {
			return errors.New("version action must specify a version")
		}
	case SelectionActionConfiguration:
		if a.Version == "" || a.PlatformArch == "" {
			return errors.New("configuration action must specify a version and a platform/architecture")
		}
	case SelectionActionReset, SelectionActionGenerate:
	default:
		return errors.Errorf("unrecognized selection action '%s'", a.Type)
	}

	return nil
}

// Apply performs the action. An explicit generate request always asks for a
// report, independently of the one-shot automatic generation.
func (s *SelectionState) Apply(action SelectionAction) (Transition, error) {
	if err := action.Validate(); err != nil {
		return Transition{}, errors.WithStack(err)
	}

	switch action.Type {
	case SelectionActionVersion:
		return s.ToggleVersion(action.Version)
	case SelectionActionConfiguration:
		return s.ToggleConfiguration(action.Version, action.PlatformArch)
	case SelectionActionReset:
		return s.Reset(), nil
	default:
		return Transition{Generate: true}, nil
	}
}
