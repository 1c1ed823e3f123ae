package model

import (
	"github.com/pkg/errors"
)

// DefaultMaxSelections is the default capacity for both the configuration
// and the version selections.
const DefaultMaxSelections = 4

// SelectionOptions configures the capacities of a SelectionState.
type SelectionOptions struct {
	MaxConfigurations int `json:"max_configurations" yaml:"max_configurations"`
	MaxVersions       int `json:"max_versions" yaml:"max_versions"`
}

// Validate fills in defaults and checks that the configuration capacity can
// hold the two seeded keys.
func (o *SelectionOptions) Validate() error {
	if o.MaxConfigurations == 0 {
		o.MaxConfigurations = DefaultMaxSelections
	}
	if o.MaxVersions == 0 {
		o.MaxVersions = DefaultMaxSelections
	}
	if o.MaxConfigurations < 2 {
		return errors.Errorf("configuration capacity must be at least 2, not %d", o.MaxConfigurations)
	}
	if o.MaxVersions < 1 {
		return errors.Errorf("version capacity must be at least 1, not %d", o.MaxVersions)
	}

	return nil
}

// Transition describes the outcome of one selection mutation.
type Transition struct {
	// Changed is true when the configuration selection changed.
	Changed bool `json:"changed"`
	// Generate is true when the caller should build a report without an
	// explicit request. This happens once per SelectionState, on the first
	// mutation that makes the configuration selection non-empty.
	Generate bool     `json:"generate"`
	Notices  []Notice `json:"notices,omitempty"`
}

// SelectionState holds the versions and configurations a user has chosen.
// Both selections are ordered, unique and bounded; configuration order
// determines column order in reports. A SelectionState is not safe for
// concurrent use.
type SelectionState struct {
	opts           SelectionOptions
	versions       []string
	configurations []ConfigurationKey
	seeded         bool
	autoGenerated  bool
}

// NewSelectionState returns an empty selection.
func NewSelectionState(opts SelectionOptions) (*SelectionState, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid selection options")
	}

	return &SelectionState{
		opts:           opts,
		versions:       []string{},
		configurations: []ConfigurationKey{},
	}, nil
}

// NewDefaultSelection returns the selection the dashboard opens with: the
// catalog's latest version toggled on, which seeds its two android keys
// and requests the one automatic report. An empty or nil catalog yields an
// empty selection and a zero Transition.
func NewDefaultSelection(opts SelectionOptions, catalog *VersionCatalog) (*SelectionState, Transition, error) {
	s, err := NewSelectionState(opts)
	if err != nil {
		return nil, Transition{}, err
	}

	latest := catalog.Latest()
	if latest == "" {
		return s, Transition{}, nil
	}

	transition, err := s.ToggleVersion(latest)
	if err != nil {
		return nil, Transition{}, errors.Wrapf(err, "selecting latest version '%s'", latest)
	}

	return s, transition, nil
}

// SelectionFromKeys builds a selection holding the given keys in order, as
// if each had been chosen by hand. Versions are selected in order of first
// appearance and no default keys are seeded. Keys beyond either capacity
// are skipped with a notice; duplicates are ignored.
func SelectionFromKeys(opts SelectionOptions, keys []ConfigurationKey) (*SelectionState, []Notice, error) {
	s, err := NewSelectionState(opts)
	if err != nil {
		return nil, nil, err
	}
	s.seeded = true
	s.autoGenerated = true

	notices := []Notice{}
	var versionsFull, configurationsFull bool
	for _, key := range keys {
		if err = key.Validate(); err != nil {
			return nil, nil, errors.Wrap(err, "invalid configuration")
		}
		if s.HasConfiguration(key) {
			continue
		}
		if len(s.configurations) >= s.opts.MaxConfigurations {
			if !configurationsFull {
				configurationsFull = true
				notices = append(notices, maxConfigurationsNotice(s.opts.MaxConfigurations))
			}
			continue
		}
		if !s.HasVersion(key.Version) {
			if len(s.versions) >= s.opts.MaxVersions {
				if !versionsFull {
					versionsFull = true
					notices = append(notices, maxVersionsNotice(s.opts.MaxVersions))
				}
				continue
			}
			s.versions = append(s.versions, key.Version)
		}
		s.configurations = append(s.configurations, key)
	}

	return s, notices, nil
}

// Options returns the capacities in effect.
func (s *SelectionState) Options() SelectionOptions { return s.opts }

// Versions returns a copy of the selected versions in insertion order.
func (s *SelectionState) Versions() []string {
	return append([]string{}, s.versions...)
}

// Configurations returns a copy of the selected keys in insertion order.
func (s *SelectionState) Configurations() []ConfigurationKey {
	return append([]ConfigurationKey{}, s.configurations...)
}

// HasVersion reports whether the version is selected.
func (s *SelectionState) HasVersion(version string) bool {
	return s.versionIndex(version) >= 0
}

// HasConfiguration reports whether the key is selected.
func (s *SelectionState) HasConfiguration(key ConfigurationKey) bool {
	return s.configurationIndex(key) >= 0
}

// ToggleVersion selects the version if it is absent, or deselects it and
// every configuration of that version if it is present. Selecting beyond
// capacity is rejected with a notice and leaves the state unchanged.
func (s *SelectionState) ToggleVersion(version string) (Transition, error) {
	if version == "" {
		return Transition{}, errors.New("version must not be empty")
	}

	wasEmpty := len(s.configurations) == 0

	if idx := s.versionIndex(version); idx >= 0 {
		s.versions = append(s.versions[:idx], s.versions[idx+1:]...)

		kept := make([]ConfigurationKey, 0, len(s.configurations))
		for _, k := range s.configurations {
			if k.Version != version {
				kept = append(kept, k)
			}
		}
		changed := len(kept) != len(s.configurations)
		s.configurations = kept

		return s.transition(wasEmpty, changed), nil
	}

	if len(s.versions) >= s.opts.MaxVersions {
		return Transition{Notices: []Notice{maxVersionsNotice(s.opts.MaxVersions)}}, nil
	}

	s.versions = append(s.versions, version)

	changed := false
	if !s.seeded && len(s.versions) == 1 && len(s.configurations) == 0 {
		s.seeded = true
		s.configurations = append(s.configurations,
			ConfigurationKey{Version: version, Platform: PlatformAndroid, Architecture: ArchitectureOld},
			ConfigurationKey{Version: version, Platform: PlatformAndroid, Architecture: ArchitectureNew},
		)
		changed = true
	}

	return s.transition(wasEmpty, changed), nil
}

// ToggleConfiguration selects or deselects a single configuration of a
// selected version. platformArch has the "platform/architecture" form.
// Selecting beyond capacity is rejected with a notice and leaves the state
// unchanged.
func (s *SelectionState) ToggleConfiguration(version, platformArch string) (Transition, error) {
	pa, err := ParsePlatformArch(platformArch)
	if err != nil {
		return Transition{}, err
	}
	key := pa.Key(version)
	if err = key.Validate(); err != nil {
		return Transition{}, errors.Wrap(err, "invalid configuration")
	}
	if !s.HasVersion(version) {
		return Transition{}, errors.Errorf("version '%s' is not selected", version)
	}

	wasEmpty := len(s.configurations) == 0

	if idx := s.configurationIndex(key); idx >= 0 {
		s.configurations = append(s.configurations[:idx], s.configurations[idx+1:]...)
		return s.transition(wasEmpty, true), nil
	}

	if len(s.configurations) >= s.opts.MaxConfigurations {
		return Transition{Notices: []Notice{maxConfigurationsNotice(s.opts.MaxConfigurations)}}, nil
	}

	s.configurations = append(s.configurations, key)

	return s.transition(wasEmpty, true), nil
}

// Reset clears both selections. The one-shot automatic generation is not
// rearmed.
func (s *SelectionState) Reset() Transition {
	changed := len(s.configurations) > 0 || len(s.versions) > 0
	s.versions = []string{}
	s.configurations = []ConfigurationKey{}

	return Transition{Changed: changed}
}

// AutoGenerateConsumed reports whether the one-shot automatic generation
// has already been requested.
func (s *SelectionState) AutoGenerateConsumed() bool { return s.autoGenerated }

func (s *SelectionState) transition(wasEmpty, changed bool) Transition {
	t := Transition{Changed: changed}
	if changed && wasEmpty && len(s.configurations) > 0 && !s.autoGenerated {
		s.autoGenerated = true
		t.Generate = true
	}

	return t
}

func (s *SelectionState) versionIndex(version string) int {
	for i, v := range s.versions {
		if v == version {
			return i
		}
	}
	return -1
}

func (s *SelectionState) configurationIndex(key ConfigurationKey) int {
	for i, k := range s.configurations {
		if k == key {
			return i
		}
	}
	return -1
}
