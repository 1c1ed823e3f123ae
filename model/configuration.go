package model

import (
	"fmt"
	"strings"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Platform is the mobile platform a benchmark build ran on.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Validate returns an error if the platform is not supported.
func (p Platform) Validate() error {
	switch p {
	case PlatformAndroid, PlatformIOS:
		return nil
	default:
		return errors.Errorf("unrecognized platform '%s'", p)
	}
}

func (p Platform) displayName() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Architecture is the renderer architecture a benchmark build used.
type Architecture string

const (
	ArchitectureOld Architecture = "oldarch"
	ArchitectureNew Architecture = "newarch"
)

// Validate returns an error if the architecture is not supported.
func (a Architecture) Validate() error {
	switch a {
	case ArchitectureOld, ArchitectureNew:
		return nil
	default:
		return errors.Errorf("unrecognized architecture '%s'", a)
	}
}

// ConfigurationKey identifies one benchmarked build variant. Keys are
// comparable values and serialize as "version/platform/architecture".
type ConfigurationKey struct {
	Version      string       `bson:"version" json:"version" yaml:"version"`
	Platform     Platform     `bson:"platform" json:"platform" yaml:"platform"`
	Architecture Architecture `bson:"architecture" json:"architecture" yaml:"architecture"`
}

// NewConfigurationKey returns a validated key.
func NewConfigurationKey(version string, platform Platform, arch Architecture) (ConfigurationKey, error) {
	key := ConfigurationKey{
		Version:      version,
		Platform:     platform,
		Architecture: arch,
	}

	return key, errors.WithStack(key.Validate())
}

// ParseConfigurationKey parses the "version/platform/architecture" form.
func ParseConfigurationKey(in string) (ConfigurationKey, error) {
	parts := strings.Split(in, "/")
	if len(parts) != 3 {
		return ConfigurationKey{}, errors.Errorf("configuration key '%s' must have exactly three components", in)
	}

	key := ConfigurationKey{
		Version:      parts[0],
		Platform:     Platform(parts[1]),
		Architecture: Architecture(parts[2]),
	}
	if err := key.Validate(); err != nil {
		return ConfigurationKey{}, errors.Wrapf(err, "invalid configuration key '%s'", in)
	}

	return key, nil
}

// ParseConfigurationKeys parses every key, failing on the first malformed one.
func ParseConfigurationKeys(in []string) ([]ConfigurationKey, error) {
	keys := make([]ConfigurationKey, 0, len(in))
	for _, raw := range in {
		key, err := ParseConfigurationKey(raw)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// Validate checks each component of the key.
func (k ConfigurationKey) Validate() error {
	if k.Version == "" {
		return errors.New("configuration key must specify a version")
	}
	if strings.Contains(k.Version, "/") {
		return errors.Errorf("version '%s' may not contain '/'", k.Version)
	}
	if err := k.Platform.Validate(); err != nil {
		return err
	}

	return k.Architecture.Validate()
}

func (k ConfigurationKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Version, k.Platform, k.Architecture)
}

// PlatformArch returns the "platform/architecture" suffix of the key.
func (k ConfigurationKey) PlatformArch() PlatformArch {
	return PlatformArch{Platform: k.Platform, Architecture: k.Architecture}
}

// Label renders the key for chart tooltips, e.g. "0.76.0 Android New".
func (k ConfigurationKey) Label() string {
	arch := "Old"
	if k.Architecture == ArchitectureNew {
		arch = "New"
	}

	return fmt.Sprintf("%s %s %s", k.Version, k.Platform.displayName(), arch)
}

// ShortLabel renders the key for chart axes, e.g. "0.76.0 AN".
func (k ConfigurationKey) ShortLabel() string {
	arch := "O"
	if k.Architecture == ArchitectureNew {
		arch = "N"
	}

	platform := ""
	if name := k.Platform.displayName(); name != "" {
		platform = name[:1]
	}

	return fmt.Sprintf("%s %s%s", k.Version, platform, arch)
}

// PlatformArch is the platform and architecture half of a configuration key.
type PlatformArch struct {
	Platform     Platform
	Architecture Architecture
}

// ParsePlatformArch parses the "platform/architecture" form.
func ParsePlatformArch(in string) (PlatformArch, error) {
	parts := strings.Split(in, "/")
	if len(parts) != 2 {
		return PlatformArch{}, errors.Errorf("platform/architecture '%s' must have exactly two components", in)
	}

	pa := PlatformArch{
		Platform:     Platform(parts[0]),
		Architecture: Architecture(parts[1]),
	}
	catcher := grip.NewBasicCatcher()
	catcher.Add(pa.Platform.Validate())
	catcher.Add(pa.Architecture.Validate())

	return pa, errors.Wrapf(catcher.Resolve(), "invalid platform/architecture '%s'", in)
}

func (pa PlatformArch) String() string {
	return fmt.Sprintf("%s/%s", pa.Platform, pa.Architecture)
}

// Key combines the platform and architecture with a version.
func (pa PlatformArch) Key(version string) ConfigurationKey {
	return ConfigurationKey{
		Version:      version,
		Platform:     pa.Platform,
		Architecture: pa.Architecture,
	}
}

// AllPlatformArchs returns every platform/architecture pair in display
// order.
func AllPlatformArchs() []PlatformArch {
	return []PlatformArch{
		{Platform: PlatformAndroid, Architecture: ArchitectureOld},
		{Platform: PlatformAndroid, Architecture: ArchitectureNew},
		{Platform: PlatformIOS, Architecture: ArchitectureOld},
		{Platform: PlatformIOS, Architecture: ArchitectureNew},
	}
}

func keyStrings(keys []ConfigurationKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}
