package model

import (
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// APIConfigurationKey describes one benchmarked build variant along with
// the labels a chart uses for it.
type APIConfigurationKey struct {
	Key          *string `json:"key"`
	Version      *string `json:"version"`
	Platform     *string `json:"platform"`
	Architecture *string `json:"architecture"`
	Label        *string `json:"label"`
	ShortLabel   *string `json:"short_label"`
}

// Import transforms a ConfigurationKey into an APIConfigurationKey.
func (k *APIConfigurationKey) Import(i interface{}) error {
	var key dbmodel.ConfigurationKey
	switch in := i.(type) {
	case dbmodel.ConfigurationKey:
		key = in
	case *dbmodel.ConfigurationKey:
		if in == nil {
			return errors.New("cannot import a nil configuration key")
		}
		key = *in
	default:
		return errors.Errorf("incorrect type %T when converting to APIConfigurationKey", i)
	}

	k.set(key)
	return nil
}

func (k *APIConfigurationKey) set(key dbmodel.ConfigurationKey) {
	k.Key = utility.ToStringPtr(key.String())
	k.Version = utility.ToStringPtr(key.Version)
	k.Platform = utility.ToStringPtr(string(key.Platform))
	k.Architecture = utility.ToStringPtr(string(key.Architecture))
	k.Label = utility.ToStringPtr(key.Label())
	k.ShortLabel = utility.ToStringPtr(key.ShortLabel())
}

// Export returns the validated ConfigurationKey. The component fields take
// precedence over the serialized key.
func (k *APIConfigurationKey) Export() (interface{}, error) {
	if k.Version == nil && k.Platform == nil && k.Architecture == nil {
		return dbmodel.ParseConfigurationKey(utility.FromStringPtr(k.Key))
	}

	return dbmodel.NewConfigurationKey(
		utility.FromStringPtr(k.Version),
		dbmodel.Platform(utility.FromStringPtr(k.Platform)),
		dbmodel.Architecture(utility.FromStringPtr(k.Architecture)),
	)
}

// NewAPIConfigurationKeys converts a list of keys, preserving order.
func NewAPIConfigurationKeys(keys []dbmodel.ConfigurationKey) []APIConfigurationKey {
	out := make([]APIConfigurationKey, 0, len(keys))
	for _, key := range keys {
		apiKey := APIConfigurationKey{}
		apiKey.set(key)
		out = append(out, apiKey)
	}

	return out
}

// APINotice is an advisory message for the dashboard.
type APINotice struct {
	Kind    *string `json:"kind"`
	Message *string `json:"message"`
	Key     *string `json:"key,omitempty"`
}

// Import transforms a Notice into an APINotice.
func (n *APINotice) Import(i interface{}) error {
	notice, ok := i.(dbmodel.Notice)
	if !ok {
		return errors.Errorf("incorrect type %T when converting to APINotice", i)
	}

	n.set(notice)
	return nil
}

func (n *APINotice) set(notice dbmodel.Notice) {
	n.Kind = utility.ToStringPtr(string(notice.Kind))
	n.Message = utility.ToStringPtr(notice.Message)
	if notice.Key != "" {
		n.Key = utility.ToStringPtr(notice.Key)
	}
}

func (n *APINotice) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APINotice")
}

// NewAPINotices converts notices, always returning a non-nil slice.
func NewAPINotices(notices []dbmodel.Notice) []APINotice {
	out := make([]APINotice, 0, len(notices))
	for _, notice := range notices {
		apiNotice := APINotice{}
		apiNotice.set(notice)
		out = append(out, apiNotice)
	}

	return out
}
