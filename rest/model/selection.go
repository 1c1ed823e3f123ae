package model

import (
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/perf"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// APISelectionAction is one recorded interaction with the selection menus.
type APISelectionAction struct {
	Type         *string `json:"type"`
	Version      *string `json:"version,omitempty"`
	PlatformArch *string `json:"platform_arch,omitempty"`
}

// Import transforms a SelectionAction into an APISelectionAction.
func (a *APISelectionAction) Import(i interface{}) error {
	action, ok := i.(dbmodel.SelectionAction)
	if !ok {
		return errors.Errorf("incorrect type %T when converting to APISelectionAction", i)
	}

	a.Type = utility.ToStringPtr(string(action.Type))
	a.Version = nil
	if action.Version != "" {
		a.Version = utility.ToStringPtr(action.Version)
	}
	a.PlatformArch = nil
	if action.PlatformArch != "" {
		a.PlatformArch = utility.ToStringPtr(action.PlatformArch)
	}

	return nil
}

// Export returns the validated SelectionAction.
func (a *APISelectionAction) Export() (interface{}, error) {
	action := dbmodel.SelectionAction{
		Type:         dbmodel.SelectionActionType(utility.FromStringPtr(a.Type)),
		Version:      utility.FromStringPtr(a.Version),
		PlatformArch: utility.FromStringPtr(a.PlatformArch),
	}
	if err := action.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	return action, nil
}

// APISelectionRequest is the body of a selection replay request.
type APISelectionRequest struct {
	Actions []APISelectionAction `json:"actions"`
	// FromLatest replays the actions on the landing selection instead of
	// an empty one.
	FromLatest bool `json:"from_latest,omitempty"`
}

// Export returns the validated actions in order.
func (r *APISelectionRequest) Export() ([]dbmodel.SelectionAction, error) {
	out := make([]dbmodel.SelectionAction, 0, len(r.Actions))
	for idx := range r.Actions {
		action, err := r.Actions[idx].Export()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid action %d", idx)
		}
		out = append(out, action.(dbmodel.SelectionAction))
	}

	return out, nil
}

// APISelection is the state of the selection menus after a replay.
type APISelection struct {
	Versions       []string              `json:"versions"`
	Configurations []APIConfigurationKey `json:"configurations"`
	MaxVersions    int                   `json:"max_versions"`
	MaxConfigs     int                   `json:"max_configurations"`
	AutoGenerated  bool                  `json:"auto_generated"`
	Notices        []APINotice           `json:"notices"`
	Report         *APIReport            `json:"report"`
}

// Import transforms the result of a replay into an APISelection.
func (s *APISelection) Import(i interface{}) error {
	res, ok := i.(*perf.ReplayResult)
	if !ok || res == nil || res.Selection == nil {
		return errors.Errorf("incorrect type %T when converting to APISelection", i)
	}

	opts := res.Selection.Options()
	s.Versions = res.Selection.Versions()
	s.Configurations = NewAPIConfigurationKeys(res.Selection.Configurations())
	s.MaxVersions = opts.MaxVersions
	s.MaxConfigs = opts.MaxConfigurations
	s.AutoGenerated = res.Selection.AutoGenerateConsumed()
	s.Notices = NewAPINotices(res.Notices)

	s.Report = nil
	if res.Report != nil {
		s.Report = &APIReport{}
		if err := s.Report.Import(res.Report); err != nil {
			return errors.WithStack(err)
		}
		s.Report.Notices = NewAPINotices(res.ReportNotices)
	}

	return nil
}

func (s *APISelection) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APISelection")
}
