package perf

import (
	"github.com/evergreen-ci/benchboard/model"
	"github.com/pkg/errors"
)

// ReplayResult is the outcome of replaying recorded selection actions on a
// fresh selection.
type ReplayResult struct {
	Selection *model.SelectionState
	// Notices collects the advisory notices of every action in order.
	Notices []model.Notice
	// Report is the report of the last generation request, or nil when no
	// action requested one.
	Report        *model.Report
	ReportNotices []model.Notice
}

// ReplaySelection applies the actions to a new, empty SelectionState.
// Every time a transition requests generation, the report is rebuilt from
// the selection at that point, so the result holds what the dashboard
// would display after the last action. Replay stops at the first invalid
// action.
func ReplaySelection(store model.ResultStore, opts model.SelectionOptions, actions []model.SelectionAction, agg *SeriesAggregator) (*ReplayResult, error) {
	if store == nil {
		return nil, errors.New("cannot replay a selection without a result store")
	}

	state, err := model.NewSelectionState(opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return replay(store, state, model.Transition{}, actions, agg)
}

// ReplayFromLatest is ReplaySelection starting from the dashboard's
// landing state: the catalog's latest version is selected first, seeding
// its default keys and building the automatic report. With an empty
// catalog it behaves like ReplaySelection.
func ReplayFromLatest(store model.ResultStore, opts model.SelectionOptions, catalog *model.VersionCatalog, actions []model.SelectionAction, agg *SeriesAggregator) (*ReplayResult, error) {
	if store == nil {
		return nil, errors.New("cannot replay a selection without a result store")
	}

	state, initial, err := model.NewDefaultSelection(opts, catalog)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return replay(store, state, initial, actions, agg)
}

func replay(store model.ResultStore, state *model.SelectionState, initial model.Transition, actions []model.SelectionAction, agg *SeriesAggregator) (*ReplayResult, error) {
	out := &ReplayResult{
		Selection: state,
		Notices:   []model.Notice{},
	}
	out.observe(store, initial, agg)

	for idx, action := range actions {
		transition, err := state.Apply(action)
		if err != nil {
			return nil, errors.Wrapf(err, "problem applying action %d", idx)
		}
		out.observe(store, transition, agg)
	}

	return out, nil
}

func (r *ReplayResult) observe(store model.ResultStore, transition model.Transition, agg *SeriesAggregator) {
	r.Notices = append(r.Notices, transition.Notices...)
	if transition.Generate {
		r.Report, r.ReportNotices = BuildReport(store, r.Selection, agg)
	}
}
