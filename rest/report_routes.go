package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/benchboard/rest/data"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /report?key=<key>&key=<key>

type reportGetHandler struct {
	keys    []string
	sc      data.Connector
	metrics *serviceMetrics
}

func makeGetReport(sc data.Connector, metrics *serviceMetrics) gimlet.RouteHandler {
	return &reportGetHandler{
		sc:      sc,
		metrics: metrics,
	}
}

// Factory returns a pointer to a new reportGetHandler.
func (h *reportGetHandler) Factory() gimlet.RouteHandler {
	return &reportGetHandler{
		sc:      h.sc,
		metrics: h.metrics,
	}
}

// Parse collects the configuration keys from the query.
func (h *reportGetHandler) Parse(_ context.Context, r *http.Request) error {
	h.keys = parseKeys(r.URL.Query())
	return nil
}

// Run builds the report for the keys, in order.
func (h *reportGetHandler) Run(ctx context.Context) gimlet.Responder {
	report, err := h.sc.BuildReport(ctx, h.keys)
	if err != nil {
		err = errors.Wrap(err, "problem building report")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "GET",
			"route":   "/report",
			"keys":    h.keys,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}
	h.metrics.observeReport("report", report)

	return gimlet.NewJSONResponse(report)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /selection

type selectionGetHandler struct {
	sc      data.Connector
	metrics *serviceMetrics
}

func makeGetSelection(sc data.Connector, metrics *serviceMetrics) gimlet.RouteHandler {
	return &selectionGetHandler{
		sc:      sc,
		metrics: metrics,
	}
}

// Factory returns a pointer to a new selectionGetHandler.
func (h *selectionGetHandler) Factory() gimlet.RouteHandler {
	return &selectionGetHandler{
		sc:      h.sc,
		metrics: h.metrics,
	}
}

func (h *selectionGetHandler) Parse(_ context.Context, _ *http.Request) error { return nil }

// Run returns the landing selection: the latest version with its default
// configurations and the report generated for them.
func (h *selectionGetHandler) Run(ctx context.Context) gimlet.Responder {
	selection, err := h.sc.DefaultSelection(ctx, nil)
	if err != nil {
		err = errors.Wrap(err, "problem building default selection")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "GET",
			"route":   "/selection",
		})
		return gimlet.MakeJSONErrorResponder(err)
	}
	h.metrics.observeNotices(selection.Notices)
	h.metrics.observeReport("selection", selection.Report)

	return gimlet.NewJSONResponse(selection)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /selection

type selectionPostHandler struct {
	request model.APISelectionRequest
	sc      data.Connector
	metrics *serviceMetrics
}

func makePostSelection(sc data.Connector, metrics *serviceMetrics) gimlet.RouteHandler {
	return &selectionPostHandler{
		sc:      sc,
		metrics: metrics,
	}
}

// Factory returns a pointer to a new selectionPostHandler.
func (h *selectionPostHandler) Factory() gimlet.RouteHandler {
	return &selectionPostHandler{
		sc:      h.sc,
		metrics: h.metrics,
	}
}

// Parse reads the recorded actions from the request body.
func (h *selectionPostHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.request); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "problem parsing selection request").Error(),
		}
	}

	return nil
}

// Run replays the actions on a fresh selection, or on the landing selection
// when from_latest is set, and returns the final state along with the last
// generated report.
func (h *selectionPostHandler) Run(ctx context.Context) gimlet.Responder {
	actions, err := h.request.Export()
	if err != nil {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		})
	}

	var selection *model.APISelection
	if h.request.FromLatest {
		selection, err = h.sc.DefaultSelection(ctx, actions)
	} else {
		selection, err = h.sc.ReplaySelection(ctx, actions)
	}
	if err != nil {
		err = errors.Wrap(err, "problem replaying selection")
		logRequestError(err, message.Fields{
			"request":     gimlet.GetRequestID(ctx),
			"method":      "POST",
			"route":       "/selection",
			"actions":     len(actions),
			"from_latest": h.request.FromLatest,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}
	h.metrics.observeNotices(selection.Notices)
	h.metrics.observeReport("selection", selection.Report)

	return gimlet.NewJSONResponse(selection)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /analysis?key=<key>&scenario=<scenario>

type analysisGetHandler struct {
	keys     []string
	scenario string
	sc       data.Connector
}

func makeGetAnalysis(sc data.Connector) gimlet.RouteHandler {
	return &analysisGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new analysisGetHandler.
func (h *analysisGetHandler) Factory() gimlet.RouteHandler {
	return &analysisGetHandler{
		sc: h.sc,
	}
}

// Parse collects the keys and the scenario from the query.
func (h *analysisGetHandler) Parse(_ context.Context, r *http.Request) error {
	vals := r.URL.Query()
	h.keys = parseKeys(vals)

	var err error
	h.scenario, err = parseScenario(vals)
	if err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// Run analyzes the scenario across the keys.
func (h *analysisGetHandler) Run(ctx context.Context) gimlet.Responder {
	analysis, err := h.sc.AnalyzeScenario(ctx, h.keys, h.scenario)
	if err != nil {
		err = errors.Wrapf(err, "problem analyzing scenario '%s'", h.scenario)
		logRequestError(err, message.Fields{
			"request":  gimlet.GetRequestID(ctx),
			"method":   "GET",
			"route":    "/analysis",
			"keys":     h.keys,
			"scenario": h.scenario,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(analysis)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /export

type exportPostHandler struct {
	request model.APIReportExportRequest
	sc      data.Connector
}

func makePostExport(sc data.Connector) gimlet.RouteHandler {
	return &exportPostHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new exportPostHandler.
func (h *exportPostHandler) Factory() gimlet.RouteHandler {
	return &exportPostHandler{
		sc: h.sc,
	}
}

// Parse reads the keys to export from the request body.
func (h *exportPostHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.request); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "problem parsing export request").Error(),
		}
	}

	return nil
}

// Run enqueues the export and returns the job.
func (h *exportPostHandler) Run(ctx context.Context) gimlet.Responder {
	job, err := h.sc.ScheduleReportExport(ctx, h.request.Keys)
	if err != nil {
		err = errors.Wrap(err, "problem scheduling report export")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/export",
			"keys":    h.request.Keys,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	grip.Info(message.Fields{
		"message": "scheduled report export",
		"request": gimlet.GetRequestID(ctx),
		"job":     utility.FromStringPtr(job.ID),
	})

	resp := gimlet.NewJSONResponse(job)
	if err = resp.SetStatus(http.StatusAccepted); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return resp
}
