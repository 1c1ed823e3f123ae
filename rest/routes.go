package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/benchboard/rest/data"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /status

type statusGetHandler struct {
	sc data.Connector
}

func makeGetStatus(sc data.Connector) gimlet.RouteHandler {
	return &statusGetHandler{
		sc: sc,
	}
}

func (h *statusGetHandler) Factory() gimlet.RouteHandler {
	return &statusGetHandler{
		sc: h.sc,
	}
}

func (h *statusGetHandler) Parse(_ context.Context, _ *http.Request) error { return nil }

func (h *statusGetHandler) Run(ctx context.Context) gimlet.Responder {
	status, err := h.sc.GetStatus(ctx)
	if err != nil {
		return gimlet.MakeJSONErrorResponder(errors.Wrap(err, "problem getting status"))
	}

	return gimlet.NewJSONResponse(status)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /admin/reload

type reloadPostHandler struct {
	sc data.Connector
}

func makePostReload(sc data.Connector) gimlet.RouteHandler {
	return &reloadPostHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new reloadPostHandler.
func (h *reloadPostHandler) Factory() gimlet.RouteHandler {
	return &reloadPostHandler{
		sc: h.sc,
	}
}

func (h *reloadPostHandler) Parse(_ context.Context, _ *http.Request) error { return nil }

// Run enqueues a reload of the results and returns the job. The current
// snapshot keeps serving until the reload completes.
func (h *reloadPostHandler) Run(ctx context.Context) gimlet.Responder {
	job, err := h.sc.ScheduleReload(ctx)
	if err != nil {
		err = errors.Wrap(err, "problem scheduling reload")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "POST",
			"route":   "/admin/reload",
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	grip.Info(message.Fields{
		"message": "scheduled results reload",
		"request": gimlet.GetRequestID(ctx),
		"job":     utility.FromStringPtr(job.ID),
	})

	resp := gimlet.NewJSONResponse(job)
	if err = resp.SetStatus(http.StatusAccepted); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return resp
}
