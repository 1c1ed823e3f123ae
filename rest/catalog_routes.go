package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/benchboard/rest/data"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /versions

type versionsGetHandler struct {
	sc data.Connector
}

func makeGetVersions(sc data.Connector) gimlet.RouteHandler {
	return &versionsGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new versionsGetHandler.
func (h *versionsGetHandler) Factory() gimlet.RouteHandler {
	return &versionsGetHandler{
		sc: h.sc,
	}
}

func (h *versionsGetHandler) Parse(_ context.Context, _ *http.Request) error { return nil }

// Run returns the version catalog.
func (h *versionsGetHandler) Run(ctx context.Context) gimlet.Responder {
	versions, err := h.sc.FindVersions(ctx)
	if err != nil {
		err = errors.Wrap(err, "problem getting versions")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "GET",
			"route":   "/versions",
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(versions)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /configurations?version=<version>

type configurationsGetHandler struct {
	version string
	sc      data.Connector
}

func makeGetConfigurations(sc data.Connector) gimlet.RouteHandler {
	return &configurationsGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new configurationsGetHandler.
func (h *configurationsGetHandler) Factory() gimlet.RouteHandler {
	return &configurationsGetHandler{
		sc: h.sc,
	}
}

// Parse fetches the optional version filter.
func (h *configurationsGetHandler) Parse(_ context.Context, r *http.Request) error {
	h.version = r.URL.Query().Get(versionParam)
	return nil
}

// Run returns the configurations with results, optionally for one version.
func (h *configurationsGetHandler) Run(ctx context.Context) gimlet.Responder {
	keys, err := h.sc.FindConfigurations(ctx, h.version)
	if err != nil {
		err = errors.Wrap(err, "problem getting configurations")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "GET",
			"route":   "/configurations",
			"version": h.version,
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(keys)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /benchmarks

type benchmarksGetHandler struct {
	sc data.Connector
}

func makeGetBenchmarks(sc data.Connector) gimlet.RouteHandler {
	return &benchmarksGetHandler{
		sc: sc,
	}
}

// Factory returns a pointer to a new benchmarksGetHandler.
func (h *benchmarksGetHandler) Factory() gimlet.RouteHandler {
	return &benchmarksGetHandler{
		sc: h.sc,
	}
}

func (h *benchmarksGetHandler) Parse(_ context.Context, _ *http.Request) error { return nil }

// Run returns the benchmark catalog.
func (h *benchmarksGetHandler) Run(ctx context.Context) gimlet.Responder {
	benchmarks, err := h.sc.FindBenchmarks(ctx)
	if err != nil {
		err = errors.Wrap(err, "problem getting benchmarks")
		logRequestError(err, message.Fields{
			"request": gimlet.GetRequestID(ctx),
			"method":  "GET",
			"route":   "/benchmarks",
		})
		return gimlet.MakeJSONErrorResponder(err)
	}

	return gimlet.NewJSONResponse(benchmarks)
}
