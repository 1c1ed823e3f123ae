package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/benchboard/rest/data"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

const defaultServicePort = 3000

// Service serves the dashboard API.
type Service struct {
	Port        int
	Prefix      string
	Environment benchboard.Environment

	// Connector defaults to the environment's snapshots.
	Connector data.Connector

	// internal settings
	app     *gimlet.APIApp
	metrics *serviceMetrics
}

func (s *Service) Validate() error {
	if s.Environment == nil {
		return errors.New("must specify an environment")
	}

	if s.Connector == nil {
		s.Connector = data.CreateDBConnector(s.Environment)
	}

	if s.Port == 0 {
		s.Port = defaultServicePort
	}

	if s.app != nil {
		return nil
	}

	s.app = gimlet.NewApp()
	if err := s.app.SetPort(s.Port); err != nil {
		return errors.WithStack(err)
	}
	if s.Prefix != "" {
		s.app.SetPrefix(s.Prefix)
	}

	s.metrics = newServiceMetrics()
	s.app.AddMiddleware(gimlet.MakeRecoveryLogger())
	s.app.AddMiddleware(gimlet.NewAppLogger())
	if origins := s.Environment.GetConf().CORSOrigins; len(origins) > 0 {
		s.app.AddMiddleware(cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}
	s.app.AddMiddleware(s.metrics)

	s.addRoutes()

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.app == nil {
		return errors.New("application is not valid")
	}

	if err := s.app.Resolve(); err != nil {
		return errors.Wrap(err, "problem resolving routes")
	}

	grip.Info(message.Fields{
		"message": "starting service",
		"port":    s.Port,
		"prefix":  s.Prefix,
	})

	return s.app.Run(ctx)
}

func (s *Service) addRoutes() {
	s.app.AddRoute("/status").Version(1).Get().RouteHandler(makeGetStatus(s.Connector))
	s.app.AddRoute("/versions").Version(1).Get().RouteHandler(makeGetVersions(s.Connector))
	s.app.AddRoute("/configurations").Version(1).Get().RouteHandler(makeGetConfigurations(s.Connector))
	s.app.AddRoute("/benchmarks").Version(1).Get().RouteHandler(makeGetBenchmarks(s.Connector))

	s.app.AddRoute("/report").Version(1).Get().RouteHandler(makeGetReport(s.Connector, s.metrics))
	s.app.AddRoute("/selection").Version(1).Get().RouteHandler(makeGetSelection(s.Connector, s.metrics))
	s.app.AddRoute("/selection").Version(1).Post().RouteHandler(makePostSelection(s.Connector, s.metrics))
	s.app.AddRoute("/analysis").Version(1).Get().RouteHandler(makeGetAnalysis(s.Connector))
	s.app.AddRoute("/export").Version(1).Post().RouteHandler(makePostExport(s.Connector))

	s.app.AddRoute("/admin/reload").Version(1).Post().RouteHandler(makePostReload(s.Connector))
	s.app.AddRoute("/metrics").Version(1).Get().Handler(s.metrics.handler())
}
