package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"team_rotator/internal/app"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/task"
	"team_rotator/internal/infra/logger"
)

// RotationAPI is the service surface exposed over HTTP.
type RotationAPI interface {
	ListAssignmentDetails(ctx context.Context) ([]app.AssignmentDetail, error)
	ListMembers(ctx context.Context) ([]member.Member, error)
	ListTasks(ctx context.Context) ([]task.Task, error)
	AdvanceAssignments(ctx context.Context) (*app.PassReport, error)
	FixDates(ctx context.Context) (*app.PassReport, error)
	Announce(ctx context.Context) error
	RunScheduled(ctx context.Context, checkWorkingDay bool) (*app.ScheduledReport, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr            string
	CheckWorkingDay bool                // applied by GET /api/cron
	Logs            *logger.Buffer      // nil disables /api/logs content
	Gatherer        prometheus.Gatherer // nil means prometheus.DefaultGatherer
	Admin           AdminAPI            // nil leaves out the write routes
}

type Server struct {
	echo *echo.Echo
	addr string
	log  *logrus.Entry
}

func NewServer(svc RotationAPI, opts Options, log *logrus.Entry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := &handlers{svc: svc, logs: opts.Logs, checkWorkingDay: opts.CheckWorkingDay, log: log}
	e.GET("/healthz", h.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/assignments", h.listAssignments)
	api.POST("/assignments/update-rotation", h.updateRotation)
	api.POST("/assignments/send-to-slack", h.sendToSlack)
	api.POST("/assignments/fix-dates", h.fixDates)
	api.GET("/cron", h.cron)
	api.GET("/members", h.listMembers)
	api.GET("/tasks", h.listTasks)
	api.GET("/logs", h.listLogs)
	api.DELETE("/logs", h.clearLogs)
	if opts.Admin != nil {
		(&adminHandlers{handlers: h, admin: opts.Admin}).register(api)
	}

	return &Server{echo: e, addr: opts.Addr, log: log}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("HTTP server listening")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger(log *logrus.Entry) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": float64(v.Latency) / float64(time.Millisecond),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("HTTP request failed")
				return nil
			}
			entry.Debug("HTTP request")
			return nil
		},
	})
}
