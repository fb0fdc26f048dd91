package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/api/controller"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/feed"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/aggregate"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/dashboard"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/reference"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/submission"
)

type Options struct {
	CORSOrigins []string
	Debounce    time.Duration
	Tick        time.Duration
	Debug       bool
}

type APIService struct {
	router *echo.Echo
	bus    feed.Bus
	opts   Options

	referenceService  *reference.Service
	submissionService *submission.Service
	dashboardService  *dashboard.Service
}

// Serve blocks until the server stops. A graceful Shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Watch keeps the dashboard snapshot fresh until ctx is done.
func (svc *APIService) Watch(ctx context.Context) error {
	return dashboard.NewWatcher(svc.dashboardService, svc.bus, svc.opts.Debounce, svc.opts.Tick).Run(ctx)
}

func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(store store.Store, bus feed.Bus, opts Options) (*APIService, error) {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	svc := &APIService{router: echo.New(), bus: bus, opts: opts}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.INFO)
	if opts.Debug {
		svc.router.Debug = true
		svc.router.Logger.SetLevel(log.DEBUG)
	}
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = jsonSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	svc.router.Use(svc.RequestContextMiddleware)
	svc.router.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/healthz"
		},
	}))
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	svc.referenceService = reference.NewReferenceService(store, aggregate.New(aggregate.AdminConfig()))
	svc.submissionService = submission.NewSubmissionService(store, bus)
	svc.dashboardService = dashboard.NewDashboardService(store, dashboard.NewHub())

	cntrl := controller.NewController(svc.referenceService, svc.submissionService, svc.dashboardService)

	svc.router.GET("/healthz", svc.healthz)
	svc.router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := svc.router.Group("/api/v1")

	api.GET("/categories", cntrl.ListCategories)
	api.GET("/categories/:id/services", cntrl.ListServicesByCategory)
	api.GET("/services", cntrl.ListServices)
	api.GET("/services/:id", cntrl.GetService)

	submissions := api.Group("/submissions")
	submissions.GET("", cntrl.ListSubmissions)
	submissions.POST("", cntrl.CreateSubmission)
	submissions.GET("/:id", cntrl.GetSubmission)
	submissions.PUT("/:id", cntrl.UpdateSubmission)
	submissions.POST("/:id/verify", cntrl.VerifySubmission)
	submissions.DELETE("/:id", cntrl.DeleteSubmission)

	dash := api.Group("/dashboard")
	dash.GET("", cntrl.GetDashboard)
	dash.GET("/stream", cntrl.StreamDashboard)
	dash.GET("/services/:id", cntrl.GetServiceStats)
	dash.GET("/categories/:id", cntrl.GetCategoryTotal)

	return svc, nil
}

func (svc *APIService) healthz(ctx echo.Context) error {
	snap := svc.dashboardService.Snapshot()
	resp := map[string]any{"status": "ok"}
	if snap != nil {
		resp["loaded_at"] = snap.LoadedAt
	}
	return ctx.JSON(http.StatusOK, resp)
}
