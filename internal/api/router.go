package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/fabrica-vision/presenca/internal/api/docs"
	"github.com/fabrica-vision/presenca/internal/api/handler"
	"github.com/fabrica-vision/presenca/internal/api/middleware"
	"github.com/fabrica-vision/presenca/internal/metrics"
	"github.com/fabrica-vision/presenca/internal/service"
	"github.com/fabrica-vision/presenca/internal/session"
	"github.com/fabrica-vision/presenca/internal/webhook"
	"github.com/fabrica-vision/presenca/internal/ws"
)

// Dependencies carries the wired services the router exposes.
type Dependencies struct {
	StudentService    *service.StudentService
	AttendanceService *service.AttendanceService
	Controller        *session.Controller
	FrameBuffer       *session.FrameBuffer
	WebhookService    *webhook.Service
	Metrics           *metrics.Metrics
	DB                *pgxpool.Pool
}

type Router struct {
	app           *fiber.App
	logger        *slog.Logger
	deps          *Dependencies
	wsHub         *ws.Hub
	webhookWorker *webhook.Worker
	cancelWorker  context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Presenca API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

// Hub exposes the websocket hub so the recognition loop can broadcast.
func (r *Router) Hub() *ws.Hub {
	return r.wsHub
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var db handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	if r.deps.Metrics != nil {
		r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
			r.deps.Metrics.Registry(),
			promhttp.HandlerOpts{},
		)))
	}

	v1 := r.app.Group("/v1")

	r.wsHub = ws.NewHub(r.deps.FrameBuffer)
	go r.wsHub.Run()

	webhookWorkerCtx, cancel := context.WithCancel(context.Background())
	r.cancelWorker = cancel
	r.webhookWorker = webhook.NewWorker(r.deps.DB, r.deps.WebhookService, r.deps.Metrics, r.logger)
	go r.webhookWorker.Run(webhookWorkerCtx)

	studentHandler := handler.NewStudentHandler(r.deps.StudentService, r.logger)
	v1.Post("/students", studentHandler.Enroll)
	v1.Get("/students", studentHandler.List)
	v1.Get("/students/:student_id", studentHandler.Get)
	v1.Patch("/students/:student_id", studentHandler.Rename)
	v1.Put("/students/:student_id/photo", studentHandler.UpdatePhoto)
	v1.Delete("/students/:student_id", studentHandler.Delete)

	attendanceHandler := handler.NewAttendanceHandler(r.deps.AttendanceService, r.logger)
	v1.Post("/attendance", attendanceHandler.Mark)
	v1.Get("/attendance", attendanceHandler.ByDate)
	v1.Get("/attendance/range", attendanceHandler.ByDateRange)
	v1.Get("/attendance/summary", attendanceHandler.Summary)
	v1.Get("/attendance/students/:student_id", attendanceHandler.History)

	sessionHandler := handler.NewSessionHandler(
		r.deps.Controller,
		r.deps.FrameBuffer,
		r.wsHub,
		r.deps.WebhookService,
		r.logger,
	)
	v1.Post("/sessions", sessionHandler.Start)
	v1.Get("/sessions/current", sessionHandler.Status)
	v1.Delete("/sessions/current", sessionHandler.Stop)
	v1.Post("/sessions/current/frames", sessionHandler.SubmitFrame)

	webhooksHandler := handler.NewWebhooksHandler(r.deps.WebhookService, r.logger)
	v1.Get("/webhooks", webhooksHandler.List)
	v1.Post("/webhooks", webhooksHandler.Create)
	v1.Delete("/webhooks/:id", webhooksHandler.Delete)

	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelWorker != nil {
		r.cancelWorker()
	}
	return r.app.Shutdown()
}
