package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hris-approval-go/internal/config"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/jwt"
)

// NewLogger builds the ECS-formatted JSON logger shared by the request log and
// the process.
func NewLogger(w io.Writer, app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!app.IsDevelopment())

	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

type Handlers struct {
	Auth       AuthHandler
	Request    RequestHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	Event      EventHandler
	Health     http.HandlerFunc
}

func NewRouter(logger *slog.Logger, app config.AppConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	origins := app.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{app.FrontendURL}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", h.Auth.IssueToken)

		// Stream authenticates with a query token
		r.Get("/events", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Post("/events/token", h.Event.GetStreamToken)

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", h.Request.Create)
				r.Get("/", h.Request.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Request.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(auth.PermissionRequestApprove))
						r.Post("/status", h.Request.UpdateStatus)
						r.Post("/approve", h.Request.Approve)
						r.Post("/reject", h.Request.Reject)
					})
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/{id}", h.Employee.Get)

				// HR only
				r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.Employee.Create)
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Get("/", h.Attendance.List)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Attendance.ListHolidays)

				// HR only
				r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.Attendance.CreateHoliday)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(auth.PermissionReportsView))
				r.Get("/summary", h.Report.Summary)
			})
		})
	})
	return r
}
