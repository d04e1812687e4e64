package handler

import (
	"net/http"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *AuthHandler
	Registration *RegistrationHandler
	Patients     *PatientHandler
	Users        *UserHandler
	Appointments *AppointmentHandler
	Health       *HealthHandler
}

type RouterOptions struct {
	AllowedOrigins     []string
	RateLimitPerSecond int
}

func NewRouter(h Handlers, auth *middleware.AuthMiddleware, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	r.Get("/health", h.Health.Health)
	r.Get("/health/live", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerSecond > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitPerSecond, time.Second))
		}

		r.Post("/auth/register", h.Registration.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/patients", h.Patients.List)
			r.Get("/patients/{id}", h.Patients.Get)
			r.Delete("/patients/{id}", h.Patients.Delete)

			r.Delete("/users/{id}", h.Users.Delete)

			r.Get("/appointments", h.Appointments.List)
			r.Post("/appointments", h.Appointments.Create)
			r.Delete("/appointments/{id}", h.Appointments.Delete)
		})
	})

	return r
}
