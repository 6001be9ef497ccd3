package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "github.com/sarafti/sarafti/pkg/handlers/admin"
	restauranthandler "github.com/sarafti/sarafti/pkg/handlers/restaurant"
	saraftimiddleware "github.com/sarafti/sarafti/pkg/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Registry    restauranthandler.Registry
	Reports     restauranthandler.ReportSource
	Intake      restauranthandler.IntakeService
	Moderator   adminhandler.Moderator
	Metrics     adminhandler.SubmissionMetrics
	Restaurants adminhandler.RestaurantAdmin
	Logger      zerolog.Logger
}

type Config struct {
	Addr            string
	AdminToken      string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	publicHandler := restauranthandler.NewHandler(deps.Registry, deps.Reports, deps.Intake)
	adminHandler := adminhandler.NewHandler(deps.Moderator, deps.Metrics, deps.Restaurants)

	router := chi.NewRouter()
	router.Use(saraftimiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/restaurants", publicHandler.ListRestaurants)
		r.Post("/restaurants", publicHandler.CreateRestaurant)
		r.Get("/restaurants/{restaurantID}", publicHandler.GetRestaurant)
		r.Post("/submissions", publicHandler.SubmitReport)
		r.Delete("/submissions", publicHandler.WithdrawSubmission)

		r.Route("/admin", func(r chi.Router) {
			r.Use(saraftimiddleware.AdminToken(config.AdminToken))
			r.Post("/submissions/{submissionID}/approve", adminHandler.ApproveSubmission)
			r.Post("/submissions/{submissionID}/reject", adminHandler.RejectSubmission)
			r.Post("/submissions/{submissionID}/soft-delete", adminHandler.SoftDeleteSubmission)
			r.Post("/restaurants/{restaurantID}/soft-delete", adminHandler.SoftDeleteRestaurant)
			r.Get("/spikes", adminHandler.GetSpikes)
		})
	})

	return router
}

type WebAPI struct {
	logger  *zerolog.Logger
	server  *http.Server
	timeout time.Duration
}

func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		logger:  &logger,
		timeout: timeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: ConfigureRouter(config),
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
