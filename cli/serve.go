package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"riskradar/database"
	"riskradar/handlers"
	"riskradar/models"
	"riskradar/workflow"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.load()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return rt.serve(ctx)
		},
	}
}

func (rt *runtime) serve(ctx context.Context) error {
	db, err := database.Open(rt.cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	settings := database.NewSettingsRepository(db)

	maxIdle := time.Duration(rt.cfg.Session.MaxAge) * time.Second
	store := workflow.NewStore(func() *workflow.Workflow {
		return workflow.New(rt.service, rt.sessionOptions(settings), rt.log)
	}, maxIdle)

	setGinMode(rt.cfg.Server.Mode)
	h := handlers.New(store, settings, rt.cfg.Session, rt.log)

	srv := &http.Server{
		Addr:              rt.cfg.Server.Addr(),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		// a commit holds the request open for the whole model call
		WriteTimeout: rt.cfg.Gemini.Timeout + 30*time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rt.log.Info("server starting", map[string]interface{}{
			"addr":  srv.Addr,
			"model": string(rt.model),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		rt.log.Info("server shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.log.WithError(err).Error("forced shutdown", nil)
			return err
		}
		return nil
	})

	err = eg.Wait()
	rt.log.Info("server stopped", nil)
	return err
}

// sessionOptions seeds a new session. The model follows --model, then the
// choice saved from the dashboard, then config. The key always comes from the
// flag, config or environment; keys entered in a browser stay in that session.
func (rt *runtime) sessionOptions(settings *database.SettingsRepository) workflow.Options {
	opts := workflow.Options{Model: rt.model, Credential: rt.apiKey}

	saved, ok, err := settings.Load()
	if err != nil {
		rt.log.WithError(err).Warn("saved settings unavailable", nil)
		return opts
	}
	if ok && !rt.modelPinned && saved.Model != "" {
		if m, err := models.ParseModel(saved.Model); err == nil {
			opts.Model = m
		}
	}
	return opts
}

func setGinMode(mode string) {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
