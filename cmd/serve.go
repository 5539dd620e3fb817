package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAdvisor(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the service routes.
func newRouter(env *advisorEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", handleHealth)
	r.Post("/predict", handlePredict(env))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "crop advisor running"})
}

// predictResponse is the wire shape of a recommendation response.
type predictResponse struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Degraded        bool                   `json:"degraded"`
	DegradedReason  string                 `json:"degraded_reason,omitempty"`
}

func handlePredict(env *advisorEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var conditions model.FieldConditions
		if err := json.NewDecoder(r.Body).Decode(&conditions); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := conditions.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": eris.Cause(err).Error()})
			return
		}

		run := recordRunStart(r.Context(), env, conditions)

		result, err := env.Engine.Recommend(r.Context(), conditions)
		if err != nil {
			recordRunEnd(env, run, model.RunStatusFailed, &model.RunResult{Error: err.Error()})
			zap.L().Error("predict request failed",
				zap.String("district", conditions.District),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "recommendation failed"})
			return
		}

		recordRunEnd(env, run, model.RunStatusComplete, &model.RunResult{
			Recommendations: result.Recommendations,
			Candidates:      result.Candidates,
			Degraded:        result.Degraded,
			DegradedReason:  result.DegradedReason,
		})

		writeJSON(w, http.StatusOK, predictResponse{
			Recommendations: result.Recommendations,
			Degraded:        result.Degraded,
			DegradedReason:  result.DegradedReason,
		})
	}
}

// recordRunStart persists the incoming request. Store failures are logged
// and do not affect the response.
func recordRunStart(ctx context.Context, env *advisorEnv, conditions model.FieldConditions) *model.Run {
	if env.Store == nil {
		return nil
	}
	run, err := env.Store.CreateRun(ctx, conditions)
	if err != nil {
		zap.L().Warn("failed to record run start", zap.Error(err))
		return nil
	}
	return run
}

func recordRunEnd(env *advisorEnv, run *model.Run, status model.RunStatus, result *model.RunResult) {
	if env.Store == nil || run == nil {
		return
	}
	// The request context may already be cancelled; use a short detached one.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := env.Store.CompleteRun(ctx, run.ID, status, result); err != nil {
		zap.L().Warn("failed to record run end", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
