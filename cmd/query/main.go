package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"skipgram-query/internal/app"
	"skipgram-query/internal/cache"
	"skipgram-query/internal/httputil"
	"skipgram-query/internal/model"
)

type predictRequest struct {
	Word string `json:"word" validate:"required,min=1,max=100"`
	TopK int    `json:"top_k" validate:"omitempty,min=1,max=1000"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/predict", predictHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("query service listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

func predictHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}

		// Validate request
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		if req.TopK == 0 {
			req.TopK = deps.Config.DefaultTopK
		}

		ctx := r.Context()

		// Check cache first
		cacheKey := cache.Key(req.Word, req.TopK)
		if cached, err := deps.Cache.GetPredictions(ctx, cacheKey); err == nil && cached != nil {
			deps.Log.Info("cache hit", "word", req.Word)
			httputil.WriteJSON(w, http.StatusOK, map[string]any{
				"query_id":    uuid.NewString(),
				"word":        req.Word,
				"predictions": cached,
				"cached":      true,
			})
			return
		} else if err != nil {
			deps.Log.Warn("cache read failed", "err", err)
		}

		// Cache miss - run the forward pass
		preds, err := deps.Eval.Evaluate(req.Word, req.TopK)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrUnknownWord):
				httputil.Fail(deps.Log, w, "word not in vocabulary", err, http.StatusNotFound)
			case errors.Is(err, model.ErrInvalidInput):
				httputil.Fail(deps.Log, w, "invalid input", err, http.StatusBadRequest)
			default:
				httputil.Fail(deps.Log, w, "prediction failed", err, http.StatusInternalServerError)
			}
			return
		}

		// Store in cache; failures are logged, never surfaced
		cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second
		if err := deps.Cache.SetPredictions(ctx, cacheKey, preds, cacheTTL); err != nil {
			deps.Log.Warn("failed to cache predictions", "err", err)
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"query_id":    uuid.NewString(),
			"word":        req.Word,
			"predictions": preds,
			"cached":      false,
		})
	}
}
