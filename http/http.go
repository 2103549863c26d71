package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/constants"
	"github.com/awantoch/traccarproxy/proxy"
	"github.com/awantoch/traccarproxy/secrets"
	"github.com/awantoch/traccarproxy/telemetry"
	"github.com/awantoch/traccarproxy/utils"
)

// HeaderRequestID is honored as the invocation's request ID when present.
const HeaderRequestID = "X-Request-Id"

const shutdownTimeout = 10 * time.Second

// NewMux wires the local server routes: positions, health and Prometheus metrics.
func NewMux(h *proxy.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(constants.RoutePositions, withCORS(telemetry.WrapHandler("positions", PositionsHandler(h))))
	mux.HandleFunc(constants.RouteHealthz, healthHandler)
	mux.Handle(constants.RouteMetrics, telemetry.MetricsHandler())
	return mux
}

// PositionsHandler adapts one proxy invocation to net/http.
func PositionsHandler(h *proxy.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(HeaderRequestID); id != "" {
			ctx = utils.WithRequestID(ctx, id)
		}
		ctx, id := utils.EnsureRequestID(ctx)
		w.Header().Set(HeaderRequestID, id)

		resp := h.Handle(ctx)
		utils.WriteHTTPJSON(w, resp.StatusCode, resp.Body)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteHTTPJSON(w, http.StatusOK, constants.ResponseHealthy)
}

// withCORS allows browser dashboards on other origins to call the proxy.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", constants.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", constants.CORSAllowMethods)
		w.Header().Set("Access-Control-Allow-Headers", constants.CORSAllowHeaders)
		if r.Method == constants.HTTPMethodOPTIONS {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewHandler builds the proxy handler and secrets provider described by cfg.
// The caller closes the returned provider.
func NewHandler(ctx context.Context, cfg *config.Config) (*proxy.Handler, secrets.SecretsProvider, error) {
	provider, err := secrets.NewSecretsProvider(ctx, &cfg.Secrets)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize secrets: %w", err)
	}
	h, err := proxy.New(cfg, provider)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}
	return h, provider, nil
}

// StartServer serves the proxy on addr until ctx is canceled, then shuts
// down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, addr string) error {
	h, provider, err := NewHandler(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("traccarproxy listening on %s (upstream %s)", addr, cfg.Traccar.URL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		utils.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
