package http

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/constants"
	"github.com/awantoch/traccarproxy/proxy"
	"github.com/awantoch/traccarproxy/telemetry"
	"github.com/awantoch/traccarproxy/utils"
)

var (
	initServerless sync.Once
	initErr        error
	serverlessMux  *http.ServeMux
	muxMutex       sync.RWMutex
)

// ServerlessHandler is the net/http function entrypoint (Vercel and similar).
// Configuration comes from the file named by TRACCARPROXY_CONFIG, if any, and
// the environment.
func ServerlessHandler(w http.ResponseWriter, r *http.Request) {
	initServerless.Do(func() {
		cfg, err := config.LoadOrDefault(os.Getenv(constants.EnvConfigPath))
		if err != nil {
			initErr = err
			return
		}
		utils.SetLevel(cfg.Log.Level)
		h, _, err := NewHandler(context.Background(), cfg)
		if err != nil {
			initErr = err
			return
		}
		muxMutex.Lock()
		serverlessMux = createServerlessMux(h)
		muxMutex.Unlock()
	})

	if initErr != nil {
		utils.Error("serverless init failed: %v", initErr)
		utils.WriteHTTPJSON(w, http.StatusInternalServerError, utils.ErrorJSON(initErr.Error()))
		return
	}

	muxMutex.RLock()
	mux := serverlessMux
	muxMutex.RUnlock()

	if mux == nil {
		utils.WriteHTTPJSON(w, http.StatusInternalServerError, utils.ErrorJSON(constants.ResponseInternalError))
		return
	}

	mux.ServeHTTP(w, r)
}

// createServerlessMux routes health checks and sends every other path to
// the positions proxy, since the function URL is chosen by the platform.
func createServerlessMux(h *proxy.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(constants.RouteHealthz, healthHandler)
	mux.Handle("/", withCORS(telemetry.WrapHandler("positions", PositionsHandler(h))))
	return mux
}

// ResetServerlessMux resets the serverless mux (for testing)
func ResetServerlessMux() {
	muxMutex.Lock()
	defer muxMutex.Unlock()

	initServerless = sync.Once{}
	initErr = nil
	serverlessMux = nil
}
