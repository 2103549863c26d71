package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/awantoch/traccarproxy/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServerless(t *testing.T, upstreamURL string) {
	t.Helper()
	t.Setenv("TRACCAR_URL", upstreamURL)
	t.Setenv("TRACCAR_USER", "demo")
	t.Setenv("TRACCAR_PASS", "demo")
	t.Setenv("TRACCARPROXY_CONFIG", "")
	ResetServerlessMux()
	t.Cleanup(ResetServerlessMux)
}

func TestServerlessHandlerProxiesAnyPath(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusOK, `[{"id":1,"deviceId":3}]`)
	setupServerless(t, up.URL)

	for _, path := range []string{"/", "/api/index", "/api/get-positions"} {
		w := httptest.NewRecorder()
		ServerlessHandler(w, httptest.NewRequest("GET", path, nil))

		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
		assert.Equal(t, `[{"id":1,"deviceId":3}]`, w.Body.String())
	}
	assert.Equal(t, 3, up.Calls())
	assert.Equal(t, "Basic ZGVtbzpkZW1v", up.LastHeader().Get("Authorization"))
}

func TestServerlessHandlerUpstreamError(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusUnauthorized, ``)
	setupServerless(t, up.URL)

	w := httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `{"error":"Traccar responded 401"}`, w.Body.String())
}

func TestServerlessHandlerHealthz(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusOK, `[]`)
	setupServerless(t, up.URL)

	w := httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Zero(t, up.Calls())
}

func TestServerlessHandlerOptions(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusOK, `[]`)
	setupServerless(t, up.URL)

	w := httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("OPTIONS", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, up.Calls())
}

func TestServerlessHandlerInitError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"traccar":`), 0644))
	setupServerless(t, "http://unused.test")
	t.Setenv("TRACCARPROXY_CONFIG", path)

	w := httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestResetServerlessMux(t *testing.T) {
	first := testutil.NewUpstream(t, http.StatusOK, `{"n":1}`)
	setupServerless(t, first.URL)
	w := httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, `{"n":1}`, w.Body.String())

	second := testutil.NewUpstream(t, http.StatusOK, `{"n":2}`)
	t.Setenv("TRACCAR_URL", second.URL)

	// Still initialized against the first upstream.
	w = httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, `{"n":1}`, w.Body.String())

	ResetServerlessMux()
	w = httptest.NewRecorder()
	ServerlessHandler(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, `{"n":2}`, w.Body.String())
}
