package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/awantoch/traccarproxy/constants"
	"github.com/awantoch/traccarproxy/secrets"
)

// Upstream is a fake Traccar positions endpoint that replies with a fixed
// status and body and records the headers of every request it receives.
type Upstream struct {
	*httptest.Server

	mu      sync.Mutex
	headers []http.Header
	methods []string
}

// NewUpstream starts a fake upstream that is closed when the test ends.
func NewUpstream(t *testing.T, status int, body string) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.headers = append(u.headers, r.Header.Clone())
		u.methods = append(u.methods, r.Method)
		u.mu.Unlock()
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(u.Close)
	return u
}

// Calls reports how many requests the upstream has served.
func (u *Upstream) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.headers)
}

// LastHeader returns the headers of the most recent request, or nil.
func (u *Upstream) LastHeader() http.Header {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.headers) == 0 {
		return nil
	}
	return u.headers[len(u.headers)-1]
}

// LastMethod returns the method of the most recent request.
func (u *Upstream) LastMethod() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.methods) == 0 {
		return ""
	}
	return u.methods[len(u.methods)-1]
}

// ClosedURL returns the URL of a server that has already shut down, so
// requests to it fail at the transport level.
func ClosedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// Credentials returns a provider serving the given Traccar user and password.
func Credentials(user, pass string) *secrets.StaticSecretsProvider {
	return secrets.NewStaticSecretsProvider(map[string]string{
		constants.EnvTraccarUser: user,
		constants.EnvTraccarPass: pass,
	})
}
