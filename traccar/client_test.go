package traccar

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"unicode/utf8"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/secrets"
	"github.com/awantoch/traccarproxy/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsBasicAuth(t *testing.T) {
	tests := []struct {
		user, pass string
	}{
		{"admin", "admin"},
		{"fleet@example.com", "p:ss wörd"},
		{"", ""},
		{"user", ""},
	}
	for _, tt := range tests {
		got := Credentials{User: tt.user, Pass: tt.pass}.BasicAuth()
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte(tt.user+":"+tt.pass))
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "Basic Og==", Credentials{}.BasicAuth())
	assert.Equal(t, "Basic YWRtaW46YWRtaW4=", Credentials{User: "admin", Pass: "admin"}.BasicAuth())
}

func TestLoadCredentials(t *testing.T) {
	ctx := context.Background()

	creds, err := LoadCredentials(ctx, testutil.Credentials("alice", "secret"))
	require.NoError(t, err)
	assert.Equal(t, Credentials{User: "alice", Pass: "secret"}, creds)

	creds, err = LoadCredentials(ctx, secrets.NewStaticSecretsProvider(nil))
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = LoadCredentials(cctx, testutil.Credentials("a", "b"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchPositions_Success(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusOK, "{\n  \"positions\": [ ]\n}\n")
	c := NewClient(up.URL)

	body, err := c.FetchPositions(context.Background(), Credentials{User: "u", Pass: "p"})
	require.NoError(t, err)
	assert.Equal(t, `{"positions":[]}`, string(body))

	h := up.LastHeader()
	require.NotNil(t, h)
	assert.Equal(t, "GET", up.LastMethod())
	assert.Equal(t, Credentials{User: "u", Pass: "p"}.BasicAuth(), h.Get("Authorization"))
	assert.Equal(t, "application/json", h.Get("Accept"))
}

func TestFetchPositions_PreservesKeyOrder(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusOK, `[{"id":2,"deviceId":7,"latitude":52.1,"attributes":{"z":1,"a":2}}]`)

	body, err := NewClient(up.URL).FetchPositions(context.Background(), Credentials{})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2,"deviceId":7,"latitude":52.1,"attributes":{"z":1,"a":2}}]`, string(body))
}

func TestFetchPositions_StatusError(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusServiceUnavailable} {
		up := testutil.NewUpstream(t, code, `{"details":"upstream detail"}`)

		body, err := NewClient(up.URL).FetchPositions(context.Background(), Credentials{})
		assert.Nil(t, body)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, code, statusErr.StatusCode)
		assert.NotContains(t, err.Error(), "upstream detail")
	}
}

func TestFetchPositions_DecodeError(t *testing.T) {
	for _, payload := range []string{"<html>oops</html>", "", `{"positions":`} {
		up := testutil.NewUpstream(t, http.StatusOK, payload)

		_, err := NewClient(up.URL).FetchPositions(context.Background(), Credentials{})
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr, "payload %q", payload)
		assert.NotEmpty(t, err.Error())
	}
}

func TestFetchPositions_InvalidUTF8(t *testing.T) {
	up := testutil.NewUpstream(t, http.StatusOK, "{\"name\": \"a\xffb\"}")

	body, err := NewClient(up.URL).FetchPositions(context.Background(), Credentials{})
	require.NoError(t, err)
	assert.True(t, utf8.Valid(body))
	assert.Equal(t, "{\"name\":\"a\uFFFDb\"}", string(body))
}

func TestFetchPositions_TransportError(t *testing.T) {
	_, err := NewClient(testutil.ClosedURL(t)).FetchPositions(context.Background(), Credentials{})
	require.Error(t, err)

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr), "expected *url.Error, got %T", err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestFetchPositions_BadURL(t *testing.T) {
	_, err := NewClient("://not a url").FetchPositions(context.Background(), Credentials{})
	assert.Error(t, err)
}

func TestNewClientFromConfig(t *testing.T) {
	c, err := NewClientFromConfig(config.TraccarConfig{URL: "http://traccar.test/api/positions", Timeout: "3s"})
	require.NoError(t, err)
	assert.Equal(t, "http://traccar.test/api/positions", c.URL())
	assert.Equal(t, "3s", c.httpClient.Timeout.String())

	c, err = NewClientFromConfig(config.TraccarConfig{URL: "http://traccar.test"})
	require.NoError(t, err)
	assert.Zero(t, c.httpClient.Timeout)

	_, err = NewClientFromConfig(config.TraccarConfig{URL: "http://traccar.test", Timeout: "later"})
	assert.Error(t, err)
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("http://x", WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
}
