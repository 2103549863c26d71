// Package proxy implements the position proxy invocation: resolve
// credentials, fetch positions from Traccar, and turn the outcome into a
// status code and JSON body.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/secrets"
	"github.com/awantoch/traccarproxy/telemetry"
	"github.com/awantoch/traccarproxy/traccar"
	"github.com/awantoch/traccarproxy/utils"
)

// Response is the platform-neutral result of one invocation. Body is always
// valid JSON.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Fetcher is the upstream call; *traccar.Client satisfies it.
type Fetcher interface {
	FetchPositions(ctx context.Context, creds traccar.Credentials) (json.RawMessage, error)
}

var _ Fetcher = (*traccar.Client)(nil)

// Handler serves position requests. It holds no per-invocation state and is
// safe for concurrent use.
type Handler struct {
	secrets secrets.SecretsProvider
	fetcher Fetcher
}

type Option func(*Handler)

// WithFetcher overrides the upstream client built from config.
func WithFetcher(f Fetcher) Option {
	return func(h *Handler) {
		h.fetcher = f
	}
}

// New builds a Handler for cfg, reading credentials from provider on every
// invocation.
func New(cfg *config.Config, provider secrets.SecretsProvider, opts ...Option) (*Handler, error) {
	if provider == nil {
		return nil, fmt.Errorf("proxy: secrets provider is required")
	}
	h := &Handler{secrets: provider}
	for _, opt := range opts {
		opt(h)
	}
	if h.fetcher == nil {
		if cfg == nil {
			return nil, fmt.Errorf("proxy: config is required")
		}
		client, err := traccar.NewClientFromConfig(cfg.Traccar)
		if err != nil {
			return nil, err
		}
		h.fetcher = client
	}
	return h, nil
}

// Handle runs one invocation. It never panics and always returns a status
// code with a JSON body.
func (h *Handler) Handle(ctx context.Context) (resp Response) {
	ctx, _ = utils.EnsureRequestID(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			utils.ErrorCtx(ctx, "positions handler panicked", "panic", r)
			telemetry.ObserveUpstream(telemetry.OutcomeFailure)
			resp = errorResponse(http.StatusInternalServerError, fmt.Sprint(r))
		}
		utils.InfoCtx(ctx, "positions request", "status", resp.StatusCode, "duration", time.Since(start))
	}()

	body, err := h.fetch(ctx)
	if err != nil {
		return h.mapError(ctx, err)
	}
	telemetry.ObserveUpstream(telemetry.OutcomeSuccess)
	utils.DebugCtx(ctx, "positions fetched", "bytes", len(body))
	return Response{StatusCode: http.StatusOK, Body: string(body)}
}

func (h *Handler) fetch(ctx context.Context) (json.RawMessage, error) {
	creds, err := traccar.LoadCredentials(ctx, h.secrets)
	if err != nil {
		return nil, err
	}
	return h.fetcher.FetchPositions(ctx, creds)
}

func (h *Handler) mapError(ctx context.Context, err error) Response {
	var statusErr *traccar.StatusError
	if errors.As(err, &statusErr) {
		utils.WarnCtx(ctx, "traccar returned an error status", "status", statusErr.StatusCode)
		telemetry.ObserveUpstream(telemetry.OutcomeUpstreamError)
		return errorResponse(statusErr.StatusCode, statusErr.Error())
	}
	utils.ErrorCtx(ctx, "positions request failed", "error", err)
	telemetry.ObserveUpstream(telemetry.OutcomeFailure)
	return errorResponse(http.StatusInternalServerError, err.Error())
}

func errorResponse(code int, msg string) Response {
	return Response{StatusCode: code, Body: utils.ErrorJSON(msg)}
}
