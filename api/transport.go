package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/crucial-sub/stockchat"
)

// Interface compliance check.
var _ stockchat.Transport = (*Transport)(nil)

// Transport opens streaming requests against the chat backend.
type Transport struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	clientType string
}

// Option configures a [Transport].
type Option func(*Transport)

// WithHTTPClient sets a custom HTTP client. The default client carries no
// overall timeout: the response body outlives the connection phase, and the
// session controller owns the request deadline through its context.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *Transport) { t.httpClient = hc }
}

// WithTokenSource sets the auth collaborator supplying bearer credentials.
func WithTokenSource(ts TokenSource) Option {
	return func(t *Transport) { t.tokens = ts }
}

// WithClientType sets the client-type discriminator sent with each request.
func WithClientType(ct string) Option {
	return func(t *Transport) { t.clientType = ct }
}

// New creates a Transport for the backend at baseURL.
func New(baseURL string, opts ...Option) *Transport {
	t := &Transport{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		clientType: defaultClientType,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Open posts the message and returns the event-stream response body.
//
// The same session_id and message pair is resent on every reconnect of a
// logical turn; the backend is expected to deduplicate resubmissions by that
// pair (an external contract this client cannot enforce).
func (t *Transport) Open(ctx context.Context, req stockchat.Request) (io.ReadCloser, error) {
	body, err := json.Marshal(chatRequest{
		SessionID:  req.SessionID,
		Message:    req.Message,
		ClientType: t.clientType,
	})
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	if t.tokens != nil {
		token, err := t.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("api: fetch token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return resp.Body, nil
}

// parseHTTPError turns a non-200 response into a ProtocolError. Overload and
// server-side failures are transient; everything else indicates a request
// the backend will keep rejecting.
func parseHTTPError(resp *http.Response) error {
	retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &stockchat.ProtocolError{
			Message:   fmt.Sprintf("HTTP %d (failed to read body: %v)", resp.StatusCode, err),
			Retryable: retry,
		}
	}

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return &stockchat.ProtocolError{
			Message:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
			Retryable: retry,
		}
	}
	return &stockchat.ProtocolError{
		Message:   apiErr.Message,
		Code:      apiErr.Code,
		Retryable: retry,
	}
}
