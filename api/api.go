// Package api implements [stockchat.Transport] for the Stock-Lab chat
// backend. It posts the outbound message and conversation ID to the streaming
// endpoint and hands the text/event-stream response body back to the client
// for framing and decoding.
package api

import "context"

const (
	streamPath        = "/chat/stream"
	defaultClientType = "web"
)

// TokenSource supplies the bearer credential for outgoing requests. Token
// storage and refresh live with the caller; this package only attaches the
// header. A nil TokenSource sends unauthenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed credential.
type StaticToken string

// Token returns the fixed credential.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// chatRequest is the JSON body sent to the streaming endpoint.
type chatRequest struct {
	SessionID  string `json:"session_id"`
	Message    string `json:"message"`
	ClientType string `json:"client_type"`
}

// errorResponse is the JSON body returned on non-200 responses.
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
