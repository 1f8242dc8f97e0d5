// Package mock provides test doubles for stockchat interfaces using
// function fields.
package mock

import (
	"context"
	"io"
	"strings"

	"github.com/crucial-sub/stockchat"
)

// Interface compliance check.
var _ stockchat.Transport = (*Transport)(nil)

// Transport is a test double for stockchat.Transport.
// Set OpenFn before calling Open.
type Transport struct {
	OpenFn func(ctx context.Context, req stockchat.Request) (io.ReadCloser, error)
}

// Open delegates to OpenFn.
func (t *Transport) Open(ctx context.Context, req stockchat.Request) (io.ReadCloser, error) {
	return t.OpenFn(ctx, req)
}

// Body builds an event-stream body from frame payloads, one data line per
// frame, blank-line delimited.
func Body(payloads ...string) io.ReadCloser {
	var sb strings.Builder
	for _, p := range payloads {
		sb.WriteString("data: ")
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}
	return io.NopCloser(strings.NewReader(sb.String()))
}
