package stockchat

import (
	"bytes"
	"strings"
)

// frameDelimiter separates frames in the wire protocol: a blank line.
const frameDelimiter = "\n\n"

// dataPrefix marks payload lines within a frame. Other lines (comments,
// unknown fields) are ignored.
const dataPrefix = "data: "

// Frame is one delimiter-bounded unit extracted from the byte stream.
// It holds the raw payload text; decoding happens in [DecodeEvent].
type Frame struct {
	Data string
}

// FrameParser turns an arbitrarily-chunked byte stream into complete frames.
// It keeps unconsumed trailing bytes across Feed calls, so a frame split
// across chunk boundaries is emitted exactly once, when its delimiter
// arrives. Because frames are cut only at ASCII delimiters, multi-byte UTF-8
// sequences split across chunks pass through intact.
//
// A FrameParser is owned by a single session and is not safe for concurrent
// use. Call Reset before reusing it for an independent stream.
type FrameParser struct {
	buf []byte
}

// Feed appends chunk to the internal buffer and returns all frames completed
// by it, in order. Returns nil when no full delimiter has been observed yet.
func (p *FrameParser) Feed(chunk []byte) []Frame {
	p.buf = append(p.buf, chunk...)

	var frames []Frame
	for {
		idx := bytes.Index(p.buf, []byte(frameDelimiter))
		if idx < 0 {
			return frames
		}
		raw := string(p.buf[:idx])
		p.buf = p.buf[idx+len(frameDelimiter):]

		if data, ok := extractData(raw); ok {
			frames = append(frames, Frame{Data: data})
		}
		// Frames without payload lines (keep-alives, comments) are skipped.
	}
}

// Reset discards any buffered partial frame.
func (p *FrameParser) Reset() {
	p.buf = nil
}

// extractData joins the payload lines of a raw frame. Reports false when the
// frame carries no payload line at all.
func extractData(raw string) (string, bool) {
	var dataBuf strings.Builder
	found := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		if found {
			dataBuf.WriteByte('\n')
		}
		dataBuf.WriteString(strings.TrimPrefix(line, dataPrefix))
		found = true
	}
	return dataBuf.String(), found
}
