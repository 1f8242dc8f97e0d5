package stockchat

import "strings"

// session is the mutable state of one logical conversational turn, spanning
// possibly several transport connections due to reconnection. It is owned
// exclusively by the [Client]; the parser and decoder never touch it, and a
// superseded session is fenced off by the client's generation counter.
type session struct {
	// message is the logical outbound text, resubmitted on every reconnect.
	message string

	// content accumulates chunk text in arrival order.
	content strings.Builder

	// attempt counts reconnects of this turn. Reset to zero when a
	// stream_start arrives: a session that reconnects and then streams is
	// healthy again.
	attempt int
}
