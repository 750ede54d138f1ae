package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/docvault/internal/client/client"
)

// Notifier prints one-line notifications: the terminal's toasts.
type Notifier struct {
	w io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Success(msg string) {
	fmt.Fprintf(n.w, "✓ %s\n", msg)
}

func (n *Notifier) Info(msg string) {
	fmt.Fprintf(n.w, "· %s\n", msg)
}

// Error prints one line per message carried by err; server error lists are
// shown verbatim.
func (n *Notifier) Error(err error) {
	for _, m := range client.Messages(err) {
		fmt.Fprintf(n.w, "✗ %s\n", m)
	}
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
