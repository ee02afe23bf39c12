package reservation

import (
	"crypto/rand"
	"fmt"
)

const ticketAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewTicketNumber returns a ticket number of the form TKT-XXXXXXXXX,
// nine random base36 characters. Uniqueness is enforced by the
// database index, callers retry on collision.
func NewTicketNumber() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating ticket number: %w", err)
	}
	for i, b := range buf {
		buf[i] = ticketAlphabet[int(b)%len(ticketAlphabet)]
	}
	return "TKT-" + string(buf), nil
}
