package ticket

import (
	"bytes"
	"testing"
)

func TestRenderTicket(t *testing.T) {
	issuer := NewIssuer()

	pdf, err := issuer.Render(Details{
		TicketNumber:  "TKT-A1B2C3D4E",
		EventTitle:    "Go Workshop",
		EventDate:     "2026-10-01",
		EventTime:     "18:00",
		EventLocation: "Casablanca",
		EventPrice:    150,
		AttendeeName:  "Sara Amrani",
		AttendeeEmail: "sara@example.com",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("rendered PDF is empty")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
}

func TestRenderTicketMinimalDetails(t *testing.T) {
	issuer := NewIssuer()

	// Rendering must not fail when only the ticket number is set.
	pdf, err := issuer.Render(Details{TicketNumber: "TKT-000000000"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
}
