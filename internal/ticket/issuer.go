package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Details carries everything printed on a ticket.
type Details struct {
	ReservationID uint
	TicketNumber  string
	EventTitle    string
	EventDate     string
	EventTime     string
	EventLocation string
	EventPrice    float64
	AttendeeName  string
	AttendeeEmail string
}

// qrPayload is what entrance scanners read back.
type qrPayload struct {
	ReservationID uint   `json:"reservation_id"`
	TicketNumber  string `json:"ticket_number"`
	EventTitle    string `json:"event_title"`
	HolderName    string `json:"holder_name"`
}

// Issuer renders reservation tickets as PDF.
type Issuer struct{}

func NewIssuer() *Issuer {
	return &Issuer{}
}

// Render produces an A5 ticket with the reservation details and a QR
// code encoding the reservation payload. Rendering is pure, the same
// input always yields the same ticket.
func (i *Issuer) Render(d Details) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Event Ticket")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, d.EventTitle)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	rows := [][2]string{
		{"Ticket Number", d.TicketNumber},
		{"Attendee", d.AttendeeName},
		{"Email", d.AttendeeEmail},
		{"Date", d.EventDate},
		{"Time", d.EventTime},
		{"Location", d.EventLocation},
		{"Price", fmt.Sprintf("%.2f MAD", d.EventPrice)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	payload, err := json.Marshal(qrPayload{
		ReservationID: d.ReservationID,
		TicketNumber:  d.TicketNumber,
		EventTitle:    d.EventTitle,
		HolderName:    d.AttendeeName,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding QR payload: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("ticket-qr", 49, pdf.GetY(), 50, 50, false, opts, 0, "")
	pdf.Ln(56)

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "Present this ticket and the QR code at the entrance.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering ticket PDF: %w", err)
	}
	return buf.Bytes(), nil
}
