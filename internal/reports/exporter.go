package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders the reservations report in the requested format.
type Exporter interface {
	Export(format string, rows []ReservationReportRow) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

func (e *exporter) Export(format string, rows []ReservationReportRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatCSV:
		return e.exportCSV(timestamp, rows)
	case FormatExcel:
		return e.exportExcel(timestamp, rows)
	case FormatPDF:
		return e.exportPDF(timestamp, rows)
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (e *exporter) exportCSV(timestamp string, rows []ReservationReportRow) ([]byte, string, string, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	headers := []string{"ticket_number", "status", "event_title", "event_date", "event_price", "attendee_name", "attendee_email", "created_at"}
	if err := w.Write(headers); err != nil {
		return nil, "", "", err
	}

	for _, r := range rows {
		record := []string{
			r.TicketNumber,
			r.Status,
			r.EventTitle,
			r.EventDate,
			fmt.Sprintf("%.2f", r.EventPrice),
			r.AttendeeName,
			r.AttendeeEmail,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, "", "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), fmt.Sprintf("reservations_%s.csv", timestamp), "text/csv", nil
}

func (e *exporter) exportExcel(timestamp string, rows []ReservationReportRow) ([]byte, string, string, error) {
	f := excelize.NewFile()
	sheet := "Reservations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", "", err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Ticket Number", "Status", "Event", "Date", "Price", "Attendee", "Email", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", "", err
		}
	}

	for rowIdx, r := range rows {
		values := []interface{}{
			r.TicketNumber,
			r.Status,
			r.EventTitle,
			r.EventDate,
			r.EventPrice,
			r.AttendeeName,
			r.AttendeeEmail,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), fmt.Sprintf("reservations_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
}

func (e *exporter) exportPDF(timestamp string, rows []ReservationReportRow) ([]byte, string, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Reservations Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	headers := []string{"Ticket", "Status", "Event", "Date", "Price", "Attendee", "Email", "Created At"}
	widths := []float64{35, 25, 55, 25, 20, 40, 50, 30}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.TicketNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.EventTitle, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.EventDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", r.EventPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.AttendeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[6], 6, r.AttendeeEmail, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[7], 6, r.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), fmt.Sprintf("reservations_%s.pdf", timestamp), "application/pdf", nil
}
