// Package export renders event reports and registrations as downloadable
// files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeICS  = "text/calendar"
)

// ReportFilename names a report download, for example
// bloodlink_report_Spring_Drive_2026-03-02.csv.
func ReportFilename(doc *model.ReportDocument, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r), r == '"', r == '\\', r == '/':
			return -1
		case unicode.IsSpace(r):
			return '_'
		}
		return r
	}, doc.Event.EventName)
	return fmt.Sprintf("bloodlink_report_%s_%s.%s", name, doc.Report.GeneratedDate.Format(model.DateLayout), ext)
}

// ContentDisposition is the attachment header value for filename. Names
// outside ASCII are sent in the RFC 2231 form.
func ContentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// reportRows is the report laid out as rows of cells. The CSV and XLSX
// writers share it.
func reportRows(doc *model.ReportDocument) [][]string {
	e, r := doc.Event, doc.Report
	rows := [][]string{
		{"BloodLink Event Report"},
		{},
		{"Event Details"},
		{"Event Name:", e.EventName},
		{"Date:", e.EventDate.Format(model.DateLayout)},
		{"Location:", e.Location},
		{"Status:", string(e.Status)},
		{},
		{"Report Statistics"},
		{"Total Donors:", strconv.Itoa(r.TotalDonors)},
		{"Blood Units Collected:", strconv.Itoa(r.BloodUnitsCollected)},
		{"Report Generated:", r.GeneratedDate.UTC().Format(time.RFC3339)},
		{},
	}
	if r.OrganizerNotes != "" {
		rows = append(rows, []string{"Organizer Notes:"}, []string{r.OrganizerNotes})
	}
	return rows
}

// WriteReportCSV writes the report in the CSV download format.
func WriteReportCSV(w io.Writer, doc *model.ReportDocument) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(reportRows(doc)); err != nil {
		return fmt.Errorf("failed to write report csv: %w", err)
	}
	return nil
}
