package export

import (
	"bytes"
	"mime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

func sampleReport(notes string) *model.ReportDocument {
	return &model.ReportDocument{
		Event: &model.Event{
			EventName: "Community Blood Drive - January 2026",
			EventDate: time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC),
			Location:  "City Park",
			Status:    model.EventCompleted,
		},
		Report: &model.EventReport{
			TotalDonors:         12,
			BloodUnitsCollected: 9,
			OrganizerNotes:      notes,
			GeneratedDate:       time.Date(2026, 1, 25, 10, 30, 0, 0, time.UTC),
		},
	}
}

func TestWriteReportCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, sampleReport("Great turnout, thanks volunteers")))

	g := goldie.New(t)
	g.Assert(t, "report", buf.Bytes())
}

func TestWriteReportCSV_NoNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, sampleReport("")))

	assert.NotContains(t, buf.String(), "Organizer Notes:")
	assert.True(t, strings.HasSuffix(buf.String(), "Report Generated:,2026-01-25T10:30:00Z\n\n"))
}

func TestReportFilename(t *testing.T) {
	doc := sampleReport("")
	assert.Equal(t, "bloodlink_report_Community_Blood_Drive_-_January_2026_2026-01-25.csv", ReportFilename(doc, "csv"))
	assert.Equal(t, "bloodlink_report_Community_Blood_Drive_-_January_2026_2026-01-25.xlsx", ReportFilename(doc, "xlsx"))

	doc.Event.EventName = "The \"Big\" Drive\r\n/ 2026"
	assert.Equal(t, "bloodlink_report_The_Big_Drive_2026_2026-01-25.csv", ReportFilename(doc, "csv"))
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename=bloodlink_report_Drive_2026-01-25.csv",
		ContentDisposition("bloodlink_report_Drive_2026-01-25.csv"))
	assert.Equal(t, `attachment; filename="a b.csv"`, ContentDisposition("a b.csv"))

	header := ContentDisposition("bloodlink_report_Blutspende_München_2026-01-25.csv")
	_, params, err := mime.ParseMediaType(header)
	require.NoError(t, err)
	assert.Equal(t, "bloodlink_report_Blutspende_München_2026-01-25.csv", params["filename"])
	assert.NotContains(t, header, "ü")
}

func TestWriteReportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportXLSX(&buf, sampleReport("Great turnout")))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())

	v, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "BloodLink Event Report", v)

	v, err = f.GetCellValue(reportSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Community Blood Drive - January 2026", v)

	v, err = f.GetCellValue(reportSheet, "B10")
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	v, err = f.GetCellValue(reportSheet, "A15")
	require.NoError(t, err)
	assert.Equal(t, "Great turnout", v)
}

func TestDonorCalendar(t *testing.T) {
	regs := []*model.RegistrationDetail{
		{
			Registration:  model.Registration{ID: uuid.New(), Status: model.RegistrationConfirmed},
			EventName:     "Spring Drive",
			EventDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EventTime:     "09:00",
			EventLocation: "Gym",
			EventStatus:   string(model.EventUpcoming),
		},
		{
			Registration:  model.Registration{ID: uuid.New(), Status: model.RegistrationPending},
			EventName:     "Summer Drive",
			EventDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			EventLocation: "Park",
			EventStatus:   string(model.EventCancelled),
		},
	}

	out := DonorCalendar(regs, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Spring Drive")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260302")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20260303")
	assert.Contains(t, out, "STATUS:CANCELLED")
	assert.Contains(t, out, "LOCATION:Gym")
}
