package organizer

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/handler"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

type EventService interface {
	Dashboard(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerDashboard, error)
	ListEvents(ctx context.Context, organizerID uuid.UUID) ([]*model.EventWithCounts, error)
	GetEvent(ctx context.Context, organizerID, id uuid.UUID) (*model.Event, error)
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req *model.SaveEventRequest) (*model.Event, error)
	UpdateEvent(ctx context.Context, organizerID, id uuid.UUID, req *model.SaveEventRequest) (*model.Event, error)
	SetStatus(ctx context.Context, organizerID, id uuid.UUID, status model.EventStatus) (*model.Event, error)
	DeleteEvent(ctx context.Context, organizerID, id uuid.UUID) error
	Registrations(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventRegistrations, error)
	UpdateRegistrationStatus(ctx context.Context, organizerID, regID uuid.UUID, status model.RegistrationStatus) (*model.Registration, error)
	MarkAttendance(ctx context.Context, organizerID, eventID, donorID uuid.UUID) (*model.Attendance, error)
	Attendance(ctx context.Context, organizerID, eventID uuid.UUID) ([]*model.Attendance, error)
}

type ReportService interface {
	Generate(ctx context.Context, organizerID uuid.UUID, req *model.GenerateReportRequest) (*model.ReportDocument, error)
	List(ctx context.Context, organizerID uuid.UUID) ([]*model.EventReport, error)
	Get(ctx context.Context, organizerID, id uuid.UUID) (*model.ReportDocument, error)
	Delete(ctx context.Context, organizerID, id uuid.UUID) error
}

type Handler struct {
	events  EventService
	reports ReportService
}

func NewHandler(events EventService, reports ReportService) *Handler {
	return &Handler{events: events, reports: reports}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	org := r.Group("/organizer")
	{
		org.GET("/dashboard", h.Dashboard)

		org.GET("/events", h.ListEvents)
		org.POST("/events", h.CreateEvent)
		org.GET("/events/:id", h.GetEvent)
		org.PUT("/events/:id", h.UpdateEvent)
		org.DELETE("/events/:id", h.DeleteEvent)
		org.PUT("/events/:id/status", h.SetEventStatus)
		org.GET("/events/:id/registrations", h.Registrations)
		org.GET("/events/:id/attendance", h.Attendance)
		org.POST("/events/:id/attendance", h.MarkAttendance)

		org.PUT("/registrations/:id/status", h.UpdateRegistrationStatus)

		org.GET("/reports", h.ListReports)
		org.POST("/reports", h.GenerateReport)
		org.GET("/reports/:id", h.GetReport)
		org.DELETE("/reports/:id", h.DeleteReport)
		org.GET("/reports/:id/download", h.DownloadCSV)
		org.GET("/reports/:id/download.xlsx", h.DownloadXLSX)
	}
}

// scope resolves the calling organizer and, when param is set, a path id.
func scope(c *gin.Context, param, resource string) (orgID, id uuid.UUID, err error) {
	orgID, err = handler.ProfileID(c)
	if err != nil || param == "" {
		return orgID, uuid.Nil, err
	}
	id, err = handler.ParseID(c, param, resource)
	return orgID, id, err
}

func (h *Handler) Dashboard(c *gin.Context) {
	orgID, _, err := scope(c, "", "")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	dash, err := h.events.Dashboard(c.Request.Context(), orgID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}
