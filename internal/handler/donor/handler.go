package donor

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/export"
	"github.com/bloodlink/bloodlink-api/internal/handler"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

type Service interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*model.DonorDashboard, error)
	Appointments(ctx context.Context, userID uuid.UUID) ([]*model.EventAvailability, error)
	Register(ctx context.Context, userID, eventID uuid.UUID) (*model.Registration, error)
	RegisteredEvents(ctx context.Context, userID uuid.UUID) ([]*model.RegistrationDetail, error)
	CheckEligibility(ctx context.Context, userID uuid.UUID) (*model.EligibilityResult, error)
	MedicalHistory(ctx context.Context, userID uuid.UUID) (string, error)
	SaveMedicalHistory(ctx context.Context, userID uuid.UUID, history string) error
}

type Handler struct {
	svc Service
	now func() time.Time
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	donor := r.Group("/donor")
	{
		donor.GET("/dashboard", h.Dashboard)
		donor.GET("/appointments", h.Appointments)
		donor.POST("/appointments", h.Register)
		donor.GET("/appointments/calendar.ics", h.Calendar)
		donor.GET("/eligibility", h.Eligibility)
		donor.GET("/medical", h.GetMedicalHistory)
		donor.PUT("/medical", h.SaveMedicalHistory)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	dash, err := h.svc.Dashboard(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}

// Appointments lists every event with the caller's registration flags.
func (h *Handler) Appointments(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	items, err := h.svc.Appointments(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) Register(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.RegisterForEventRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	reg, err := h.svc.Register(c.Request.Context(), principal.UserID, req.EventID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreatedMessage(c, "Successfully registered for the event", reg)
}

func (h *Handler) Calendar(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	regs, err := h.svc.RegisteredEvents(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", export.ContentDisposition("bloodlink_appointments.ics"))
	c.Data(http.StatusOK, export.ContentTypeICS+"; charset=utf-8", []byte(export.DonorCalendar(regs, h.now())))
}

func (h *Handler) Eligibility(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.svc.CheckEligibility(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) GetMedicalHistory(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	history, err := h.svc.MedicalHistory(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, model.MedicalHistoryRequest{MedicalHistory: history})
}

func (h *Handler) SaveMedicalHistory(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.MedicalHistoryRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.SaveMedicalHistory(c.Request.Context(), principal.UserID, req.MedicalHistory); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Medical history updated successfully", nil)
}
