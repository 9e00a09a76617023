package organizer

import (
	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-api/internal/handler"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

func (h *Handler) ListEvents(c *gin.Context) {
	orgID, _, err := scope(c, "", "")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	events, err := h.events.ListEvents(c.Request.Context(), orgID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, events)
}

func (h *Handler) GetEvent(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), orgID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, event)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	orgID, _, err := scope(c, "", "")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.SaveEventRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), orgID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreatedMessage(c, "Event created successfully", event)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.SaveEventRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	event, err := h.events.UpdateEvent(c.Request.Context(), orgID, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Event updated successfully", event)
}

func (h *Handler) SetEventStatus(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateEventStatusRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	event, err := h.events.SetStatus(c.Request.Context(), orgID, id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Event status updated to "+string(event.Status), event)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.events.DeleteEvent(c.Request.Context(), orgID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Event deleted successfully", nil)
}

func (h *Handler) Registrations(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	regs, err := h.events.Registrations(c.Request.Context(), orgID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, regs)
}

func (h *Handler) UpdateRegistrationStatus(c *gin.Context) {
	orgID, id, err := scope(c, "id", "registration")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateRegistrationStatusRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	reg, err := h.events.UpdateRegistrationStatus(c.Request.Context(), orgID, id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Registration status updated to "+string(reg.Status), reg)
}

func (h *Handler) Attendance(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	list, err := h.events.Attendance(c.Request.Context(), orgID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

// MarkAttendance checks a donor in. Repeating it for the same donor is a
// no-op.
func (h *Handler) MarkAttendance(c *gin.Context) {
	orgID, id, err := scope(c, "id", "event")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.MarkAttendanceRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	att, err := h.events.MarkAttendance(c.Request.Context(), orgID, id, req.DonorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Attendance marked successfully", att)
}
