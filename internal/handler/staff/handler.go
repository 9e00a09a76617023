package staff

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/handler"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

type DashboardService interface {
	StaffDashboard(ctx context.Context, userID uuid.UUID) (*model.StaffDashboard, error)
}

type InventoryService interface {
	List(ctx context.Context) ([]*model.Inventory, error)
	Set(ctx context.Context, bloodType string, quantity int, actor *uuid.UUID) (*model.InventoryLog, error)
}

type DonorService interface {
	List(ctx context.Context) ([]*model.Donor, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Donor, error)
	Create(ctx context.Context, req *model.CreateDonorRequest) (*model.Donor, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateDonorRequest) (*model.Donor, error)
	SetEligibility(ctx context.Context, id uuid.UUID, eligible bool, reason string) (*model.Donor, error)
}

type RequestService interface {
	Create(ctx context.Context, actor *model.Principal, in *model.CreateRequestRequest) (*model.CreateRequestResult, error)
	List(ctx context.Context, filter model.RequestFilter) ([]*model.UrgentRequest, error)
	Detail(ctx context.Context, id uuid.UUID) (*model.UrgentRequestDetail, error)
	Fulfill(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*model.UrgentRequest, error)
	Cancel(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*model.UrgentRequest, error)
	Notify(ctx context.Context, id uuid.UUID) (*model.MatchResult, error)
}

type Handler struct {
	dashboard DashboardService
	inventory InventoryService
	donors    DonorService
	requests  RequestService
}

func NewHandler(dashboard DashboardService, inventory InventoryService, donors DonorService, requests RequestService) *Handler {
	return &Handler{
		dashboard: dashboard,
		inventory: inventory,
		donors:    donors,
		requests:  requests,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	staff := r.Group("/staff")
	{
		staff.GET("/dashboard", h.Dashboard)

		staff.GET("/inventory", h.ListInventory)
		staff.POST("/inventory/update", h.UpdateInventory)

		staff.GET("/donors", h.ListDonors)
		staff.POST("/donors", h.CreateDonor)
		staff.POST("/donors/toggle-eligibility", h.ToggleEligibility)
		staff.GET("/donors/:id", h.GetDonor)
		staff.PUT("/donors/:id", h.UpdateDonor)

		staff.GET("/requests", h.ListRequests)
		staff.POST("/requests", h.CreateRequest)
		staff.GET("/requests/:id", h.GetRequest)
		staff.POST("/requests/:id/fulfill", h.FulfillRequest)
		staff.POST("/requests/:id/cancel", h.CancelRequest)
		staff.POST("/requests/:id/notify", h.NotifyDonors)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	dash, err := h.dashboard.StaffDashboard(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}

func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) UpdateInventory(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.InventoryUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	entry, err := h.inventory.Set(c.Request.Context(), req.BloodType, *req.Quantity, &principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, fmt.Sprintf("Updated %s inventory to %d units", entry.BloodType, entry.NewQuantity), entry)
}

func (h *Handler) ListDonors(c *gin.Context) {
	donors, err := h.donors.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, donors)
}

func (h *Handler) CreateDonor(c *gin.Context) {
	var req model.CreateDonorRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	donor, err := h.donors.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, donor)
}

func (h *Handler) GetDonor(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "donor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	donor, err := h.donors.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, donor)
}

func (h *Handler) UpdateDonor(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "donor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateDonorRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	donor, err := h.donors.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Donor updated successfully", donor)
}

func (h *Handler) ToggleEligibility(c *gin.Context) {
	var req model.ToggleEligibilityRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	donor, err := h.donors.SetEligibility(c.Request.Context(), req.DonorID, *req.NewStatus, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	msg := "Donor marked as ineligible"
	if donor.EligibilityStatus {
		msg = "Donor marked as eligible"
	}
	httputil.RespondWithMessage(c, msg, donor)
}

func (h *Handler) ListRequests(c *gin.Context) {
	filter := model.RequestFilter{
		Status:    model.RequestStatus(c.Query("status")),
		BloodType: c.Query("blood_type"),
	}

	items, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

// CreateRequest files an urgent request and notifies matching donors.
func (h *Handler) CreateRequest(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateRequestRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.requests.Create(c.Request.Context(), principal, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	msg := "Urgent request created"
	if result.Match != nil {
		msg = fmt.Sprintf("Urgent request created. %s", result.Match.Message)
	}
	httputil.RespondWithCreatedMessage(c, msg, result)
}

func (h *Handler) GetRequest(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "request")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	detail, err := h.requests.Detail(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, detail)
}

func (h *Handler) FulfillRequest(c *gin.Context) {
	h.transition(c, h.requests.Fulfill, "Request marked as fulfilled")
}

func (h *Handler) CancelRequest(c *gin.Context) {
	h.transition(c, h.requests.Cancel, "Request cancelled")
}

func (h *Handler) transition(c *gin.Context, fn func(context.Context, uuid.UUID, *uuid.UUID) (*model.UrgentRequest, error), msg string) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := handler.ParseID(c, "id", "request")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	updated, err := fn(c.Request.Context(), id, &principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, msg, updated)
}

func (h *Handler) NotifyDonors(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "request")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.requests.Notify(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, result.Message, result)
}
