package admin

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/handler"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

type SummaryService interface {
	Summary(ctx context.Context) (*model.Summary, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
}

type UserService interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.Account, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	ToggleStatus(ctx context.Context, id, actorID uuid.UUID) (*model.User, error)
	DeleteUser(ctx context.Context, id, actorID uuid.UUID) error
}

type InventoryService interface {
	List(ctx context.Context) ([]*model.Inventory, error)
	Apply(ctx context.Context, bloodType, action string, amount int, actor *uuid.UUID) (*model.InventoryLog, error)
}

type RequestService interface {
	Create(ctx context.Context, actor *model.Principal, in *model.CreateRequestRequest) (*model.CreateRequestResult, error)
	List(ctx context.Context, filter model.RequestFilter) ([]*model.UrgentRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to model.RequestStatus, actor *uuid.UUID) (*model.UrgentRequest, error)
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
}

type Handler struct {
	summary   SummaryService
	users     UserService
	inventory InventoryService
	requests  RequestService
}

func NewHandler(summary SummaryService, users UserService, inventory InventoryService, requests RequestService) *Handler {
	return &Handler{
		summary:   summary,
		users:     users,
		inventory: inventory,
		requests:  requests,
	}
}

// RegisterRoutes mounts the admin console on r, which must already require
// the admin role.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/summary", h.Summary)
		admin.GET("/analytics", h.Analytics)

		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.POST("/users/:id/toggle", h.ToggleUser)

		admin.GET("/inventory", h.ListInventory)
		admin.POST("/inventory", h.ChangeInventory)

		admin.GET("/requests", h.ListRequests)
		admin.POST("/requests", h.CreateRequest)
		admin.PUT("/requests/:id/status", h.UpdateRequestStatus)
		admin.DELETE("/requests/:id", h.DeleteRequest)
	}
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.summary.Summary(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, summary)
}

func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.summary.Analytics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, analytics)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	acct, err := h.users.CreateUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, acct)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "user")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateUserRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "User updated successfully", user)
}

func (h *Handler) ToggleUser(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := handler.ParseID(c, "id", "user")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	user, err := h.users.ToggleStatus(c.Request.Context(), id, principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "User status changed to "+string(user.Status), user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := handler.ParseID(c, "id", "user")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id, principal.UserID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "User deleted successfully", nil)
}

func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) ChangeInventory(c *gin.Context) {
	principal, err := handler.Principal(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.InventoryChangeRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	entry, err := h.inventory.Apply(c.Request.Context(), req.BloodType, req.Action, *req.Amount, &principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Inventory updated successfully", entry)
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
	httputil.RespondWithCreated(c, result)
}

func (h *Handler) UpdateRequestStatus(c *gin.Context) {
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

	var req model.UpdateRequestStatusRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	updated, err := h.requests.UpdateStatus(c.Request.Context(), id, req.Status, &principal.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Request status updated to "+string(updated.Status), updated)
}

func (h *Handler) DeleteRequest(c *gin.Context) {
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

	if err := h.requests.Delete(c.Request.Context(), id, &principal.UserID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Request deleted successfully", nil)
}
