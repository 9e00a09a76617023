// Package handler holds helpers shared by the per-role HTTP handlers.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/model"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

var errNoPrincipal = errors.New("no authenticated principal")

// Principal returns the caller set by the auth middleware.
func Principal(c *gin.Context) (*model.Principal, error) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return nil, apperrors.Unauthorized(errNoPrincipal)
	}
	return p, nil
}

// ProfileID returns the caller's role profile id, e.g. the organizer id.
func ProfileID(c *gin.Context) (uuid.UUID, error) {
	p, err := Principal(c)
	if err != nil {
		return uuid.Nil, err
	}
	if p.ProfileID == nil {
		return uuid.Nil, apperrors.Forbidden("no " + string(p.Role) + " profile for this account")
	}
	return *p.ProfileID, nil
}

// ParseID reads a uuid path parameter.
func ParseID(c *gin.Context, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid "+resource+" ID", err)
	}
	return id, nil
}

// Bind decodes a JSON or form body according to its content type.
func Bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		return httputil.BindError(err)
	}
	return nil
}
