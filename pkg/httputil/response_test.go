package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, fn gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondWithError_MapsAppErrors(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) {
		RespondWithError(c, errors.Conflict("Already registered for this event", nil))
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Already registered for this event", body.Message)
}

func TestRespondWithError_HidesInternalDetails(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) {
		RespondWithError(c, fmt.Errorf("pq: password authentication failed for user \"bloodlink\""))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestRespondWithSuccess(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) {
		RespondWithSuccess(c, gin.H{"donors_notified": 2})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, map[string]interface{}{"donors_notified": float64(2)}, body.Data)
}
