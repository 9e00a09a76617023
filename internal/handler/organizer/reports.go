package organizer

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-api/internal/export"
	"github.com/bloodlink/bloodlink-api/internal/handler"
	"github.com/bloodlink/bloodlink-api/internal/model"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

func (h *Handler) ListReports(c *gin.Context) {
	orgID, _, err := scope(c, "", "")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	reports, err := h.reports.List(c.Request.Context(), orgID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, reports)
}

func (h *Handler) GenerateReport(c *gin.Context) {
	orgID, _, err := scope(c, "", "")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.GenerateReportRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := h.reports.Generate(c.Request.Context(), orgID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreatedMessage(c, "Report generated successfully", doc)
}

func (h *Handler) GetReport(c *gin.Context) {
	orgID, id, err := scope(c, "id", "report")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := h.reports.Get(c.Request.Context(), orgID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	orgID, id, err := scope(c, "id", "report")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.reports.Delete(c.Request.Context(), orgID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Report deleted successfully", nil)
}

func (h *Handler) DownloadCSV(c *gin.Context) {
	h.download(c, "csv", export.ContentTypeCSV, export.WriteReportCSV)
}

func (h *Handler) DownloadXLSX(c *gin.Context) {
	h.download(c, "xlsx", export.ContentTypeXLSX, export.WriteReportXLSX)
}

// download renders the whole file before writing any header.
func (h *Handler) download(c *gin.Context, ext, contentType string, render func(io.Writer, *model.ReportDocument) error) {
	orgID, id, err := scope(c, "id", "report")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := h.reports.Get(c.Request.Context(), orgID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, doc); err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	c.Header("Content-Disposition", export.ContentDisposition(export.ReportFilename(doc, ext)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
