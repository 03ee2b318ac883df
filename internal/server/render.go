package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/render"
)

type exportResponse struct {
	Filename  string     `json:"filename"`
	Format    string     `json:"format"`
	Key       string     `json:"key"`
	Size      int64      `json:"size"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// @Summary      Render Quotation
// @Description  Render a stored quotation with a template (the organization default when template_id is omitted)
// @Tags         quotations
// @Produce      html
// @Produce      application/pdf
// @Param        X-Org-Id     header    string  true   "Organization ID"
// @Param        id           path      string  true   "Quotation ID"
// @Param        template_id  query     string  false  "Template ID"
// @Param        format       query     string  false  "html or pdf"
// @Success      200
// @Router       /quotations/{id}/render [get]
func (s *Server) RenderQuotation(c *gin.Context) {
	format, err := render.ParseFormat(c.Query("format"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.renderSvc.Render(c.Request.Context(), render.Request{
		QuotationID: strings.TrimSpace(c.Param("id")),
		TemplateID:  optionalQuery(c, "template_id"),
		Format:      format,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeRendered(c, resp, false)
}

// @Summary      Render Quotation Preview
// @Description  Price and render a draft without storing it
// @Tags         quotations
// @Accept       json
// @Produce      html
// @Produce      application/pdf
// @Param        X-Org-Id     header    string                         true   "Organization ID"
// @Param        template_id  query     string                         false  "Template ID"
// @Param        format       query     string                         false  "html or pdf"
// @Param        request      body      quotationdomain.CreateRequest  true   "Draft"
// @Success      200
// @Router       /quotations/preview/render [post]
func (s *Server) RenderQuotationPreview(c *gin.Context) {
	format, err := render.ParseFormat(c.Query("format"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req quotationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	draft, err := s.quotationSvc.Preview(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.renderSvc.RenderQuotation(ctx, draft, optionalQuery(c, "template_id"), format)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeRendered(c, resp, false)
}

// @Summary      Export Quotation
// @Description  Render a quotation for download. With archive set and storage enabled the file is stored and a signed URL is returned.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Produce      application/pdf
// @Param        X-Org-Id  header    string               true   "Organization ID"
// @Param        id        path      string               true   "Quotation ID"
// @Param        request   body      render.ExportRequest  false  "Export Request"
// @Success      200
// @Router       /quotations/{id}/export [post]
func (s *Server) ExportQuotation(c *gin.Context) {
	var req render.ExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}
	req.QuotationID = strings.TrimSpace(c.Param("id"))

	resp, err := s.renderSvc.Export(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if resp.Object == nil {
		writeRendered(c, resp.Result, true)
		return
	}

	out := exportResponse{
		Filename: resp.Filename(),
		Format:   string(resp.Format),
		Key:      resp.Object.Key,
		Size:     resp.Object.Size,
		URL:      resp.Object.URL,
	}
	if !resp.Object.ExpiresAt.IsZero() {
		expiresAt := resp.Object.ExpiresAt
		out.ExpiresAt = &expiresAt
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func writeRendered(c *gin.Context, result *render.Result, attachment bool) {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+result.Filename()+`"`)
	if result.TemplateID != 0 {
		c.Header("X-Template-Id", result.TemplateID.String())
	}
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func optionalQuery(c *gin.Context, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

func isRenderValidationError(err error) bool {
	switch {
	case errors.Is(err, render.ErrInvalidFormat),
		errors.Is(err, render.ErrInvalidTemplate):
		return true
	default:
		return false
	}
}
