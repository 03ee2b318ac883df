package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
)

// @Summary      Create Quotation Template
// @Tags         quotation_templates
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                   true  "Organization ID"
// @Param        request   body      tpldomain.CreateRequest  true  "Create Template Request"
// @Success      200  {object}  tpldomain.Template
// @Router       /quotation_templates [post]
func (s *Server) CreateQuotationTemplate(c *gin.Context) {
	var req tpldomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.templateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Quotation Templates
// @Tags         quotation_templates
// @Produce      json
// @Param        X-Org-Id    header    string  true   "Organization ID"
// @Param        name        query     string  false  "Name"
// @Param        is_default  query     bool    false  "Default only"
// @Success      200  {object}  []tpldomain.Template
// @Router       /quotation_templates [get]
func (s *Server) ListQuotationTemplates(c *gin.Context) {
	var query struct {
		Name      string `form:"name"`
		IsDefault string `form:"is_default"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	isDefault, err := parseOptionalBool(query.IsDefault)
	if err != nil {
		AbortWithError(c, newValidationError("is_default", "invalid_is_default", "invalid is_default"))
		return
	}

	resp, err := s.templateSvc.List(c.Request.Context(), tpldomain.ListRequest{
		Name:      strings.TrimSpace(query.Name),
		IsDefault: isDefault,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Quotation Template
// @Tags         quotation_templates
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Template ID"
// @Success      200  {object}  tpldomain.Template
// @Router       /quotation_templates/{id} [get]
func (s *Server) GetQuotationTemplateByID(c *gin.Context) {
	resp, err := s.templateSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Quotation Template
// @Tags         quotation_templates
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                   true  "Organization ID"
// @Param        id        path      string                   true  "Template ID"
// @Param        request   body      tpldomain.UpdateRequest  true  "Update Template Request"
// @Success      200  {object}  tpldomain.Template
// @Router       /quotation_templates/{id} [patch]
func (s *Server) UpdateQuotationTemplate(c *gin.Context) {
	var req tpldomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.templateSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Set Default Quotation Template
// @Tags         quotation_templates
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Template ID"
// @Success      200  {object}  tpldomain.Template
// @Router       /quotation_templates/{id}/default [post]
func (s *Server) SetDefaultQuotationTemplate(c *gin.Context) {
	resp, err := s.templateSvc.SetDefault(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Quotation Template
// @Tags         quotation_templates
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Template ID"
// @Success      200
// @Router       /quotation_templates/{id} [delete]
func (s *Server) DeleteQuotationTemplate(c *gin.Context) {
	if err := s.templateSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isTemplateValidationError(err error) bool {
	switch {
	case errors.Is(err, tpldomain.ErrInvalidOrganization),
		errors.Is(err, tpldomain.ErrInvalidID),
		errors.Is(err, tpldomain.ErrInvalidName),
		errors.Is(err, tpldomain.ErrInvalidSection),
		errors.Is(err, tpldomain.ErrDuplicateSection),
		errors.Is(err, tpldomain.ErrInvalidStyles):
		return true
	default:
		return false
	}
}
