package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
)

type updateQuotationStatusRequest struct {
	Status string `json:"status"`
}

// @Summary      Create Quotation
// @Description  Price and store a quotation. Totals are always derived server side.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                         true  "Organization ID"
// @Param        request   body      quotationdomain.CreateRequest  true  "Create Quotation Request"
// @Success      200  {object}  quotationdomain.Quotation
// @Router       /quotations [post]
func (s *Server) CreateQuotation(c *gin.Context) {
	var req quotationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Preview Quotation
// @Description  Price a draft without storing it
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                         true  "Organization ID"
// @Param        request   body      quotationdomain.CreateRequest  true  "Draft"
// @Success      200  {object}  quotationdomain.Quotation
// @Router       /quotations/preview [post]
func (s *Server) PreviewQuotation(c *gin.Context) {
	var req quotationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Quotations
// @Tags         quotations
// @Produce      json
// @Param        X-Org-Id  header    string  true   "Organization ID"
// @Param        status    query     string  false  "Status"
// @Param        lead_id   query     string  false  "Lead ID"
// @Param        q         query     string  false  "Search"
// @Success      200  {object}  []quotationdomain.Quotation
// @Router       /quotations [get]
func (s *Server) ListQuotations(c *gin.Context) {
	var req quotationdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Quotation
// @Tags         quotations
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Quotation ID"
// @Success      200  {object}  quotationdomain.Quotation
// @Router       /quotations/{id} [get]
func (s *Server) GetQuotationByID(c *gin.Context) {
	resp, err := s.quotationSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Replace Quotation
// @Description  Replace the editable inputs of a quotation and reprice it
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                         true  "Organization ID"
// @Param        id        path      string                         true  "Quotation ID"
// @Param        request   body      quotationdomain.CreateRequest  true  "Quotation"
// @Success      200  {object}  quotationdomain.Quotation
// @Router       /quotations/{id} [put]
func (s *Server) UpdateQuotation(c *gin.Context) {
	var req quotationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Update(c.Request.Context(), quotationdomain.UpdateRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		CreateRequest: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Quotation Status
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                        true  "Organization ID"
// @Param        id        path      string                        true  "Quotation ID"
// @Param        request   body      updateQuotationStatusRequest  true  "Status"
// @Success      200  {object}  quotationdomain.Quotation
// @Router       /quotations/{id}/status [patch]
func (s *Server) UpdateQuotationStatus(c *gin.Context) {
	var req updateQuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.UpdateStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Quotation
// @Tags         quotations
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Quotation ID"
// @Success      200
// @Router       /quotations/{id} [delete]
func (s *Server) DeleteQuotation(c *gin.Context) {
	if err := s.quotationSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Add Quotation Item
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                     true  "Organization ID"
// @Param        id        path      string                     true  "Quotation ID"
// @Param        request   body      quotationdomain.ItemInput  true  "Item"
// @Success      200  {object}  quotationdomain.ItemChange
// @Router       /quotations/{id}/items [post]
func (s *Server) AddQuotationItem(c *gin.Context) {
	var req quotationdomain.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.AddItem(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Quotation Item
// @Description  Patch the item at a zero-based position. Discounts above the product maximum are clamped.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                     true  "Organization ID"
// @Param        id        path      string                     true  "Quotation ID"
// @Param        index     path      int                        true  "Item position"
// @Param        request   body      quotationdomain.ItemInput  true  "Item patch"
// @Success      200  {object}  quotationdomain.ItemChange
// @Router       /quotations/{id}/items/{index} [patch]
func (s *Server) UpdateQuotationItem(c *gin.Context) {
	index, ok := itemIndexParam(c)
	if !ok {
		return
	}

	var req quotationdomain.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.UpdateItem(c.Request.Context(), strings.TrimSpace(c.Param("id")), index, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Remove Quotation Item
// @Tags         quotations
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Quotation ID"
// @Param        index     path      int     true  "Item position"
// @Success      200  {object}  quotationdomain.ItemChange
// @Router       /quotations/{id}/items/{index} [delete]
func (s *Server) RemoveQuotationItem(c *gin.Context) {
	index, ok := itemIndexParam(c)
	if !ok {
		return
	}

	resp, err := s.quotationSvc.RemoveItem(c.Request.Context(), strings.TrimSpace(c.Param("id")), index)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func itemIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(c.Param("index")))
	if err != nil || index < 0 {
		AbortWithError(c, newValidationError("index", "invalid_index", "invalid item index"))
		return 0, false
	}
	return index, true
}

func isQuotationValidationError(err error) bool {
	switch {
	case errors.Is(err, quotationdomain.ErrInvalidOrganization),
		errors.Is(err, quotationdomain.ErrInvalidID),
		errors.Is(err, quotationdomain.ErrInvalidClient),
		errors.Is(err, quotationdomain.ErrInvalidItems),
		errors.Is(err, quotationdomain.ErrInvalidItemName),
		errors.Is(err, quotationdomain.ErrInvalidDiscountType),
		errors.Is(err, quotationdomain.ErrInvalidCurrency),
		errors.Is(err, quotationdomain.ErrInvalidStatus),
		errors.Is(err, quotationdomain.ErrInvalidDates),
		errors.Is(err, quotationdomain.ErrInvalidLead),
		errors.Is(err, quotationdomain.ErrInvalidProduct),
		errors.Is(err, quotationdomain.ErrInvalidTemplate):
		return true
	default:
		return false
	}
}
