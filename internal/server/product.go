package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/quotely/internal/product/domain"
)

type createProductRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	UnitPrice   float64  `json:"unit_price"`
	TaxPercent  float64  `json:"tax_percent"`
	MaxDiscount *float64 `json:"max_discount"`
}

type updateProductRequest struct {
	Name             *string  `json:"name,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Unit             *string  `json:"unit,omitempty"`
	UnitPrice        *float64 `json:"unit_price,omitempty"`
	TaxPercent       *float64 `json:"tax_percent,omitempty"`
	MaxDiscount      *float64 `json:"max_discount,omitempty"`
	ClearMaxDiscount bool     `json:"clear_max_discount,omitempty"`
	Active           *bool    `json:"active,omitempty"`
}

// @Summary      Create Product
// @Description  Create a catalog product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                true  "Organization ID"
// @Param        request   body      createProductRequest  true  "Create Product Request"
// @Success      200  {object}  productdomain.Product
// @Router       /products [post]
func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Unit:        strings.TrimSpace(req.Unit),
		UnitPrice:   req.UnitPrice,
		TaxPercent:  req.TaxPercent,
		MaxDiscount: req.MaxDiscount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Products
// @Description  List catalog products
// @Tags         products
// @Produce      json
// @Param        X-Org-Id  header    string  true   "Organization ID"
// @Param        name      query     string  false  "Name"
// @Param        active    query     bool    false  "Active"
// @Success      200  {object}  []productdomain.Product
// @Router       /products [get]
func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Name   string `form:"name"`
		Active string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Name:   strings.TrimSpace(query.Name),
		Active: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Product
// @Description  Get product by ID
// @Tags         products
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Product ID"
// @Success      200  {object}  productdomain.Product
// @Router       /products/{id} [get]
func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.productSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Product
// @Description  Update product details
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                true  "Organization ID"
// @Param        id        path      string                true  "Product ID"
// @Param        request   body      updateProductRequest  true  "Update Product Request"
// @Success      200  {object}  productdomain.Product
// @Router       /products/{id} [patch]
func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:               strings.TrimSpace(c.Param("id")),
		Name:             trimProductString(req.Name),
		Description:      trimProductString(req.Description),
		Unit:             trimProductString(req.Unit),
		UnitPrice:        req.UnitPrice,
		TaxPercent:       req.TaxPercent,
		MaxDiscount:      req.MaxDiscount,
		ClearMaxDiscount: req.ClearMaxDiscount,
		Active:           req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidOrganization),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidCode),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidPrice),
		errors.Is(err, productdomain.ErrInvalidTax),
		errors.Is(err, productdomain.ErrInvalidMaxDiscount):
		return true
	default:
		return false
	}
}

func trimProductString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func parseOptionalBool(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
