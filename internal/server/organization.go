package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	organizationdomain "github.com/smallbiznis/quotely/internal/organization/domain"
)

// @Summary      Get Organization
// @Description  Get the company profile of the current organization
// @Tags         organization
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Success      200  {object}  organizationdomain.Organization
// @Router       /organization [get]
func (s *Server) GetOrganization(c *gin.Context) {
	resp, err := s.organizationSvc.Current(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Organization
// @Description  Update the company profile printed on quotations
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                                 true  "Organization ID"
// @Param        request   body      organizationdomain.UpdateRequest  true  "Update Organization Request"
// @Success      200  {object}  organizationdomain.Organization
// @Router       /organization [patch]
func (s *Server) UpdateOrganization(c *gin.Context) {
	var req organizationdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isOrganizationValidationError(err error) bool {
	switch {
	case errors.Is(err, organizationdomain.ErrInvalidOrganization),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidEmail),
		errors.Is(err, organizationdomain.ErrInvalidCurrency):
		return true
	default:
		return false
	}
}
