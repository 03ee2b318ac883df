package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
)

type addLeadNoteRequest struct {
	Message string `json:"message"`
}

// @Summary      Create Lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                    true  "Organization ID"
// @Param        request   body      leaddomain.CreateRequest  true  "Create Lead Request"
// @Success      200  {object}  leaddomain.Lead
// @Router       /leads [post]
func (s *Server) CreateLead(c *gin.Context) {
	var req leaddomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Leads
// @Tags         leads
// @Produce      json
// @Param        X-Org-Id  header    string  true   "Organization ID"
// @Param        status    query     string  false  "Status"
// @Param        q         query     string  false  "Search"
// @Success      200  {object}  []leaddomain.Lead
// @Router       /leads [get]
func (s *Server) ListLeads(c *gin.Context) {
	var req leaddomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Lead
// @Tags         leads
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Lead ID"
// @Success      200  {object}  leaddomain.Lead
// @Router       /leads/{id} [get]
func (s *Server) GetLeadByID(c *gin.Context) {
	resp, err := s.leadSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                    true  "Organization ID"
// @Param        id        path      string                    true  "Lead ID"
// @Param        request   body      leaddomain.UpdateRequest  true  "Update Lead Request"
// @Success      200  {object}  leaddomain.Lead
// @Router       /leads/{id} [patch]
func (s *Server) UpdateLead(c *gin.Context) {
	var req leaddomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.leadSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Lead Timeline
// @Description  List the activity recorded on a lead, oldest first
// @Tags         leads
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Lead ID"
// @Success      200  {object}  []leaddomain.TimelineEntry
// @Router       /leads/{id}/timeline [get]
func (s *Server) GetLeadTimeline(c *gin.Context) {
	resp, err := s.leadSvc.Timeline(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Add Lead Note
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string              true  "Organization ID"
// @Param        id        path      string              true  "Lead ID"
// @Param        request   body      addLeadNoteRequest  true  "Note"
// @Success      200  {object}  leaddomain.TimelineEntry
// @Router       /leads/{id}/notes [post]
func (s *Server) AddLeadNote(c *gin.Context) {
	var req addLeadNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	leadID, err := leaddomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid lead id"))
		return
	}

	resp, err := s.leadSvc.AppendTimeline(c.Request.Context(), nil, leadID, leaddomain.EntryNote, req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isLeadValidationError(err error) bool {
	switch {
	case errors.Is(err, leaddomain.ErrInvalidOrganization),
		errors.Is(err, leaddomain.ErrInvalidID),
		errors.Is(err, leaddomain.ErrInvalidTitle),
		errors.Is(err, leaddomain.ErrInvalidContactName),
		errors.Is(err, leaddomain.ErrInvalidEmail),
		errors.Is(err, leaddomain.ErrInvalidStatus),
		errors.Is(err, leaddomain.ErrInvalidMessage):
		return true
	default:
		return false
	}
}
