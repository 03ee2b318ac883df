package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	followupdomain "github.com/smallbiznis/quotely/internal/followup/domain"
)

type followupRemarkRequest struct {
	Message string `json:"message"`
}

// @Summary      Create Follow-up
// @Tags         followups
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                        true  "Organization ID"
// @Param        request   body      followupdomain.CreateRequest  true  "Create Follow-up Request"
// @Success      200  {object}  followupdomain.Followup
// @Router       /followups [post]
func (s *Server) CreateFollowup(c *gin.Context) {
	var req followupdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followupSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Follow-ups
// @Description  List follow-ups, optionally restricted to the today, overdue or upcoming bucket
// @Tags         followups
// @Produce      json
// @Param        X-Org-Id  header    string  true   "Organization ID"
// @Param        bucket    query     string  false  "Bucket"
// @Param        stage     query     string  false  "Stage"
// @Param        lead_id   query     string  false  "Lead ID"
// @Success      200  {object}  []followupdomain.Followup
// @Router       /followups [get]
func (s *Server) ListFollowups(c *gin.Context) {
	var req followupdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followupSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Follow-up
// @Tags         followups
// @Produce      json
// @Param        X-Org-Id  header    string  true  "Organization ID"
// @Param        id        path      string  true  "Follow-up ID"
// @Success      200  {object}  followupdomain.Followup
// @Router       /followups/{id} [get]
func (s *Server) GetFollowupByID(c *gin.Context) {
	resp, err := s.followupSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Add Follow-up Remark
// @Tags         followups
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                 true  "Organization ID"
// @Param        id        path      string                 true  "Follow-up ID"
// @Param        request   body      followupRemarkRequest  true  "Remark"
// @Success      200  {object}  followupdomain.Followup
// @Router       /followups/{id}/remarks [post]
func (s *Server) AddFollowupRemark(c *gin.Context) {
	var req followupRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followupSvc.AddRemark(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Close Follow-up
// @Tags         followups
// @Accept       json
// @Produce      json
// @Param        X-Org-Id  header    string                 true   "Organization ID"
// @Param        id        path      string                 true   "Follow-up ID"
// @Param        request   body      followupRemarkRequest  false  "Closing remark"
// @Success      200  {object}  followupdomain.Followup
// @Router       /followups/{id}/close [post]
func (s *Server) CloseFollowup(c *gin.Context) {
	var req followupRemarkRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.followupSvc.Close(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isFollowupValidationError(err error) bool {
	switch {
	case errors.Is(err, followupdomain.ErrInvalidOrganization),
		errors.Is(err, followupdomain.ErrInvalidID),
		errors.Is(err, followupdomain.ErrInvalidLead),
		errors.Is(err, followupdomain.ErrInvalidQuotation),
		errors.Is(err, followupdomain.ErrInvalidTitle),
		errors.Is(err, followupdomain.ErrInvalidDate),
		errors.Is(err, followupdomain.ErrInvalidBucket),
		errors.Is(err, followupdomain.ErrInvalidStage),
		errors.Is(err, followupdomain.ErrInvalidRemark):
		return true
	default:
		return false
	}
}
