package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obsctx "github.com/smallbiznis/quotely/internal/observability/context"
	"github.com/smallbiznis/quotely/internal/orgcontext"
)

const (
	HeaderOrg       = "X-Org-Id"
	contextOrgIDKey = "org_id"
)

// OrgRequired binds the organization named by the X-Org-Id header (or the
// org_id query parameter) to the request context.
func (s *Server) OrgRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := requestOrgID(c)
		if raw == "" {
			AbortWithError(c, ErrOrganizationRequired)
			return
		}

		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID <= 0 {
			AbortWithError(c, newValidationError(HeaderOrg, "invalid_organization", "invalid organization id"))
			return
		}

		c.Set(contextOrgIDKey, orgID.String())
		ctx := orgcontext.WithOrgID(c.Request.Context(), int64(orgID))
		ctx = obsctx.WithOrgID(ctx, orgID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestOrgID(c *gin.Context) string {
	if value := strings.TrimSpace(c.GetHeader(HeaderOrg)); value != "" {
		return value
	}
	if value, ok := c.GetQuery("org_id"); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
