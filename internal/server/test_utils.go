package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup removes organizations whose slug starts with prefix, along with
// everything they own. It is only routed outside production.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	orgIDs, err := s.loadOrgIDsByPrefix(ctx, prefix)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.deleteOrgData(ctx, orgIDs); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "organizations": len(orgIDs)})
}

// likeEscaper makes a slug prefix match literally inside LIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Server) loadOrgIDsByPrefix(ctx context.Context, prefix string) ([]int64, error) {
	like := likeEscaper.Replace(strings.TrimSpace(prefix)) + "%"
	var orgIDs []int64
	if err := s.db.WithContext(ctx).
		Table("organizations").
		Where(`slug LIKE ? ESCAPE '\'`, like).
		Pluck("id", &orgIDs).Error; err != nil {
		return nil, err
	}
	return orgIDs, nil
}

func (s *Server) deleteOrgData(ctx context.Context, orgIDs []int64) error {
	if len(orgIDs) == 0 {
		return nil
	}
	queries := []string{
		`DELETE FROM quotation_events WHERE org_id IN ?`,
		`DELETE FROM quotation_items WHERE quotation_id IN (SELECT id FROM quotations WHERE org_id IN ?)`,
		`DELETE FROM quotations WHERE org_id IN ?`,
		`DELETE FROM quotation_templates WHERE org_id IN ?`,
		`DELETE FROM followup_remarks WHERE org_id IN ?`,
		`DELETE FROM followups WHERE org_id IN ?`,
		`DELETE FROM lead_timeline_entries WHERE org_id IN ?`,
		`DELETE FROM leads WHERE org_id IN ?`,
		`DELETE FROM products WHERE org_id IN ?`,
		`DELETE FROM organizations WHERE id IN ?`,
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, query := range queries {
			if err := tx.Exec(query, orgIDs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
