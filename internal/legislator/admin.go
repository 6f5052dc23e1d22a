package legislator

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citizenhub/internal/auth"
	"citizenhub/internal/officials"
)

// AdminHandler exposes operator-only maintenance routes.
type AdminHandler struct {
	Syncer *officials.Syncer
	Tokens auth.TokenService
}

func NewAdminHandler(syncer *officials.Syncer, tokens auth.TokenService) *AdminHandler {
	return &AdminHandler{Syncer: syncer, Tokens: tokens}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", auth.AuthMiddleware(h.Tokens), h.sync) // POST /admin/sync
}

func (h *AdminHandler) sync(c *gin.Context) {
	var req officials.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(req.Addresses) == 0 && len(req.Cities) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addresses or cities required"})
		return
	}

	report, err := h.Syncer.Run(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed", "run_id": report.RunID})
		return
	}
	c.JSON(http.StatusOK, report)
}
