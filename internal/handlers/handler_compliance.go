package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type complianceHandler struct {
	complianceService portssvc.ComplianceSvcFacade
}

func registerComplianceRoutes(rg *gin.RouterGroup, cs portssvc.ComplianceSvcFacade) {
	h := &complianceHandler{complianceService: cs}
	rg.GET("/trust/compliance/check", h.runCheck)
}

// runCheck godoc
// @Summary Run a compliance check
// @Description Evaluates jurisdictional trust rules over the organization's accounts and ledgers. Alerts are computed fresh, never persisted.
// @Tags compliance
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Success 200 {array} domain.ComplianceAlert
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/compliance/check [get]
func (h *complianceHandler) runCheck(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orgID := c.Query("organizationId")
	if orgID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organizationId query parameter is required"})
		return
	}

	alerts, err := h.complianceService.RunComplianceCheck(c.Request.Context(), orgID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
