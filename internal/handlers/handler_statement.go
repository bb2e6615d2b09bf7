package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func registerStatementRoutes(rg *gin.RouterGroup, ss portssvc.StatementSvcFacade) {
	h := &statementHandler{statementService: ss}
	statements := rg.Group("/trust/statements")
	statements.POST("/:statementId/match", h.autoMatch)
}

// autoMatch godoc
// @Summary Auto-match a bank statement
// @Description Matches unmatched statement lines against approved unreconciled transactions by amount, direction, date proximity, and check number. Admin role required.
// @Tags statements
// @Accept json
// @Produce json
// @Param statementId path string true "Statement ID"
// @Param scope body dto.MatchStatementRequest true "Organization scope"
// @Success 200 {object} domain.MatchResult
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Statement not found"
// @Router /trust/statements/{statementId}/match [post]
func (h *statementHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.MatchStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for statement match", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.statementService.AutoMatchStatement(c.Request.Context(), req.OrganizationID, c.Param("statementId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
