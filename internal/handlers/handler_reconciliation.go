package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func registerReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconService: rs}
	recons := rg.Group("/trust/reconciliations")
	recons.GET("", h.listReconciliations)
	recons.GET("/:reconciliationId", h.getReconciliation)
	recons.POST("/:reconciliationId/begin-review", h.beginReview)
	recons.POST("/:reconciliationId/complete", h.completeReconciliation)
	recons.POST("/:reconciliationId/approve", h.approveReconciliation)
}

// listReconciliations godoc
// @Summary List reconciliations
// @Description Lists an organization's reconciliations newest first
// @Tags reconciliations
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param trustAccountId query string false "Filter by trust account"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.ReconciliationResponse
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/reconciliations [get]
func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
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

	params := dto.ListReconciliationsParams{
		TrustAccountID: c.Query("trustAccountId"),
		Status:         domain.ReconciliationStatus(c.Query("status")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit value"})
			return
		}
		params.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset value"})
			return
		}
		params.Offset = offset
	}

	recons, err := h.reconService.ListReconciliations(c.Request.Context(), orgID, userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliations": dto.ToReconciliationResponses(recons)})
}

// getReconciliation godoc
// @Summary Get a reconciliation
// @Description Returns one reconciliation scoped to an organization
// @Tags reconciliations
// @Produce json
// @Param reconciliationId path string true "Reconciliation ID"
// @Param organizationId query string true "Organization ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} ErrorResponse "Reconciliation not found"
// @Router /trust/reconciliations/{reconciliationId} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
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

	recon, err := h.reconService.GetReconciliation(c.Request.Context(), orgID, c.Param("reconciliationId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": dto.ToReconciliationResponse(recon)})
}

// beginReview godoc
// @Summary Begin reviewing a reconciliation
// @Description Moves a draft reconciliation into review. Admin role required.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param reconciliationId path string true "Reconciliation ID"
// @Param scope body dto.ReconciliationScopeRequest true "Organization scope"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse "Not in draft"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Reconciliation not found"
// @Router /trust/reconciliations/{reconciliationId}/begin-review [post]
func (h *reconciliationHandler) beginReview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ReconciliationScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for begin reconciliation review", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	recon, err := h.reconService.BeginReconciliationReview(c.Request.Context(), req.OrganizationID, c.Param("reconciliationId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": dto.ToReconciliationResponse(recon)})
}

// completeReconciliation godoc
// @Summary Complete a reconciliation
// @Description Completes a draft or in-progress reconciliation, marking the period's approved transactions reconciled. Admin role required.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param reconciliationId path string true "Reconciliation ID"
// @Param completion body dto.CompleteReconciliationRequest true "Completion notes"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse "Already completed or approved"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Reconciliation not found"
// @Router /trust/reconciliations/{reconciliationId}/complete [post]
func (h *reconciliationHandler) completeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for complete reconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	recon, err := h.reconService.CompleteReconciliation(c.Request.Context(), req.OrganizationID, c.Param("reconciliationId"), req.Notes, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": dto.ToReconciliationResponse(recon)})
}

// approveReconciliation godoc
// @Summary Approve a completed reconciliation
// @Description Approves a completed reconciliation. An unbalanced reconciliation must carry explanatory notes. Admin role required.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param reconciliationId path string true "Reconciliation ID"
// @Param scope body dto.ReconciliationScopeRequest true "Organization scope"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse "Not completed or unexplained variance"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Reconciliation not found"
// @Router /trust/reconciliations/{reconciliationId}/approve [post]
func (h *reconciliationHandler) approveReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ReconciliationScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approve reconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	recon, err := h.reconService.ApproveReconciliation(c.Request.Context(), req.OrganizationID, c.Param("reconciliationId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": dto.ToReconciliationResponse(recon)})
}
