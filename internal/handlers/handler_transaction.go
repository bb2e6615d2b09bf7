package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type transactionHandler struct {
	txnService portssvc.TransactionSvcFacade
}

// RegisterTransactionRoutes mounts the trust transaction endpoints on rg.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade) {
	h := &transactionHandler{txnService: ts}
	txns := rg.Group("/trust/transactions")
	txns.POST("", h.createTransaction)
	txns.GET("", h.listTransactions)
	txns.GET("/:transactionId", h.getTransaction)
	txns.GET("/:transactionId/audit", h.getTransactionAuditTrail)
	txns.POST("/:transactionId/approve", h.approveTransaction)
	txns.POST("/:transactionId/void", h.voidTransaction)
}

func auditContextFrom(c *gin.Context) domain.AuditContext {
	return domain.AuditContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// parseDateQuery reads an optional RFC 3339 or YYYY-MM-DD date query param.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date format"})
	return nil, false
}

// createTransaction godoc
// @Summary Record a trust transaction
// @Description Creates a pending trust transaction. Balances move only on approval. Admin role required.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid request format or closed ledger"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Account or ledger not found"
// @Router /trust/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	txn, err := h.txnService.CreateTransaction(c.Request.Context(), req, userID, auditContextFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": dto.ToTransactionResponse(txn)})
}

// listTransactions godoc
// @Summary List trust transactions
// @Description Lists an organization's transactions newest first with keyset pagination
// @Tags transactions
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param trustAccountId query string false "Filter by trust account"
// @Param clientLedgerId query string false "Filter by client ledger"
// @Param transactionType query string false "Filter by type"
// @Param startDate query string false "Period start (YYYY-MM-DD)"
// @Param endDate query string false "Period end (YYYY-MM-DD)"
// @Param isReconciled query bool false "Filter by reconciled flag"
// @Param includeVoided query bool false "Include voided transactions"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
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

	params := dto.ListTransactionsParams{
		TrustAccountID:  c.Query("trustAccountId"),
		ClientLedgerID:  c.Query("clientLedgerId"),
		TransactionType: domain.TrustTransactionType(c.Query("transactionType")),
		IncludeVoided:   c.Query("includeVoided") == "true",
	}

	var valid bool
	if params.StartDate, valid = parseDateQuery(c, "startDate"); !valid {
		return
	}
	if params.EndDate, valid = parseDateQuery(c, "endDate"); !valid {
		return
	}
	if raw := c.Query("isReconciled"); raw != "" {
		reconciled, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid isReconciled value"})
			return
		}
		params.IsReconciled = &reconciled
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit value"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.txnService.ListTransactions(c.Request.Context(), orgID, userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a trust transaction
// @Description Returns one transaction scoped to an organization
// @Tags transactions
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Param organizationId query string true "Organization ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Router /trust/transactions/{transactionId} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
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

	txn, err := h.txnService.GetTransaction(c.Request.Context(), orgID, c.Param("transactionId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": dto.ToTransactionResponse(txn)})
}

// getTransactionAuditTrail godoc
// @Summary Get a transaction's audit trail
// @Description Returns the append-only audit entries recorded against a transaction, oldest first
// @Tags transactions
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Param organizationId query string true "Organization ID"
// @Success 200 {object} dto.TransactionAuditTrailResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Router /trust/transactions/{transactionId}/audit [get]
func (h *transactionHandler) getTransactionAuditTrail(c *gin.Context) {
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

	entries, err := h.txnService.GetTransactionAuditTrail(c.Request.Context(), orgID, c.Param("transactionId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TransactionAuditTrailResponse{Entries: dto.ToAuditLogResponses(entries)})
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Approves a pending transaction and applies its amount to the ledger and account balances. Admin role required.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Param scope body dto.ApproveTransactionRequest true "Organization scope"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Not pending or insufficient funds"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Router /trust/transactions/{transactionId}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ApproveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approve transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	txn, err := h.txnService.ApproveTransaction(c.Request.Context(), req.OrganizationID, c.Param("transactionId"), userID, auditContextFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": dto.ToTransactionResponse(txn)})
}

// voidTransaction godoc
// @Summary Void a transaction
// @Description Voids a pending or approved transaction, reversing balances for approved ones. Reconciled transactions cannot be voided. Admin role required.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Param void body dto.VoidTransactionRequest true "Void reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Already voided or reconciled"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Router /trust/transactions/{transactionId}/void [post]
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.VoidTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for void transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	txn, err := h.txnService.VoidTransaction(c.Request.Context(), req.OrganizationID, c.Param("transactionId"), userID, req.VoidReason, auditContextFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": dto.ToTransactionResponse(txn)})
}
