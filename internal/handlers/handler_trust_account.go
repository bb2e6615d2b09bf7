package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type trustAccountHandler struct {
	accountService   portssvc.TrustAccountSvcFacade
	reconService     portssvc.ReconciliationSvcFacade
	statementService portssvc.StatementSvcFacade
}

func registerTrustAccountRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &trustAccountHandler{
		accountService:   services.TrustAccount,
		reconService:     services.Reconciliation,
		statementService: services.Statement,
	}
	accounts := rg.Group("/trust/accounts")
	accounts.POST("", h.createTrustAccount)
	accounts.GET("", h.listTrustAccounts)
	accounts.GET("/:accountId", h.getTrustAccount)
	accounts.PUT("/:accountId", h.updateTrustAccount)
	accounts.POST("/:accountId/deactivate", h.deactivateTrustAccount)
	accounts.POST("/:accountId/ledgers", h.createClientLedger)
	accounts.GET("/:accountId/ledgers", h.listClientLedgers)
	accounts.POST("/:accountId/reconcile", h.startReconciliation)
	accounts.POST("/:accountId/statements", h.importStatement)
}

// createTrustAccount godoc
// @Summary Open a trust account
// @Description Creates a trust account for an organization. Admin role required.
// @Tags trust-accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateTrustAccountRequest true "Account details"
// @Success 201 {object} dto.TrustAccountResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/accounts [post]
func (h *trustAccountHandler) createTrustAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateTrustAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create trust account", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.CreateTrustAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trustAccount": dto.ToTrustAccountResponse(account)})
}

// listTrustAccounts godoc
// @Summary List trust accounts
// @Description Lists an organization's trust accounts
// @Tags trust-accounts
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param activeOnly query bool false "Only active accounts"
// @Success 200 {array} dto.TrustAccountResponse
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/accounts [get]
func (h *trustAccountHandler) listTrustAccounts(c *gin.Context) {
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
	activeOnly := c.Query("activeOnly") == "true"

	accounts, err := h.accountService.ListTrustAccounts(c.Request.Context(), orgID, userID, activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trustAccounts": dto.ToTrustAccountResponses(accounts)})
}

// getTrustAccount godoc
// @Summary Get a trust account
// @Description Returns one trust account scoped to an organization
// @Tags trust-accounts
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param organizationId query string true "Organization ID"
// @Success 200 {object} dto.TrustAccountResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId} [get]
func (h *trustAccountHandler) getTrustAccount(c *gin.Context) {
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

	account, err := h.accountService.GetTrustAccount(c.Request.Context(), orgID, c.Param("accountId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trustAccount": dto.ToTrustAccountResponse(account)})
}

// updateTrustAccount godoc
// @Summary Update trust account details
// @Description Updates the name, bank or jurisdiction of a trust account. Admin role required.
// @Tags trust-accounts
// @Accept json
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param account body dto.UpdateTrustAccountRequest true "Fields to update"
// @Success 200 {object} dto.TrustAccountResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId} [put]
func (h *trustAccountHandler) updateTrustAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateTrustAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update trust account", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.UpdateTrustAccount(c.Request.Context(), c.Param("accountId"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trustAccount": dto.ToTrustAccountResponse(account)})
}

// deactivateTrustAccount godoc
// @Summary Deactivate a trust account
// @Description Deactivates a zero-balance trust account. Admin role required.
// @Tags trust-accounts
// @Accept json
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param scope body dto.ReconciliationScopeRequest true "Organization scope"
// @Success 200 {object} dto.TrustAccountResponse
// @Failure 400 {object} ErrorResponse "Account has a non-zero balance"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId}/deactivate [post]
func (h *trustAccountHandler) deactivateTrustAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ReconciliationScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deactivate trust account", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.DeactivateTrustAccount(c.Request.Context(), req.OrganizationID, c.Param("accountId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trustAccount": dto.ToTrustAccountResponse(account)})
}

// createClientLedger godoc
// @Summary Open a client ledger
// @Description Creates a client trust ledger under a trust account. Admin role required.
// @Tags trust-accounts
// @Accept json
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param ledger body dto.CreateClientLedgerRequest true "Ledger details"
// @Success 201 {object} dto.ClientLedgerResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId}/ledgers [post]
func (h *trustAccountHandler) createClientLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateClientLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create client ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ledger, err := h.accountService.CreateClientLedger(c.Request.Context(), c.Param("accountId"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"clientLedger": dto.ToClientLedgerResponse(ledger)})
}

// listClientLedgers godoc
// @Summary List client ledgers
// @Description Lists the client trust ledgers under a trust account
// @Tags trust-accounts
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param organizationId query string true "Organization ID"
// @Success 200 {array} dto.ClientLedgerResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId}/ledgers [get]
func (h *trustAccountHandler) listClientLedgers(c *gin.Context) {
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

	ledgers, err := h.accountService.ListClientLedgers(c.Request.Context(), orgID, c.Param("accountId"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientLedgers": dto.ToClientLedgerResponses(ledgers)})
}

// startReconciliation godoc
// @Summary Start a reconciliation
// @Description Opens a draft reconciliation for a period, computing the adjusted bank balance and variance. Admin role required.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param reconciliation body dto.StartReconciliationRequest true "Reconciliation period"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId}/reconcile [post]
func (h *trustAccountHandler) startReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for start reconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	recon, err := h.reconService.StartReconciliation(c.Request.Context(), c.Param("accountId"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reconciliation": dto.ToReconciliationResponse(recon)})
}

// importStatement godoc
// @Summary Import a bank statement
// @Description Stores a bank statement and its lines for later matching. Admin role required.
// @Tags statements
// @Accept json
// @Produce json
// @Param accountId path string true "Trust account ID"
// @Param statement body dto.ImportStatementRequest true "Statement with lines"
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} ErrorResponse "Invalid statement"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /trust/accounts/{accountId}/statements [post]
func (h *trustAccountHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for import statement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	statement, lines, err := h.statementService.ImportStatement(c.Request.Context(), c.Param("accountId"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"statement": dto.ToStatementResponse(statement, len(lines))})
}
