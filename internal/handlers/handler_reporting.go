package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: rs}
	reports := rg.Group("/trust/reports")
	reports.GET("/client-ledger", h.clientLedgerReport)
	reports.GET("/transaction-register", h.transactionRegister)
}

// reportFiltersFromQuery parses the shared report filter query parameters.
// Returns false after writing a 400 when a date fails to parse.
func reportFiltersFromQuery(c *gin.Context) (domain.ReportFilters, bool) {
	filters := domain.ReportFilters{
		TrustAccountID:  c.Query("trustAccountId"),
		ClientLedgerID:  c.Query("clientLedgerId"),
		TransactionType: domain.TrustTransactionType(c.Query("transactionType")),
		IncludeVoided:   c.Query("includeVoided") == "true",
	}

	var valid bool
	if filters.StartDate, valid = parseDateQuery(c, "startDate"); !valid {
		return filters, false
	}
	if filters.EndDate, valid = parseDateQuery(c, "endDate"); !valid {
		return filters, false
	}
	return filters, true
}

// clientLedgerReport godoc
// @Summary Client ledger report
// @Description Generates a per-ledger report with opening balances, chronological rows, running balances, and closing balances
// @Tags reports
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param trustAccountId query string false "Filter by trust account"
// @Param clientLedgerId query string false "Filter by client ledger"
// @Param startDate query string false "Period start (YYYY-MM-DD)"
// @Param endDate query string false "Period end (YYYY-MM-DD)"
// @Param includeVoided query bool false "Include voided transactions"
// @Success 200 {object} domain.ClientLedgerReport
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/reports/client-ledger [get]
func (h *reportingHandler) clientLedgerReport(c *gin.Context) {
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

	filters, valid := reportFiltersFromQuery(c)
	if !valid {
		return
	}

	report, err := h.reportingService.ClientLedgerReport(c.Request.Context(), orgID, userID, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// transactionRegister godoc
// @Summary Transaction register report
// @Description Generates a flat chronological register with debit and credit columns and totals
// @Tags reports
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param trustAccountId query string false "Filter by trust account"
// @Param clientLedgerId query string false "Filter by client ledger"
// @Param transactionType query string false "Filter by type"
// @Param startDate query string false "Period start (YYYY-MM-DD)"
// @Param endDate query string false "Period end (YYYY-MM-DD)"
// @Param includeVoided query bool false "Include voided transactions"
// @Success 200 {object} domain.TransactionRegister
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /trust/reports/transaction-register [get]
func (h *reportingHandler) transactionRegister(c *gin.Context) {
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

	filters, valid := reportFiltersFromQuery(c)
	if !valid {
		return
	}

	report, err := h.reportingService.TransactionRegister(c.Request.Context(), orgID, userID, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
