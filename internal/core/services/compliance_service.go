package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	dormancyMonths           = 12
	defaultReconFrequencyDay = 30
)

// jurisdictionRules holds the per-jurisdiction compliance parameters the
// check evaluates trust accounts against. Unknown jurisdictions fall back
// to the default frequency with no currency constraint.
var jurisdictionRules = map[string]domain.JurisdictionRule{
	"CA":     {Code: "CA", Name: "California", Currency: "USD", ReconciliationFrequencyDay: 30, RegulatoryBody: "State Bar of California"},
	"NY":     {Code: "NY", Name: "New York", Currency: "USD", ReconciliationFrequencyDay: 30, RegulatoryBody: "New York State Bar"},
	"TX":     {Code: "TX", Name: "Texas", Currency: "USD", ReconciliationFrequencyDay: 30, RegulatoryBody: "State Bar of Texas"},
	"FL":     {Code: "FL", Name: "Florida", Currency: "USD", ReconciliationFrequencyDay: 30, RegulatoryBody: "The Florida Bar"},
	"UK-SRA": {Code: "UK-SRA", Name: "England and Wales", Currency: "GBP", ReconciliationFrequencyDay: 35, RegulatoryBody: "Solicitors Regulation Authority"},
	"ON":     {Code: "ON", Name: "Ontario", Currency: "CAD", ReconciliationFrequencyDay: 30, RegulatoryBody: "Law Society of Ontario"},
}

// ComplianceService evaluates trust balances against the jurisdictional rule
// set. The check is stateless and idempotent: alerts are computed fresh on
// every run and never persisted.
type ComplianceService struct {
	accountRepo portsrepo.TrustAccountRepository
	authorizer  portssvc.OrganizationAuthorizerSvc
}

// NewComplianceService creates a new ComplianceService.
func NewComplianceService(ar portsrepo.TrustAccountRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.ComplianceSvcFacade {
	return &ComplianceService{accountRepo: ar, authorizer: authorizer}
}

var _ portssvc.ComplianceSvcFacade = (*ComplianceService)(nil)

// RunComplianceCheck scans the organization's active trust accounts and
// ledgers and reports every rule violation found.
func (s *ComplianceService) RunComplianceCheck(ctx context.Context, organizationID, userID string) ([]domain.ComplianceAlert, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListTrustAccountsByOrganization(ctx, organizationID, true)
	if err != nil {
		logger.Error("Failed to list trust accounts for compliance check", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to load trust accounts: %w", err)
	}

	// One query fetches every ledger in the organization; they are grouped
	// by account in memory rather than queried per account.
	allLedgers, err := s.accountRepo.ListClientLedgersByOrganization(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to list client ledgers for compliance check", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to load client ledgers: %w", err)
	}
	ledgersByAccount := make(map[string][]domain.ClientTrustLedger)
	for _, l := range allLedgers {
		ledgersByAccount[l.TrustAccountID] = append(ledgersByAccount[l.TrustAccountID], l)
	}

	now := time.Now()
	alerts := []domain.ComplianceAlert{}

	for i := range accounts {
		account := &accounts[i]
		ledgers := ledgersByAccount[account.TrustAccountID]

		alerts = append(alerts, checkLedgers(now, ledgers)...)
		alerts = append(alerts, checkAccount(now, account, ledgers)...)
	}

	logger.Info("Compliance check finished", slog.String("organization_id", organizationID), slog.Int("alert_count", len(alerts)))
	return alerts, nil
}

func checkLedgers(now time.Time, ledgers []domain.ClientTrustLedger) []domain.ComplianceAlert {
	var alerts []domain.ComplianceAlert
	dormancyCutoff := now.AddDate(0, -dormancyMonths, 0)

	for i := range ledgers {
		l := &ledgers[i]

		if l.Balance.IsNegative() {
			alerts = append(alerts, domain.ComplianceAlert{
				Type:       domain.AlertNegativeBalance,
				Severity:   domain.SeverityCritical,
				Message:    fmt.Sprintf("client ledger %q has a negative balance of %s", l.LedgerName, l.Balance.String()),
				EntityID:   l.LedgerID,
				EntityType: domain.EntityLedger,
				Details:    map[string]any{"balance": l.Balance.String(), "clientID": l.ClientID},
			})
		}

		if l.Status == domain.LedgerClosed || !l.Balance.IsPositive() {
			continue
		}
		lastActivity := l.CreatedAt
		if l.LastActivityAt != nil {
			lastActivity = *l.LastActivityAt
		}
		if lastActivity.Before(dormancyCutoff) {
			alerts = append(alerts, domain.ComplianceAlert{
				Type:       domain.AlertDormant,
				Severity:   domain.SeverityWarning,
				Message:    fmt.Sprintf("client ledger %q holds %s with no activity since %s", l.LedgerName, l.Balance.String(), lastActivity.Format("2006-01-02")),
				EntityID:   l.LedgerID,
				EntityType: domain.EntityLedger,
				Details:    map[string]any{"balance": l.Balance.String(), "lastActivityAt": lastActivity},
			})
		}
	}
	return alerts
}

func checkAccount(now time.Time, account *domain.TrustAccount, ledgers []domain.ClientTrustLedger) []domain.ComplianceAlert {
	var alerts []domain.ComplianceAlert

	ledgersTotal := decimal.Zero
	for i := range ledgers {
		ledgersTotal = ledgersTotal.Add(ledgers[i].Balance)
	}
	diff := account.CurrentBalance.Sub(ledgersTotal)
	if diff.Abs().GreaterThan(domain.BalanceTolerance) {
		alerts = append(alerts, domain.ComplianceAlert{
			Type:       domain.AlertCommingling,
			Severity:   domain.SeverityCritical,
			Message:    fmt.Sprintf("trust account %q balance %s does not equal the sum of client ledgers %s", account.AccountName, account.CurrentBalance.String(), ledgersTotal.String()),
			EntityID:   account.TrustAccountID,
			EntityType: domain.EntityAccount,
			Details:    map[string]any{"accountBalance": account.CurrentBalance.String(), "clientLedgersTotal": ledgersTotal.String(), "difference": diff.String()},
		})
	}

	rule, known := jurisdictionRules[account.Jurisdiction]
	frequency := defaultReconFrequencyDay
	if known && rule.ReconciliationFrequencyDay > 0 {
		frequency = rule.ReconciliationFrequencyDay
	}
	reconCutoff := now.AddDate(0, 0, -frequency)
	if account.LastReconciledDate == nil || account.LastReconciledDate.Before(reconCutoff) {
		msg := fmt.Sprintf("trust account %q has never been reconciled", account.AccountName)
		details := map[string]any{"frequencyDays": frequency}
		if account.LastReconciledDate != nil {
			msg = fmt.Sprintf("trust account %q was last reconciled on %s, outside the %d-day requirement", account.AccountName, account.LastReconciledDate.Format("2006-01-02"), frequency)
			details["lastReconciledDate"] = *account.LastReconciledDate
		}
		alerts = append(alerts, domain.ComplianceAlert{
			Type:       domain.AlertMissingReconciliation,
			Severity:   domain.SeverityWarning,
			Message:    msg,
			EntityID:   account.TrustAccountID,
			EntityType: domain.EntityAccount,
			Details:    details,
		})
	}

	if known && rule.Currency != "" && account.Currency != rule.Currency {
		alerts = append(alerts, domain.ComplianceAlert{
			Type:       domain.AlertCurrencyMismatch,
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("trust account %q is held in %s but jurisdiction %s expects %s", account.AccountName, account.Currency, rule.Code, rule.Currency),
			EntityID:   account.TrustAccountID,
			EntityType: domain.EntityAccount,
			Details:    map[string]any{"accountCurrency": account.Currency, "jurisdictionCurrency": rule.Currency},
		})
	}

	return alerts
}
