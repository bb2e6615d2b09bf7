package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/core/services"
)

type ComplianceServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockTrustAccountRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.ComplianceSvcFacade

	orgID  string
	userID string
}

func (s *ComplianceServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockTrustAccountRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewComplianceService(s.mockAccountRepo, s.mockAuthorizer)

	s.orgID = uuid.NewString()
	s.userID = uuid.NewString()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)
}

// healthyAccount is freshly reconciled, balanced against its ledgers and held
// in the jurisdiction's currency, so it produces no alerts on its own.
func (s *ComplianceServiceTestSuite) healthyAccount(balance decimal.Decimal) domain.TrustAccount {
	reconciled := time.Now().AddDate(0, 0, -5)
	return domain.TrustAccount{
		TrustAccountID: uuid.NewString(),
		OrganizationID: s.orgID,
		AccountName:    "Firm IOLTA",
		Currency:       "USD",
		Jurisdiction:   "CA",
		CurrentBalance: balance,
		IsActive:       true,

		LastReconciledDate: &reconciled,
	}
}

// expectAccounts stubs the account listing and the single org-wide ledger
// query, stamping each ledger with its account ID the way the repository does.
func (s *ComplianceServiceTestSuite) expectAccounts(accounts []domain.TrustAccount, ledgersByAccount map[string][]domain.ClientTrustLedger) {
	s.mockAccountRepo.On("ListTrustAccountsByOrganization", mock.Anything, s.orgID, true).Return(accounts, nil)
	all := []domain.ClientTrustLedger{}
	for accountID, ledgers := range ledgersByAccount {
		for _, l := range ledgers {
			l.TrustAccountID = accountID
			all = append(all, l)
		}
	}
	s.mockAccountRepo.On("ListClientLedgersByOrganization", mock.Anything, s.orgID).Return(all, nil)
}

func alertsOfType(alerts []domain.ComplianceAlert, t domain.ComplianceAlertType) []domain.ComplianceAlert {
	var out []domain.ComplianceAlert
	for _, a := range alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func (s *ComplianceServiceTestSuite) TestNegativeLedgerBalanceIsCritical() {
	account := s.healthyAccount(decimal.NewFromInt(-50))
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), LedgerName: "Acme", Balance: decimal.NewFromInt(-50), Status: domain.LedgerActive, AuditFields: domain.AuditFields{CreatedAt: time.Now()}},
	}
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: ledgers})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	negative := alertsOfType(alerts, domain.AlertNegativeBalance)
	s.Require().Len(negative, 1)
	s.Equal(domain.SeverityCritical, negative[0].Severity)
	s.Equal(domain.EntityLedger, negative[0].EntityType)
}

func (s *ComplianceServiceTestSuite) TestLedgerSumMismatchIsCommingling() {
	account := s.healthyAccount(decimal.NewFromInt(1000))
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), LedgerName: "Acme", Balance: decimal.NewFromInt(900), Status: domain.LedgerActive, AuditFields: domain.AuditFields{CreatedAt: time.Now()}},
	}
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: ledgers})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	commingling := alertsOfType(alerts, domain.AlertCommingling)
	s.Require().Len(commingling, 1)
	s.Equal(domain.SeverityCritical, commingling[0].Severity)
	s.Equal(account.TrustAccountID, commingling[0].EntityID)
}

func (s *ComplianceServiceTestSuite) TestDormantLedgerIsWarning() {
	account := s.healthyAccount(decimal.NewFromInt(500))
	stale := time.Now().AddDate(0, -18, 0)
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), LedgerName: "Old Matter", Balance: decimal.NewFromInt(500), Status: domain.LedgerActive, LastActivityAt: &stale, AuditFields: domain.AuditFields{CreatedAt: stale}},
	}
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: ledgers})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	dormant := alertsOfType(alerts, domain.AlertDormant)
	s.Require().Len(dormant, 1)
	s.Equal(domain.SeverityWarning, dormant[0].Severity)
}

func (s *ComplianceServiceTestSuite) TestClosedLedgerNeverDormant() {
	account := s.healthyAccount(decimal.Zero)
	stale := time.Now().AddDate(0, -18, 0)
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), LedgerName: "Closed Matter", Balance: decimal.Zero, Status: domain.LedgerClosed, LastActivityAt: &stale, AuditFields: domain.AuditFields{CreatedAt: stale}},
	}
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: ledgers})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	s.Empty(alertsOfType(alerts, domain.AlertDormant))
}

func (s *ComplianceServiceTestSuite) TestNeverReconciledIsWarning() {
	account := s.healthyAccount(decimal.Zero)
	account.LastReconciledDate = nil
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: {}})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	missing := alertsOfType(alerts, domain.AlertMissingReconciliation)
	s.Require().Len(missing, 1)
	s.Contains(missing[0].Message, "never been reconciled")
}

func (s *ComplianceServiceTestSuite) TestStaleReconciliationIsWarning() {
	account := s.healthyAccount(decimal.Zero)
	stale := time.Now().AddDate(0, 0, -45)
	account.LastReconciledDate = &stale
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: {}})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	missing := alertsOfType(alerts, domain.AlertMissingReconciliation)
	s.Require().Len(missing, 1)
	s.Equal(domain.SeverityWarning, missing[0].Severity)
}

func (s *ComplianceServiceTestSuite) TestCurrencyMismatchAgainstJurisdiction() {
	account := s.healthyAccount(decimal.Zero)
	account.Currency = "EUR"
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: {}})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	mismatch := alertsOfType(alerts, domain.AlertCurrencyMismatch)
	s.Require().Len(mismatch, 1)
	s.Equal(domain.SeverityWarning, mismatch[0].Severity)
}

func (s *ComplianceServiceTestSuite) TestHealthyOrganizationProducesNoAlerts() {
	account := s.healthyAccount(decimal.NewFromInt(1000))
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), LedgerName: "Acme", Balance: decimal.NewFromInt(1000), Status: domain.LedgerActive, AuditFields: domain.AuditFields{CreatedAt: time.Now()}},
	}
	s.expectAccounts([]domain.TrustAccount{account}, map[string][]domain.ClientTrustLedger{account.TrustAccountID: ledgers})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	s.Empty(alerts)
}

func (s *ComplianceServiceTestSuite) TestLedgersGroupedPerAccountFromOneQuery() {
	// Two accounts, one mismatched: the single org-wide ledger query must be
	// split per account so only the mismatched one trips the commingling rule.
	balanced := s.healthyAccount(decimal.NewFromInt(1000))
	mismatched := s.healthyAccount(decimal.NewFromInt(700))
	s.expectAccounts([]domain.TrustAccount{balanced, mismatched}, map[string][]domain.ClientTrustLedger{
		balanced.TrustAccountID: {
			{LedgerID: uuid.NewString(), LedgerName: "Acme", Balance: decimal.NewFromInt(1000), Status: domain.LedgerActive, AuditFields: domain.AuditFields{CreatedAt: time.Now()}},
		},
		mismatched.TrustAccountID: {
			{LedgerID: uuid.NewString(), LedgerName: "Beta", Balance: decimal.NewFromInt(500), Status: domain.LedgerActive, AuditFields: domain.AuditFields{CreatedAt: time.Now()}},
		},
	})

	alerts, err := s.service.RunComplianceCheck(context.Background(), s.orgID, s.userID)

	s.Require().NoError(err)
	commingling := alertsOfType(alerts, domain.AlertCommingling)
	s.Require().Len(commingling, 1)
	s.Equal(mismatched.TrustAccountID, commingling[0].EntityID)
	s.mockAccountRepo.AssertNotCalled(s.T(), "ListClientLedgersByAccount", mock.Anything, mock.Anything)
}

func (s *ComplianceServiceTestSuite) TestGateFailurePropagates() {
	otherOrg := uuid.NewString()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, otherOrg).Return(apperrors.ErrNotFound)

	_, err := s.service.RunComplianceCheck(context.Background(), otherOrg, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.mockAccountRepo.AssertNotCalled(s.T(), "ListTrustAccountsByOrganization", mock.Anything, mock.Anything, mock.Anything)
}

func TestComplianceService(t *testing.T) {
	suite.Run(t, new(ComplianceServiceTestSuite))
}
