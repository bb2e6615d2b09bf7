package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
)

// --- Mock OrganizationRepository ---

type MockOrganizationRepository struct {
	mock.Mock
}

var _ portsrepo.OrganizationRepository = (*MockOrganizationRepository)(nil)

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) AddMember(ctx context.Context, membership domain.OrganizationMember) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindMembership(ctx context.Context, userID, organizationID string) (*domain.OrganizationMember, error) {
	args := m.Called(ctx, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationMember), args.Error(1)
}

// --- Mock OrganizationAuthorizerSvc ---

type MockAuthorizer struct {
	mock.Mock
}

var _ portssvc.OrganizationAuthorizerSvc = (*MockAuthorizer)(nil)

func (m *MockAuthorizer) AuthorizeUserAction(ctx context.Context, userID, organizationID string, allowedRoles ...domain.OrganizationRole) error {
	callArgs := []interface{}{ctx, userID, organizationID}
	for _, r := range allowedRoles {
		callArgs = append(callArgs, r)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

// --- Mock TrustAccountRepository ---

type MockTrustAccountRepository struct {
	mock.Mock
}

var _ portsrepo.TrustAccountRepository = (*MockTrustAccountRepository)(nil)

func (m *MockTrustAccountRepository) SaveTrustAccount(ctx context.Context, account domain.TrustAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockTrustAccountRepository) FindTrustAccountByID(ctx context.Context, trustAccountID string) (*domain.TrustAccount, error) {
	args := m.Called(ctx, trustAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustAccount), args.Error(1)
}

func (m *MockTrustAccountRepository) ListTrustAccountsByOrganization(ctx context.Context, organizationID string, activeOnly bool) ([]domain.TrustAccount, error) {
	args := m.Called(ctx, organizationID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrustAccount), args.Error(1)
}

func (m *MockTrustAccountRepository) UpdateTrustAccountDetails(ctx context.Context, account domain.TrustAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockTrustAccountRepository) SetTrustAccountActive(ctx context.Context, trustAccountID string, active bool, updatedBy string) error {
	args := m.Called(ctx, trustAccountID, active, updatedBy)
	return args.Error(0)
}

func (m *MockTrustAccountRepository) SaveClientLedger(ctx context.Context, ledger domain.ClientTrustLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockTrustAccountRepository) FindClientLedgerByID(ctx context.Context, ledgerID string) (*domain.ClientTrustLedger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientTrustLedger), args.Error(1)
}

func (m *MockTrustAccountRepository) ListClientLedgersByAccount(ctx context.Context, trustAccountID string) ([]domain.ClientTrustLedger, error) {
	args := m.Called(ctx, trustAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientTrustLedger), args.Error(1)
}

func (m *MockTrustAccountRepository) ListClientLedgersByOrganization(ctx context.Context, organizationID string) ([]domain.ClientTrustLedger, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientTrustLedger), args.Error(1)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.TrustTransaction, audit domain.TrustAuditLog) error {
	args := m.Called(ctx, txn, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TrustTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByOrganization(ctx context.Context, organizationID string, filters portsrepo.ListTransactionsFilters) ([]domain.TrustTransaction, *string, error) {
	args := m.Called(ctx, organizationID, filters)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.TrustTransaction), nextToken, args.Error(2)
}

func (m *MockTransactionRepository) ApproveTransactionWithBalance(ctx context.Context, transactionID, approverID string, now time.Time, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	args := m.Called(ctx, transactionID, approverID, now, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustTransaction), args.Error(1)
}

func (m *MockTransactionRepository) VoidTransactionWithBalance(ctx context.Context, transactionID, voiderID, reason string, now time.Time, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	args := m.Called(ctx, transactionID, voiderID, reason, now, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListForReconciliation(ctx context.Context, trustAccountID string, periodStart, periodEnd time.Time) ([]domain.TrustTransaction, error) {
	args := m.Called(ctx, trustAccountID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrustTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListMatchCandidates(ctx context.Context, trustAccountID string, windowStart, windowEnd time.Time) ([]domain.TrustTransaction, error) {
	args := m.Called(ctx, trustAccountID, windowStart, windowEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrustTransaction), args.Error(1)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepository = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.TrustReconciliation) error {
	args := m.Called(ctx, recon)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.TrustReconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliationsByOrganization(ctx context.Context, organizationID string, filters portsrepo.ListReconciliationsFilters) ([]domain.TrustReconciliation, error) {
	args := m.Called(ctx, organizationID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrustReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) UpdateReconciliationStatus(ctx context.Context, reconciliationID string, from, to domain.ReconciliationStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, reconciliationID, from, to, updatedBy, now)
	return args.Error(0)
}

func (m *MockReconciliationRepository) CompleteReconciliation(ctx context.Context, recon domain.TrustReconciliation, notes string, now time.Time) (*domain.TrustReconciliation, error) {
	args := m.Called(ctx, recon, notes, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ApproveReconciliation(ctx context.Context, reconciliationID, approverID string, now time.Time) (*domain.TrustReconciliation, error) {
	args := m.Called(ctx, reconciliationID, approverID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustReconciliation), args.Error(1)
}

// --- Mock StatementRepository ---

type MockStatementRepository struct {
	mock.Mock
}

var _ portsrepo.StatementRepository = (*MockStatementRepository)(nil)

func (m *MockStatementRepository) SaveStatement(ctx context.Context, statement domain.BankStatement, lines []domain.BankStatementLine) error {
	args := m.Called(ctx, statement, lines)
	return args.Error(0)
}

func (m *MockStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatement), args.Error(1)
}

func (m *MockStatementRepository) ListStatementLines(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) ListStatementsByAccount(ctx context.Context, trustAccountID string, limit, offset int) ([]domain.BankStatement, error) {
	args := m.Called(ctx, trustAccountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatement), args.Error(1)
}

func (m *MockStatementRepository) AssignLineMatch(ctx context.Context, lineID, transactionID string, confidence decimal.Decimal) error {
	args := m.Called(ctx, lineID, transactionID, confidence)
	return args.Error(0)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepository = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) SaveAuditLog(ctx context.Context, entry domain.TrustAuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogsByTransaction(ctx context.Context, transactionID string) ([]domain.TrustAuditLog, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrustAuditLog), args.Error(1)
}
