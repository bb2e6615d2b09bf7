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
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/core/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockTrustAccountRepository
	mockAuditRepo   *MockAuditRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.TransactionSvcFacade

	orgID     string
	accountID string
	ledgerID  string
	userID    string
	account   domain.TrustAccount
	ledger    domain.ClientTrustLedger
	audit     domain.AuditContext
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockAccountRepo = new(MockTrustAccountRepository)
	s.mockAuditRepo = new(MockAuditRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewTransactionService(s.mockTxnRepo, s.mockAccountRepo, s.mockAuditRepo, s.mockAuthorizer)

	s.orgID = uuid.NewString()
	s.accountID = uuid.NewString()
	s.ledgerID = uuid.NewString()
	s.userID = uuid.NewString()
	s.account = domain.TrustAccount{
		TrustAccountID: s.accountID,
		OrganizationID: s.orgID,
		AccountName:    "Firm IOLTA",
		Currency:       "USD",
		IsActive:       true,
	}
	s.ledger = domain.ClientTrustLedger{
		LedgerID:       s.ledgerID,
		TrustAccountID: s.accountID,
		ClientID:       uuid.NewString(),
		LedgerName:     "Acme Corp - Retainer",
		Currency:       "USD",
		Status:         domain.LedgerActive,
	}
	s.audit = domain.AuditContext{IPAddress: "203.0.113.7", UserAgent: "test-agent"}
}

func (s *TransactionServiceTestSuite) createRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		OrganizationID:  s.orgID,
		TrustAccountID:  s.accountID,
		ClientLedgerID:  s.ledgerID,
		TransactionType: domain.TxnDeposit,
		Amount:          decimal.NewFromInt(1500),
		Description:     "Retainer deposit",
		TransactionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	req := s.createRequest()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockAccountRepo.On("FindClientLedgerByID", mock.Anything, s.ledgerID).Return(&s.ledger, nil)
	s.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(txn domain.TrustTransaction) bool {
		return txn.Status == domain.TxnPending &&
			txn.Currency == "USD" &&
			txn.Amount.Equal(req.Amount) &&
			txn.CreatedBy == s.userID
	}), mock.MatchedBy(func(entry domain.TrustAuditLog) bool {
		return entry.EventType == domain.EventTxnCreated &&
			entry.IPAddress == s.audit.IPAddress &&
			entry.UserID == s.userID
	})).Return(nil)

	txn, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().NoError(err)
	s.Equal(domain.TxnPending, txn.Status)
	s.True(txn.RunningBalance.IsZero())
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	req := s.createRequest()
	req.Amount = decimal.NewFromInt(-5)
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	_, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_InactiveAccount() {
	req := s.createRequest()
	inactive := s.account
	inactive.IsActive = false
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&inactive, nil)

	_, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_CrossOrgAccountHidden() {
	req := s.createRequest()
	foreign := s.account
	foreign.OrganizationID = uuid.NewString()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&foreign, nil)

	_, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_LedgerOfOtherAccount() {
	req := s.createRequest()
	stray := s.ledger
	stray.TrustAccountID = uuid.NewString()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockAccountRepo.On("FindClientLedgerByID", mock.Anything, s.ledgerID).Return(&stray, nil)

	_, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_ClosedLedger() {
	req := s.createRequest()
	closed := s.ledger
	closed.Status = domain.LedgerClosed
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockAccountRepo.On("FindClientLedgerByID", mock.Anything, s.ledgerID).Return(&closed, nil)

	_, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_NonAdminForbidden() {
	req := s.createRequest()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(apperrors.ErrForbidden)

	_, err := s.service.CreateTransaction(context.Background(), req, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindTrustAccountByID", mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) pendingTransaction() *domain.TrustTransaction {
	return &domain.TrustTransaction{
		TransactionID:   uuid.NewString(),
		TrustAccountID:  s.accountID,
		ClientLedgerID:  s.ledgerID,
		TransactionType: domain.TxnDisbursement,
		Amount:          decimal.NewFromInt(400),
		Currency:        "USD",
		Status:          domain.TxnPending,
	}
}

func (s *TransactionServiceTestSuite) TestApproveTransaction_Success() {
	txn := s.pendingTransaction()
	approved := *txn
	approved.Status = domain.TxnApproved

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockTxnRepo.On("ApproveTransactionWithBalance", mock.Anything, txn.TransactionID, s.userID, mock.AnythingOfType("time.Time"), s.audit).Return(&approved, nil)

	result, err := s.service.ApproveTransaction(context.Background(), s.orgID, txn.TransactionID, s.userID, s.audit)

	s.Require().NoError(err)
	s.Equal(domain.TxnApproved, result.Status)
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestApproveTransaction_InsufficientFunds() {
	txn := s.pendingTransaction()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockTxnRepo.On("ApproveTransactionWithBalance", mock.Anything, txn.TransactionID, s.userID, mock.AnythingOfType("time.Time"), s.audit).Return(nil, apperrors.ErrInsufficientFunds)

	_, err := s.service.ApproveTransaction(context.Background(), s.orgID, txn.TransactionID, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (s *TransactionServiceTestSuite) TestApproveTransaction_NotPending() {
	txn := s.pendingTransaction()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockTxnRepo.On("ApproveTransactionWithBalance", mock.Anything, txn.TransactionID, s.userID, mock.AnythingOfType("time.Time"), s.audit).Return(nil, apperrors.ErrConflict)

	_, err := s.service.ApproveTransaction(context.Background(), s.orgID, txn.TransactionID, s.userID, s.audit)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (s *TransactionServiceTestSuite) TestVoidTransaction_RequiresReason() {
	_, err := s.service.VoidTransaction(context.Background(), s.orgID, uuid.NewString(), s.userID, "", s.audit)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockTxnRepo.AssertNotCalled(s.T(), "VoidTransactionWithBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestVoidTransaction_ReconciledRejected() {
	txn := s.pendingTransaction()
	txn.Status = domain.TxnApproved
	txn.IsReconciled = true

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockTxnRepo.On("VoidTransactionWithBalance", mock.Anything, txn.TransactionID, s.userID, "entered twice", mock.AnythingOfType("time.Time"), s.audit).Return(nil, apperrors.ErrConflict)

	_, err := s.service.VoidTransaction(context.Background(), s.orgID, txn.TransactionID, s.userID, "entered twice", s.audit)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (s *TransactionServiceTestSuite) TestVoidTransaction_Success() {
	txn := s.pendingTransaction()
	voided := *txn
	voided.Status = domain.TxnVoided
	voided.VoidReason = "wrong ledger"

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockTxnRepo.On("VoidTransactionWithBalance", mock.Anything, txn.TransactionID, s.userID, "wrong ledger", mock.AnythingOfType("time.Time"), s.audit).Return(&voided, nil)

	result, err := s.service.VoidTransaction(context.Background(), s.orgID, txn.TransactionID, s.userID, "wrong ledger", s.audit)

	s.Require().NoError(err)
	s.Equal(domain.TxnVoided, result.Status)
}

func (s *TransactionServiceTestSuite) TestGetTransactionAuditTrail_ReturnsEntriesInOrder() {
	txn := s.pendingTransaction()
	txnID := txn.TransactionID
	entries := []domain.TrustAuditLog{
		{AuditID: uuid.NewString(), TransactionID: &txnID, EventType: domain.EventTxnCreated, UserID: s.userID},
		{AuditID: uuid.NewString(), TransactionID: &txnID, EventType: domain.EventTxnApproved, UserID: s.userID},
	}

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txnID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockAuditRepo.On("ListAuditLogsByTransaction", mock.Anything, txnID).Return(entries, nil)

	result, err := s.service.GetTransactionAuditTrail(context.Background(), s.orgID, txnID, s.userID)

	s.Require().NoError(err)
	s.Require().Len(result, 2)
	s.Equal(domain.EventTxnCreated, result[0].EventType)
	s.Equal(domain.EventTxnApproved, result[1].EventType)
}

func (s *TransactionServiceTestSuite) TestGetTransactionAuditTrail_CrossOrgHidden() {
	txn := s.pendingTransaction()
	foreign := s.account
	foreign.OrganizationID = uuid.NewString()

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)
	s.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&foreign, nil)

	_, err := s.service.GetTransactionAuditTrail(context.Background(), s.orgID, txn.TransactionID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.mockAuditRepo.AssertNotCalled(s.T(), "ListAuditLogsByTransaction", mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestListTransactions_DefaultsLimit() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)
	s.mockTxnRepo.On("ListTransactionsByOrganization", mock.Anything, s.orgID, mock.MatchedBy(func(f portsrepo.ListTransactionsFilters) bool {
		return f.Limit == 50
	})).Return([]domain.TrustTransaction{}, nil, nil)

	resp, err := s.service.ListTransactions(context.Background(), s.orgID, s.userID, dto.ListTransactionsParams{Limit: 0})

	s.Require().NoError(err)
	s.Empty(resp.Transactions)
	s.Nil(resp.NextToken)
}

func (s *TransactionServiceTestSuite) TestListTransactions_CapsLimit() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)
	s.mockTxnRepo.On("ListTransactionsByOrganization", mock.Anything, s.orgID, mock.MatchedBy(func(f portsrepo.ListTransactionsFilters) bool {
		return f.Limit == 50
	})).Return([]domain.TrustTransaction{}, nil, nil)

	_, err := s.service.ListTransactions(context.Background(), s.orgID, s.userID, dto.ListTransactionsParams{Limit: 500})

	s.Require().NoError(err)
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
