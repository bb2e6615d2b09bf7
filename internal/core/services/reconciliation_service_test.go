package services_test

import (
	"context"
	"fmt"
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
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo   *MockReconciliationRepository
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockTrustAccountRepository
	mockAuditRepo   *MockAuditRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.ReconciliationSvcFacade

	orgID       string
	accountID   string
	userID      string
	account     domain.TrustAccount
	periodStart time.Time
	periodEnd   time.Time
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.mockReconRepo = new(MockReconciliationRepository)
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockAccountRepo = new(MockTrustAccountRepository)
	s.mockAuditRepo = new(MockAuditRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewReconciliationService(s.mockReconRepo, s.mockTxnRepo, s.mockAccountRepo, s.mockAuditRepo, s.mockAuthorizer)

	s.orgID = uuid.NewString()
	s.accountID = uuid.NewString()
	s.userID = uuid.NewString()
	s.account = domain.TrustAccount{
		TrustAccountID: s.accountID,
		OrganizationID: s.orgID,
		AccountName:    "Firm IOLTA",
		Currency:       "USD",
		CurrentBalance: decimal.NewFromInt(10000),
		IsActive:       true,
	}
	s.periodStart = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s.periodEnd = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
}

func (s *ReconciliationServiceTestSuite) startRequest(bankBalance decimal.Decimal) dto.StartReconciliationRequest {
	return dto.StartReconciliationRequest{
		OrganizationID: s.orgID,
		PeriodStart:    s.periodStart,
		PeriodEnd:      s.periodEnd,
		BankBalance:    bankBalance,
	}
}

func (s *ReconciliationServiceTestSuite) TestStartReconciliation_Balanced() {
	// Ledger balance 10000; outstanding deposit 500 and outstanding check 300
	// against a bank balance of 9800: 9800 + 500 - 300 = 10000, variance zero.
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), Balance: decimal.NewFromInt(6000)},
		{LedgerID: uuid.NewString(), Balance: decimal.NewFromInt(4000)},
	}
	periodTxns := []domain.TrustTransaction{
		{TransactionID: uuid.NewString(), TransactionType: domain.TxnDeposit, Amount: decimal.NewFromInt(500)},
		{TransactionID: uuid.NewString(), TransactionType: domain.TxnDisbursement, Amount: decimal.NewFromInt(300)},
		{TransactionID: uuid.NewString(), TransactionType: domain.TxnDeposit, Amount: decimal.NewFromInt(900), IsReconciled: true},
	}

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockAccountRepo.On("ListClientLedgersByAccount", mock.Anything, s.accountID).Return(ledgers, nil)
	s.mockTxnRepo.On("ListForReconciliation", mock.Anything, s.accountID, s.periodStart, s.periodEnd).Return(periodTxns, nil)
	s.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.AnythingOfType("domain.TrustReconciliation")).Return(nil)
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.AnythingOfType("domain.TrustAuditLog")).Return(nil)

	recon, err := s.service.StartReconciliation(context.Background(), s.accountID, s.startRequest(decimal.NewFromInt(9800)), s.userID)

	s.Require().NoError(err)
	s.Equal(domain.ReconDraft, recon.Status)
	s.True(recon.OutstandingDeposits.Equal(decimal.NewFromInt(500)))
	s.True(recon.OutstandingChecks.Equal(decimal.NewFromInt(300)))
	s.True(recon.AdjustedBankBalance.Equal(decimal.NewFromInt(10000)))
	s.True(recon.Variance.IsZero())
	s.True(recon.IsBalanced)
}

func (s *ReconciliationServiceTestSuite) TestStartReconciliation_LedgerSumMismatchUnbalanced() {
	// Variance against the bank is zero but the client ledgers only sum to
	// 9000 against an account balance of 10000, so the three-way check fails.
	ledgers := []domain.ClientTrustLedger{
		{LedgerID: uuid.NewString(), Balance: decimal.NewFromInt(9000)},
	}

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
	s.mockAccountRepo.On("ListClientLedgersByAccount", mock.Anything, s.accountID).Return(ledgers, nil)
	s.mockTxnRepo.On("ListForReconciliation", mock.Anything, s.accountID, s.periodStart, s.periodEnd).Return([]domain.TrustTransaction{}, nil)
	s.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.AnythingOfType("domain.TrustReconciliation")).Return(nil)
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.AnythingOfType("domain.TrustAuditLog")).Return(nil)

	recon, err := s.service.StartReconciliation(context.Background(), s.accountID, s.startRequest(decimal.NewFromInt(10000)), s.userID)

	s.Require().NoError(err)
	s.True(recon.Variance.IsZero())
	s.False(recon.IsBalanced)
}

func (s *ReconciliationServiceTestSuite) TestStartReconciliation_InvalidPeriod() {
	req := s.startRequest(decimal.NewFromInt(10000))
	req.PeriodEnd = req.PeriodStart

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)

	_, err := s.service.StartReconciliation(context.Background(), s.accountID, req, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockReconRepo.AssertNotCalled(s.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) draftRecon() *domain.TrustReconciliation {
	return &domain.TrustReconciliation{
		ReconciliationID: uuid.NewString(),
		TrustAccountID:   s.accountID,
		Status:           domain.ReconDraft,
		Variance:         decimal.Zero,
		IsBalanced:       true,
	}
}

func (s *ReconciliationServiceTestSuite) expectFindRecon(recon *domain.TrustReconciliation) {
	s.mockReconRepo.On("FindReconciliationByID", mock.Anything, recon.ReconciliationID).Return(recon, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&s.account, nil)
}

func (s *ReconciliationServiceTestSuite) TestBeginReview_FromDraft() {
	recon := s.draftRecon()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)
	s.mockReconRepo.On("UpdateReconciliationStatus", mock.Anything, recon.ReconciliationID, domain.ReconDraft, domain.ReconInProgress, s.userID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := s.service.BeginReconciliationReview(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.ReconInProgress, result.Status)
}

func (s *ReconciliationServiceTestSuite) TestBeginReview_LeftDraftConcurrently() {
	// The service read the reconciliation while it was still draft, but by the
	// time the status write ran another admin had completed and approved it.
	// The guarded write refuses rather than pull the row back to in_progress.
	recon := s.draftRecon()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)
	s.mockReconRepo.On("UpdateReconciliationStatus", mock.Anything, recon.ReconciliationID, domain.ReconDraft, domain.ReconInProgress, s.userID, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: reconciliation is no longer draft", apperrors.ErrConflict))

	_, err := s.service.BeginReconciliationReview(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (s *ReconciliationServiceTestSuite) TestBeginReview_RejectsNonDraft() {
	recon := s.draftRecon()
	recon.Status = domain.ReconCompleted
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)

	_, err := s.service.BeginReconciliationReview(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (s *ReconciliationServiceTestSuite) TestComplete_FromDraft() {
	recon := s.draftRecon()
	completed := *recon
	completed.Status = domain.ReconCompleted
	completed.Notes = "all clear"

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)
	s.mockReconRepo.On("CompleteReconciliation", mock.Anything, *recon, "all clear", mock.AnythingOfType("time.Time")).Return(&completed, nil)
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.AnythingOfType("domain.TrustAuditLog")).Return(nil)

	result, err := s.service.CompleteReconciliation(context.Background(), s.orgID, recon.ReconciliationID, "all clear", s.userID)

	s.Require().NoError(err)
	s.Equal(domain.ReconCompleted, result.Status)
}

func (s *ReconciliationServiceTestSuite) TestComplete_RejectsApproved() {
	recon := s.draftRecon()
	recon.Status = domain.ReconApproved
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)

	_, err := s.service.CompleteReconciliation(context.Background(), s.orgID, recon.ReconciliationID, "", s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.mockReconRepo.AssertNotCalled(s.T(), "CompleteReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestApprove_RejectsNonCompleted() {
	recon := s.draftRecon()
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)

	_, err := s.service.ApproveReconciliation(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (s *ReconciliationServiceTestSuite) TestApprove_UnexplainedVarianceRejected() {
	recon := s.draftRecon()
	recon.Status = domain.ReconCompleted
	recon.Variance = decimal.NewFromFloat(12.34)
	recon.IsBalanced = false
	recon.Notes = ""

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)

	_, err := s.service.ApproveReconciliation(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrUnreconciledVariance)
	s.mockReconRepo.AssertNotCalled(s.T(), "ApproveReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestApprove_LedgerSumMismatchNamesDiscrepancy() {
	// Zero variance against the bank, but the client ledgers do not sum to the
	// account balance. The rejection names the mismatched totals instead of
	// reporting an unexplained variance of zero.
	recon := s.draftRecon()
	recon.Status = domain.ReconCompleted
	recon.Variance = decimal.Zero
	recon.IsBalanced = false
	recon.LedgerBalance = decimal.NewFromInt(10000)
	recon.ClientLedgersTotal = decimal.NewFromInt(9000)
	recon.Notes = ""

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)

	_, err := s.service.ApproveReconciliation(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrUnreconciledVariance)
	s.ErrorContains(err, "client ledgers total")
	s.mockReconRepo.AssertNotCalled(s.T(), "ApproveReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestApprove_ExplainedVarianceAccepted() {
	recon := s.draftRecon()
	recon.Status = domain.ReconCompleted
	recon.Variance = decimal.NewFromFloat(12.34)
	recon.IsBalanced = false
	recon.Notes = "bank fee posted after period close"
	approved := *recon
	approved.Status = domain.ReconApproved

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)
	s.expectFindRecon(recon)
	s.mockReconRepo.On("ApproveReconciliation", mock.Anything, recon.ReconciliationID, s.userID, mock.AnythingOfType("time.Time")).Return(&approved, nil)
	s.mockAuditRepo.On("SaveAuditLog", mock.Anything, mock.AnythingOfType("domain.TrustAuditLog")).Return(nil)

	result, err := s.service.ApproveReconciliation(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.ReconApproved, result.Status)
}

func (s *ReconciliationServiceTestSuite) TestGetReconciliation_CrossOrgHidden() {
	recon := s.draftRecon()
	foreign := s.account
	foreign.OrganizationID = uuid.NewString()

	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)
	s.mockReconRepo.On("FindReconciliationByID", mock.Anything, recon.ReconciliationID).Return(recon, nil)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, s.accountID).Return(&foreign, nil)

	_, err := s.service.GetReconciliation(context.Background(), s.orgID, recon.ReconciliationID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
