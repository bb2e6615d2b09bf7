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
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

type TrustAccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockTrustAccountRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.TrustAccountSvcFacade

	orgID  string
	userID string
}

func (s *TrustAccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockTrustAccountRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewTrustAccountService(s.mockAccountRepo, s.mockAuthorizer)

	s.orgID = uuid.NewString()
	s.userID = uuid.NewString()
}

func (s *TrustAccountServiceTestSuite) account(balance decimal.Decimal, active bool) *domain.TrustAccount {
	return &domain.TrustAccount{
		TrustAccountID: uuid.NewString(),
		OrganizationID: s.orgID,
		AccountName:    "Firm IOLTA",
		BankName:       "First National",
		AccountNumber:  "****4321",
		AccountType:    domain.AccountIOLTA,
		Currency:       "USD",
		Jurisdiction:   "CA",
		CurrentBalance: balance,
		IsActive:       active,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: s.userID,
		},
	}
}

func (s *TrustAccountServiceTestSuite) TestCreateTrustAccount_DefaultsTypeAndCurrency() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	req := dto.CreateTrustAccountRequest{
		OrganizationID: s.orgID,
		AccountName:    "Firm IOLTA",
		BankName:       "First National",
		AccountNumber:  "****4321",
		Jurisdiction:   "CA",
	}

	s.mockAccountRepo.On("SaveTrustAccount", mock.Anything, mock.MatchedBy(func(a domain.TrustAccount) bool {
		return a.AccountType == domain.AccountIOLTA &&
			a.Currency == "USD" &&
			a.CurrentBalance.IsZero() &&
			a.IsActive &&
			a.CreatedBy == s.userID
	})).Return(nil)

	account, err := s.service.CreateTrustAccount(context.Background(), req, s.userID)

	s.Require().NoError(err)
	s.Equal(req.AccountName, account.AccountName)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TrustAccountServiceTestSuite) TestCreateTrustAccount_NonAdminForbidden() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(apperrors.ErrForbidden)

	_, err := s.service.CreateTrustAccount(context.Background(), dto.CreateTrustAccountRequest{OrganizationID: s.orgID}, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveTrustAccount", mock.Anything, mock.Anything)
}

func (s *TrustAccountServiceTestSuite) TestGetTrustAccount_CrossOrgHidden() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID).Return(nil)

	account := s.account(decimal.Zero, true)
	account.OrganizationID = uuid.NewString()
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)

	_, err := s.service.GetTrustAccount(context.Background(), s.orgID, account.TrustAccountID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TrustAccountServiceTestSuite) TestUpdateTrustAccount_PartialFields() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	account := s.account(decimal.NewFromInt(100), true)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)

	newName := "Firm IOLTA (renamed)"
	s.mockAccountRepo.On("UpdateTrustAccountDetails", mock.Anything, mock.MatchedBy(func(a domain.TrustAccount) bool {
		return a.AccountName == newName && a.BankName == "First National" && a.LastUpdatedBy == s.userID
	})).Return(nil)

	updated, err := s.service.UpdateTrustAccount(context.Background(), account.TrustAccountID, dto.UpdateTrustAccountRequest{
		OrganizationID: s.orgID,
		AccountName:    &newName,
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(newName, updated.AccountName)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TrustAccountServiceTestSuite) TestUpdateTrustAccount_NoFieldsIsNoOp() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	account := s.account(decimal.Zero, true)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)

	updated, err := s.service.UpdateTrustAccount(context.Background(), account.TrustAccountID, dto.UpdateTrustAccountRequest{
		OrganizationID: s.orgID,
	}, s.userID)

	s.Require().NoError(err)
	s.Equal(account.AccountName, updated.AccountName)
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateTrustAccountDetails", mock.Anything, mock.Anything)
}

func (s *TrustAccountServiceTestSuite) TestDeactivate_NonZeroBalanceRejected() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	account := s.account(decimal.NewFromFloat(12.50), true)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)

	_, err := s.service.DeactivateTrustAccount(context.Background(), s.orgID, account.TrustAccountID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SetTrustAccountActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TrustAccountServiceTestSuite) TestDeactivate_ZeroBalanceSucceeds() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	account := s.account(decimal.Zero, true)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)
	s.mockAccountRepo.On("SetTrustAccountActive", mock.Anything, account.TrustAccountID, false, s.userID).Return(nil)

	updated, err := s.service.DeactivateTrustAccount(context.Background(), s.orgID, account.TrustAccountID, s.userID)

	s.Require().NoError(err)
	s.False(updated.IsActive)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TrustAccountServiceTestSuite) TestCreateClientLedger_InheritsAccountCurrency() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	account := s.account(decimal.Zero, true)
	account.Currency = "CAD"
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)

	s.mockAccountRepo.On("SaveClientLedger", mock.Anything, mock.MatchedBy(func(l domain.ClientTrustLedger) bool {
		return l.Currency == "CAD" && l.Balance.IsZero() && l.Status == domain.LedgerActive
	})).Return(nil)

	ledger, err := s.service.CreateClientLedger(context.Background(), account.TrustAccountID, dto.CreateClientLedgerRequest{
		OrganizationID: s.orgID,
		ClientID:       uuid.NewString(),
		LedgerName:     "Acme v. Doe",
	}, s.userID)

	s.Require().NoError(err)
	s.Equal("CAD", ledger.Currency)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TrustAccountServiceTestSuite) TestCreateClientLedger_InactiveAccountRejected() {
	s.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, s.userID, s.orgID, domain.RoleAdmin).Return(nil)

	account := s.account(decimal.Zero, false)
	s.mockAccountRepo.On("FindTrustAccountByID", mock.Anything, account.TrustAccountID).Return(account, nil)

	_, err := s.service.CreateClientLedger(context.Background(), account.TrustAccountID, dto.CreateClientLedgerRequest{
		OrganizationID: s.orgID,
		ClientID:       uuid.NewString(),
		LedgerName:     "Acme v. Doe",
	}, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveClientLedger", mock.Anything, mock.Anything)
}

func TestTrustAccountService(t *testing.T) {
	suite.Run(t, new(TrustAccountServiceTestSuite))
}
