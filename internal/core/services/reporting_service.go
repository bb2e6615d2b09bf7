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

// ReportingService assembles the read-only trust reports. The repository
// returns rows in a deterministic order, so repeated calls over unchanged
// data produce identical reports.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepository
	authorizer    portssvc.OrganizationAuthorizerSvc
}

// NewReportingService creates a new ReportingService.
func NewReportingService(rr portsrepo.ReportingRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.ReportingSvcFacade {
	return &ReportingService{reportingRepo: rr, authorizer: authorizer}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// ClientLedgerReport builds the per-ledger report: opening balance,
// chronological rows with running balances, closing balance.
func (s *ReportingService) ClientLedgerReport(ctx context.Context, organizationID, userID string, filters domain.ReportFilters) (*domain.ClientLedgerReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	sections, err := s.reportingRepo.GetClientLedgerData(ctx, organizationID, filters)
	if err != nil {
		logger.Error("Failed to build client ledger report", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to build client ledger report: %w", err)
	}
	if sections == nil {
		sections = []domain.LedgerReportSection{}
	}

	return &domain.ClientLedgerReport{
		OrganizationID: organizationID,
		GeneratedAt:    time.Now(),
		Sections:       sections,
	}, nil
}

// TransactionRegister builds the flat chronological register with debit and
// credit totals.
func (s *ReportingService) TransactionRegister(ctx context.Context, organizationID, userID string, filters domain.ReportFilters) (*domain.TransactionRegister, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTransactionRegisterData(ctx, organizationID, filters)
	if err != nil {
		logger.Error("Failed to build transaction register", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to build transaction register: %w", err)
	}
	if rows == nil {
		rows = []domain.RegisterRow{}
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, r := range rows {
		totalDebits = totalDebits.Add(r.Debit)
		totalCredits = totalCredits.Add(r.Credit)
	}

	return &domain.TransactionRegister{
		OrganizationID: organizationID,
		GeneratedAt:    time.Now(),
		Rows:           rows,
		TotalDebits:    totalDebits,
		TotalCredits:   totalCredits,
		NetMovement:    totalCredits.Sub(totalDebits),
	}, nil
}
