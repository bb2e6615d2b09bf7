package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// matchWindowDays bounds how far a statement line date may sit from a
// transaction date and still be considered the same item.
const matchWindowDays = 5

// StatementService imports bank statements and matches their lines against
// the trust transaction ledger. Matching is conservative: only a unique,
// exact-amount candidate is assigned; ties are reported, never guessed.
type StatementService struct {
	stmtRepo    portsrepo.StatementRepository
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.TrustAccountRepository
	authorizer  portssvc.OrganizationAuthorizerSvc
}

// NewStatementService creates a new StatementService.
func NewStatementService(sr portsrepo.StatementRepository, tr portsrepo.TransactionRepository, ar portsrepo.TrustAccountRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.StatementSvcFacade {
	return &StatementService{stmtRepo: sr, txnRepo: tr, accountRepo: ar, authorizer: authorizer}
}

var _ portssvc.StatementSvcFacade = (*StatementService)(nil)

// ImportStatement persists a bank statement header and its lines.
func (s *StatementService) ImportStatement(ctx context.Context, trustAccountID string, req dto.ImportStatementRequest, userID string) (*domain.BankStatement, []domain.BankStatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, nil, err
	}
	if _, err := s.findAccountInOrg(ctx, req.OrganizationID, trustAccountID); err != nil {
		return nil, nil, err
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, nil, fmt.Errorf("%w: period end must be after period start", apperrors.ErrValidation)
	}

	now := time.Now()
	statement := domain.BankStatement{
		StatementID:    uuid.NewString(),
		TrustAccountID: trustAccountID,
		StatementDate:  req.StatementDate,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		OpeningBalance: req.OpeningBalance,
		ClosingBalance: req.ClosingBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	lines := make([]domain.BankStatementLine, len(req.Lines))
	for i, in := range req.Lines {
		if !in.Amount.IsPositive() {
			return nil, nil, fmt.Errorf("%w: statement line amounts must be positive", apperrors.ErrValidation)
		}
		lines[i] = domain.BankStatementLine{
			LineID:          uuid.NewString(),
			StatementID:     statement.StatementID,
			TransactionDate: in.TransactionDate,
			Description:     in.Description,
			Amount:          in.Amount,
			Direction:       in.Direction,
			CheckNumber:     in.CheckNumber,
		}
	}

	if err := s.stmtRepo.SaveStatement(ctx, statement, lines); err != nil {
		logger.Error("Failed to save bank statement", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, nil, fmt.Errorf("failed to import statement: %w", err)
	}

	logger.Info("Bank statement imported", slog.String("statement_id", statement.StatementID), slog.String("trust_account_id", trustAccountID), slog.Int("line_count", len(lines)))
	return &statement, lines, nil
}

// AutoMatchStatement matches unmatched statement lines against approved,
// unreconciled transactions of the account. A line matches a transaction when
// the amounts are exactly equal, the direction is compatible with the
// transaction type and the dates sit within the match window. A matching
// check number settles the choice outright; otherwise candidates are ranked
// by date distance and only a unique best candidate is assigned.
func (s *StatementService) AutoMatchStatement(ctx context.Context, organizationID, statementID, userID string) (*domain.MatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	statement, err := s.stmtRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bank statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		}
		return nil, err
	}
	if _, err := s.findAccountInOrg(ctx, organizationID, statement.TrustAccountID); err != nil {
		return nil, err
	}

	lines, err := s.stmtRepo.ListStatementLines(ctx, statementID)
	if err != nil {
		logger.Error("Failed to list statement lines", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to load statement lines: %w", err)
	}

	windowStart := statement.PeriodStart.AddDate(0, 0, -matchWindowDays)
	windowEnd := statement.PeriodEnd.AddDate(0, 0, matchWindowDays)
	candidates, err := s.txnRepo.ListMatchCandidates(ctx, statement.TrustAccountID, windowStart, windowEnd)
	if err != nil {
		logger.Error("Failed to list match candidates", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to load match candidates: %w", err)
	}

	used := make(map[string]bool)
	result := &domain.MatchResult{}

	for i := range lines {
		line := &lines[i]
		if line.MatchedTransactionID != nil {
			continue
		}

		best, tied := pickCandidate(line, candidates, used)
		switch {
		case tied:
			result.Ambiguous++
		case best == nil:
			result.Unmatched++
		default:
			confidence := matchConfidence(line.TransactionDate, best)
			if err := s.stmtRepo.AssignLineMatch(ctx, line.LineID, best.TransactionID, confidence); err != nil {
				logger.Error("Failed to persist line match", slog.String("error", err.Error()), slog.String("line_id", line.LineID), slog.String("transaction_id", best.TransactionID))
				return nil, fmt.Errorf("failed to assign match: %w", err)
			}
			used[best.TransactionID] = true
			result.Matched++
		}
	}

	logger.Info("Statement auto-match finished", slog.String("statement_id", statementID), slog.Int("matched", result.Matched), slog.Int("unmatched", result.Unmatched), slog.Int("ambiguous", result.Ambiguous))
	return result, nil
}

// pickCandidate returns the unique best candidate for a line, or tied=true
// when two or more candidates rank equally.
func pickCandidate(line *domain.BankStatementLine, candidates []domain.TrustTransaction, used map[string]bool) (best *domain.TrustTransaction, tied bool) {
	var eligible []*domain.TrustTransaction
	for i := range candidates {
		t := &candidates[i]
		if used[t.TransactionID] {
			continue
		}
		if !t.Amount.Equal(line.Amount) {
			continue
		}
		if directionOf(t.TransactionType) != line.Direction {
			continue
		}
		if dateDistanceDays(line.TransactionDate, t.TransactionDate) > matchWindowDays {
			continue
		}
		eligible = append(eligible, t)
	}
	if len(eligible) == 0 {
		return nil, false
	}

	// A matching check number identifies the item beyond doubt.
	if line.CheckNumber != "" {
		var withCheck []*domain.TrustTransaction
		for _, t := range eligible {
			if t.CheckNumber == line.CheckNumber {
				withCheck = append(withCheck, t)
			}
		}
		if len(withCheck) == 1 {
			return withCheck[0], false
		}
	}

	bestDist := matchWindowDays + 1
	count := 0
	for _, t := range eligible {
		d := dateDistanceDays(line.TransactionDate, t.TransactionDate)
		if d < bestDist {
			bestDist = d
			best = t
			count = 1
		} else if d == bestDist {
			count++
		}
	}
	if count > 1 {
		return nil, true
	}
	return best, false
}

// matchConfidence scores a match by date proximity: 1.0 for the same day,
// falling linearly toward zero at the edge of the window.
func matchConfidence(lineDate time.Time, t *domain.TrustTransaction) decimal.Decimal {
	dist := dateDistanceDays(lineDate, t.TransactionDate)
	return decimal.NewFromInt(1).Sub(
		decimal.NewFromInt(int64(dist)).Div(decimal.NewFromInt(matchWindowDays + 1)),
	).Round(4)
}

func directionOf(t domain.TrustTransactionType) domain.StatementLineDirection {
	if t.IsDebit() {
		return domain.LineDebit
	}
	return domain.LineCredit
}

func dateDistanceDays(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

func (s *StatementService) findAccountInOrg(ctx context.Context, organizationID, trustAccountID string) (*domain.TrustAccount, error) {
	account, err := s.accountRepo.FindTrustAccountByID(ctx, trustAccountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}
