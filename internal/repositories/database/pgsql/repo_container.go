package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs all pgx-backed repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:           newPgxUserRepository(pool),
		OrganizationRepo:   newPgxOrganizationRepository(pool),
		TrustAccountRepo:   newPgxTrustAccountRepository(pool),
		TransactionRepo:    newPgxTransactionRepository(pool),
		ReconciliationRepo: newPgxReconciliationRepository(pool),
		StatementRepo:      newPgxStatementRepository(pool),
		ReportingRepo:      newPgxReportingRepository(pool),
		AuditRepo:          newPgxAuditRepository(pool),
	}
}
