package services

import (
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/pkg/config"
)

// NewServiceContainer wires all services with their dependencies. The
// organization service is constructed first: it is the membership gate every
// trust service authorizes through.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Organization = NewOrganizationService(repos.OrganizationRepo)
	authorizer := container.Organization.(portssvc.OrganizationAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, container.User)
	container.TrustAccount = NewTrustAccountService(repos.TrustAccountRepo, authorizer)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.TrustAccountRepo, repos.AuditRepo, authorizer)
	container.Reconciliation = NewReconciliationService(repos.ReconciliationRepo, repos.TransactionRepo, repos.TrustAccountRepo, repos.AuditRepo, authorizer)
	container.Statement = NewStatementService(repos.StatementRepo, repos.TransactionRepo, repos.TrustAccountRepo, authorizer)
	container.Reporting = NewReportingService(repos.ReportingRepo, authorizer)
	container.Compliance = NewComplianceService(repos.TrustAccountRepo, authorizer)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.OrganizationSvcFacade   = (*OrganizationService)(nil)
	_ portssvc.TransactionSvcFacade    = (*TransactionService)(nil)
	_ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)
	_ portssvc.StatementSvcFacade      = (*StatementService)(nil)
)
