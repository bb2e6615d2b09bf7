package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	UserRepo           UserRepository
	OrganizationRepo   OrganizationRepository
	TrustAccountRepo   TrustAccountRepository
	TransactionRepo    TransactionRepository
	ReconciliationRepo ReconciliationRepository
	StatementRepo      StatementRepository
	ReportingRepo      ReportingRepository
	AuditRepo          AuditRepository
}
