package domain

// User represents an application user (an attorney or staff member of a firm).
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialized
	AuditFields
}
