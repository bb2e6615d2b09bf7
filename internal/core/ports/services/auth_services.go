package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

// AuthSvcFacade issues access tokens for verified credentials.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
