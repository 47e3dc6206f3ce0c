package usecase

import (
	"rental-booking/internal/domain/user"
	"rental-booking/internal/pkg/jwt"
	"rental-booking/internal/usecase/shared"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (shared.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (shared.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return shared.Actor{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, err
	}

	return shared.Actor{ID: claims.UserID, Role: role}, nil
}
