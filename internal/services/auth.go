package services

import (
	"context"
	"errors"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/logger"
	"taskboard/backend/internal/models"
	"taskboard/backend/internal/utils"
)

var errWrongPassword = errors.New("password mismatch")

type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService verifies login credentials.
type AuthService struct {
	users     CredentialStore
	dummyHash string
}

func NewAuthService(users CredentialStore, bcryptCost int) *AuthService {
	// Compared against when the account is unknown so both rejection
	// paths pay for one bcrypt comparison.
	dummy, err := utils.HashPassword("taskboard-unknown-account", bcryptCost)
	if err != nil {
		logger.Warningf("failed to prepare dummy password hash: %v", err)
	}
	return &AuthService{users: users, dummyHash: dummy}
}

// Authenticate returns the account matching email and password with the
// hash cleared. Unknown accounts and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.Validation("email and password are required")
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if !errs.Is(err, errs.KindNotFound) {
			return nil, err
		}
		utils.VerifyPassword(s.dummyHash, password)
		logger.Debugf("login rejected for %s: unknown account", email)
		return nil, errs.Authentication(err)
	}

	if !utils.VerifyPassword(user.Password, password) {
		logger.Debugf("login rejected for %s: wrong password", email)
		return nil, errs.Authentication(errWrongPassword)
	}

	user.Password = ""
	return user, nil
}
