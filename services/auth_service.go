package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"
	"github.com/kaushalkumar0001/StressLess/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthSession is what signup and login hand back to the client.
type AuthSession struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService manages accounts and issues access tokens.
type AuthService interface {
	Signup(ctx context.Context, email, displayName, password string) (*AuthSession, error)
	Login(ctx context.Context, email, password string) (*AuthSession, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	users     repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &authService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrContractViolation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address %q", ErrContractViolation, email)
	}
	return email, nil
}

// Signup registers a new account. The password is optional; accounts without
// one can log in with the email alone.
func (s *authService) Signup(ctx context.Context, email, displayName, password string) (*AuthSession, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = defaultDisplayName(email)
	}

	user := &models.User{Email: email, DisplayName: strings.TrimSpace(displayName)}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("INFO: [AuthService] Signed up user ID %s (%s).", user.ID, user.Email)
	return s.issue(user)
}

// Login authenticates by email. An unknown email is registered on the spot.
// When the account has a password, it must match.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("INFO: [AuthService] No account for '%s'; creating one on first login.", email)
		user, err = s.users.UpsertUserByEmail(ctx, &models.User{Email: email, DisplayName: defaultDisplayName(email)})
		if err != nil {
			return nil, err
		}
	} else if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			log.Printf("WARN: [AuthService] Password mismatch for user ID %s.", user.ID)
			return nil, ErrInvalidCredentials
		}
	}

	return s.issue(user)
}

// GetUser returns the account behind a token.
func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthSession, error) {
	token, err := utils.GenerateJWT(s.jwtSecret, s.tokenTTL, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token for user %s: %w", user.ID, err)
	}
	return &AuthSession{Token: token, User: user}, nil
}

func defaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// IsDuplicateEmail reports whether err came from registering a taken email.
func IsDuplicateEmail(err error) bool {
	return errors.Is(err, repository.ErrDuplicateEmail)
}
