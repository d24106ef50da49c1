// Package auth hashes account passwords and issues admin bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpserver-go/internal/dependencies/clock"
	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/storage"
)

// Password length bounds, in characters
const (
	MinPasswordLength = 6
	MaxPasswordLength = 20
)

const tokenIssuer = "rpserver"

// Errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims are carried by admin tokens
type Claims struct {
	AccountID  model.AccountID `json:"account_id"`
	Name       string          `json:"name"`
	AdminLevel int             `json:"admin_level"`
	jwt.RegisteredClaims
}

// Service handles password digests and admin tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// Config holds configuration for the auth service
type Config struct {
	TokenSecret string
	TokenTTL    time.Duration
	BcryptCost  int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL:   12 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	return &Service{
		storage:    storage,
		clock:      clock,
		logger:     logger.With(slog.String("component", "auth")),
		secret:     []byte(cfg.TokenSecret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

// ValidatePassword checks the account password policy
func ValidatePassword(password string) error {
	for _, r := range password {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return model.ErrPasswordCharset
		}
	}
	n := utf8.RuneCountInString(password)
	if n > MaxPasswordLength {
		return model.ErrPasswordTooLong
	}
	if n < MinPasswordLength {
		return model.ErrPasswordTooShort
	}
	return nil
}

// HashPassword returns the stored digest for a password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored digest
func (s *Service) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminLogin authenticates an account with a privilege level above zero
// and returns a signed token. Unknown names and wrong passwords are
// indistinguishable to the caller.
func (s *Service) AdminLogin(ctx context.Context, name, password string) (string, *Claims, error) {
	account, err := s.storage.GetAccountByName(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return "", nil, model.ErrWrongPassword
		}
		return "", nil, err
	}

	if !s.VerifyPassword(account.PasswordHash, password) {
		s.logger.Warn("admin login rejected", slog.String("account", name))
		return "", nil, model.ErrWrongPassword
	}
	if !account.IsAdmin() {
		return "", nil, model.ErrInsufficientAdmin
	}

	token, claims, err := s.IssueToken(account)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("admin token issued",
		slog.Int64("account_id", int64(account.ID)),
		slog.Int("admin_level", account.AdminLevel))
	return token, claims, nil
}

// IssueToken signs a token for the account
func (s *Service) IssueToken(account *model.Account) (string, *Claims, error) {
	now := s.clock.Now()
	claims := &Claims{
		AccountID:  account.ID,
		Name:       account.Name,
		AdminLevel: account.AdminLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   account.Name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken verifies a token and returns its claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
