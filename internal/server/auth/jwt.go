// Package auth holds the server's credential primitives: password hashing,
// token issuance and verification, and the registration gate.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the numeric user id. Subject
// holds the same id as a decimal string.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// TokenConfig is fixed at startup.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	cfg    TokenConfig
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService builds a TokenService. A nil clock means time.Now.
func NewTokenService(cfg TokenConfig, clock func() time.Time) *TokenService {
	if clock == nil {
		clock = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(clock),
		jwt.WithStrictDecoding(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &TokenService{
		cfg:    cfg,
		now:    clock,
		parser: jwt.NewParser(opts...),
	}
}

// Issue returns a signed token for userID valid for the configured TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// user id. Expired tokens yield common.ErrTokenExpired; anything else wrong
// yields common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 || id != claims.UserID {
		return 0, fmt.Errorf("%w: bad subject", common.ErrInvalidToken)
	}

	return id, nil
}
