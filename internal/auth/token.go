package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrInvalidToken is returned for missing, malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager issues and verifies HS256 identity tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	SubjectID string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for subject. The role flag is fixed at issuance.
func (tm *TokenManager) GenerateToken(subject domain.Subject) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		SubjectID: subject.ID,
		Email:     subject.Email,
		Name:      subject.Name,
		IsAdmin:   subject.IsAdmin(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Verify resolves a bearer token into the subject it was issued for.
func (tm *TokenManager) Verify(tokenStr string) (domain.Subject, error) {
	if tokenStr == "" {
		return domain.Subject{}, ErrInvalidToken
	}
	claims, err := tm.ParseToken(tokenStr)
	if err != nil || claims.SubjectID == "" {
		return domain.Subject{}, ErrInvalidToken
	}
	subject := domain.Subject{
		Type:  domain.SubjectTypeUser,
		ID:    claims.SubjectID,
		Email: claims.Email,
		Name:  claims.Name,
	}
	if claims.IsAdmin {
		subject.Type = domain.SubjectTypeAdmin
	}
	return subject, nil
}
