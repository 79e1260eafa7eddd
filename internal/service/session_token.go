package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"triage-assist/internal/domain"
)

const sessionTokenIssuer = "triage-assist"

// SessionTokenService emite y valida los bearer tokens que atan un cliente a
// su sesion. El token vence junto con la sesion.
type SessionTokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var (
	ErrSessionTokenInvalid = errors.New("session token invalid")
	ErrSessionTokenExpired = errors.New("session token expired")
)

func NewSessionTokenService(secret string) *SessionTokenService {
	return &SessionTokenService{
		secret: []byte(secret),
		issuer: sessionTokenIssuer,
		now:    time.Now,
	}
}

// Issue firma un token para la sesion que vence en session.ExpiresAt.
func (s *SessionTokenService) Issue(session domain.Session) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(session.ID) == "" {
		return "", ErrSessionTokenInvalid
	}
	now := s.now().UTC()
	if !session.ExpiresAt.After(now) {
		return "", ErrSessionTokenExpired
	}
	claims := SessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionTokenService) Parse(tokenString string) (SessionClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	var claims SessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrSessionTokenExpired
		}
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	return claims, nil
}

func (s *SessionTokenService) isValidClaims(claims SessionClaims) bool {
	if strings.TrimSpace(claims.SessionID) == "" {
		return false
	}
	if claims.Subject != claims.SessionID {
		return false
	}
	return claims.Issuer == s.issuer
}
