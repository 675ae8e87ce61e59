package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/eventline/eventline/internal/config"
)

// ErrInvalidCode is returned when a TOTP code fails verification.
var ErrInvalidCode = errors.New("invalid authentication code")

// AuthService verifies TOTP codes for dashboard logins and issues signed
// session tokens. The JSON API under /api/v1 is not gated by it.
type AuthService struct {
	logger     *zap.Logger
	totpSecret string
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(cfg *config.AuthConfig, logger *zap.Logger) (*AuthService, error) {
	ttl, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	return &AuthService{
		logger:     logger,
		totpSecret: cfg.TOTPSecret,
		jwtSecret:  []byte(cfg.JWTSecret),
		sessionTTL: ttl,
	}, nil
}

func (a *AuthService) GenerateSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Eventline Dashboard",
		AccountName: "admin",
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	return key.Secret(), nil
}

func (a *AuthService) GenerateQRCode(issuer, accountName, secret string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Secret:      []byte(secret),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	return key.URL(), nil
}

// Login verifies the TOTP code and mints a session token.
func (a *AuthService) Login(code string) (string, error) {
	if !totp.Validate(code, a.totpSecret) {
		a.logger.Warn("TOTP code verification failed")
		return "", ErrInvalidCode
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.sessionTTL)),
	})

	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	a.logger.Info("Dashboard login successful")
	return signed, nil
}

// ValidateToken checks a session token's signature and expiry.
func (a *AuthService) ValidateToken(tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return false
	}
	return token.Valid
}

// Middleware gates dashboard routes behind a valid session cookie.
func (a *AuthService) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("auth_token")
		if err != nil || !a.ValidateToken(token) {
			c.AbortWithStatusJSON(401, gin.H{"message": "Authentication required"})
			return
		}

		c.Next()
	}
}
