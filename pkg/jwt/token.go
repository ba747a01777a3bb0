package jwtPkg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	RoleOperator = "operator"

	OperatorLocalsKey = "operator"
)

var (
	ErrMissingHeader = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrNoSecret      = errors.New("JWT secret not configured")
)

type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues an HS256 token for subject with the given role.
func Sign(secret, subject, role string, ttl time.Duration) (string, int64, error) {
	if secret == "" {
		return "", 0, ErrNoSecret
	}

	now := time.Now()
	expiredAt := now.Add(ttl)

	claims := OperatorClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiredAt),
		},
	}

	logrus.WithFields(logrus.Fields{"sub": subject, "role": role}).Debug("Creating token with claims")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return accessToken, expiredAt.Unix(), nil
}

// VerifyTokenHeader parses the bearer token of the request.
func VerifyTokenHeader(c *fiber.Ctx, secret string) (*OperatorClaims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, ErrMissingHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !ok || accessToken == "" {
		return nil, ErrInvalidFormat
	}

	return Parse(accessToken, secret)
}

func Parse(accessToken, secret string) (*OperatorClaims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	claims := &OperatorClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func GetOperator(c *fiber.Ctx) (*OperatorClaims, error) {
	claims, ok := c.Locals(OperatorLocalsKey).(*OperatorClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}
