package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validity window for both customer and admin tokens.
const TokenTTL = 7 * 24 * time.Hour

var secretKey = []byte("dev-secret-change-me")

// Token verification errors.
var (
	ErrNoToken      = errors.New("authentication required")
	ErrInvalidToken = errors.New("token is invalid or expired")
	ErrForbidden    = errors.New("insufficient privileges")
)

// Setup installs the signing secret. Must be called once at startup before
// any token is issued or verified.
func Setup(secret string) {
	secretKey = []byte(secret)
}

// CustomerClaims are the minimal claims carried by a customer token.
type CustomerClaims struct {
	ID       uint
	Phone    string
	FullName string
}

// GenerateCustomerToken issues a signed 7-day token asserting a customer identity.
func GenerateCustomerToken(claims CustomerClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        claims.ID,
		"phone":     claims.Phone,
		"full_name": claims.FullName,
		"exp":       time.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(secretKey)
}

// GenerateAdminToken issues a signed 7-day token asserting the admin principal.
// Admin identity is a single configured credential pair, not a user row, so the
// token carries only the admin flag.
func GenerateAdminToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"isAdmin": true,
		"exp":     time.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(secretKey)
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyCustomerToken validates a customer token and returns its claims.
// A valid admin token presented here fails with ErrForbidden.
func VerifyCustomerToken(tokenString string) (CustomerClaims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return CustomerClaims{}, err
	}

	idFloat, ok := claims["id"].(float64)
	if !ok {
		return CustomerClaims{}, ErrForbidden
	}
	phone, _ := claims["phone"].(string)
	fullName, _ := claims["full_name"].(string)
	return CustomerClaims{ID: uint(idFloat), Phone: phone, FullName: fullName}, nil
}

// VerifyAdminToken validates an admin token. A valid customer token presented
// here fails with ErrForbidden.
func VerifyAdminToken(tokenString string) error {
	claims, err := parseToken(tokenString)
	if err != nil {
		return err
	}
	if isAdmin, ok := claims["isAdmin"].(bool); !ok || !isAdmin {
		return ErrForbidden
	}
	return nil
}
