package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the token claims the ledger relies on. The subject is the
// acting user and Organization is the tenant every query is scoped to.
type AccessClaims struct {
	Organization string `json:"org"`
	jwt.RegisteredClaims
}

// ErrIncompleteClaims is returned for a valid token without subject or organization.
var ErrIncompleteClaims = errors.New("token is missing subject or organization claims")

// GenerateAccessToken signs an HS256 token for userID acting in organizationID.
func GenerateAccessToken(userID, organizationID, secret, issuer string, expiryDuration time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Organization: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken parses a token string, validates its signature, the
// standard time claims and, when issuer is set, the issuer.
func ParseAccessToken(tokenString, secretKey, issuer string) (*AccessClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || claims.Organization == "" {
		return nil, ErrIncompleteClaims
	}

	return claims, nil
}
