package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthenticated covers every way a credential can fail to resolve:
// missing, malformed, expired, badly signed or missing claims.
var ErrUnauthenticated = errors.New("authentication failed")

// Identity is the authenticated caller.
type Identity struct {
	ID       uint
	Username string
	Role     string
}

// Resolver turns an opaque credential into an Identity.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (*Identity, error)
}

// Claims carried in an access token.
type Claims struct {
	UserID uint   `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the given user.
func (i *TokenIssuer) Issue(userID uint, username, role string) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve implements Resolver. A leading "Bearer " is tolerated.
func (i *TokenIssuer) Resolve(_ context.Context, credential string) (*Identity, error) {
	credential = strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrUnauthenticated
	}

	return &Identity{ID: claims.UserID, Username: claims.Subject, Role: claims.Role}, nil
}
