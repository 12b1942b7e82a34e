package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the identity a session token vouches for.
type Claims struct {
	jwt.RegisteredClaims
	OpenID string `json:"openId"`
	Name   string `json:"name,omitempty"`
}

// Session is the verified content of a session token.
type Session struct {
	OpenID string
	Name   string
}

// GenerateToken signs an HS256 session token for openID valid for validityDuration.
func GenerateToken(openID, name string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		OpenID: openID,
		Name:   name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSessionFromToken validates tokenString and returns its session.
// Expired tokens give common.ErrTokenExpired; anything else that fails
// validation gives common.ErrInvalidToken.
func GetSessionFromToken(tokenString string, secretKey []byte) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.OpenID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Session{OpenID: claims.OpenID, Name: claims.Name}, nil
}

// IdentityVerifier turns a session token into a verified session.
type IdentityVerifier interface {
	Verify(token string) (*Session, error)
}

// JWTVerifier verifies tokens minted by GenerateToken.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(token string) (*Session, error) {
	return GetSessionFromToken(token, v.secret)
}

// Mint signs a session for the given identity.
func (v *JWTVerifier) Mint(openID, name string, ttl time.Duration) (string, error) {
	return GenerateToken(openID, name, v.secret, ttl)
}
