package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired       = errors.New("Token has expired")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// Claims carries the user id of an access or refresh token
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 tokens. Access and refresh tokens use
// different secrets, so one can never be accepted as the other.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("access and refresh secrets are required")
	}
	if accessTTL <= 0 {
		accessTTL = 10 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 60 * time.Minute
	}
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

func (m *JWTManager) CreateAccessToken(userID int64) (string, error) {
	return m.sign(userID, m.accessSecret, m.accessTTL)
}

func (m *JWTManager) CreateRefreshToken(userID int64) (string, error) {
	return m.sign(userID, m.refreshSecret, m.refreshTTL)
}

// VerifyAccessToken returns the user id of a valid access token
func (m *JWTManager) VerifyAccessToken(token string) (int64, error) {
	return m.verify(token, m.accessSecret)
}

// VerifyRefreshToken returns the user id of a valid refresh token
func (m *JWTManager) VerifyRefreshToken(token string) (int64, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *JWTManager) sign(userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) verify(tokenString string, secret []byte) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
