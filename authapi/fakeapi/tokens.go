package fakeapi

import (
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/referral-portal/users"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	issuerName = "referral-portal-devapi"
)

// Claims are the JWT claims carried by issued tokens.
type Claims struct {
	TokenType string `json:"token_type"`
	Role      string `json:"role,omitempty"`
	Email     string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Issuer signs and verifies HS256 access and refresh tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowTime    func() time.Time
}

// NewIssuer creates an Issuer.
func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration, nowTime func() time.Time) *Issuer {
	return &Issuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowTime:    nowTime,
	}
}

// CreateAccessToken issues a short lived token carrying the user's role.
func (i *Issuer) CreateAccessToken(user *users.User) (string, error) {
	return i.sign(user, accessTokenType, i.accessTTL)
}

// CreateRefreshToken issues a long lived token that can later be revoked by jti.
func (i *Issuer) CreateRefreshToken(user *users.User) (string, error) {
	return i.sign(user, refreshTokenType, i.refreshTTL)
}

func (i *Issuer) sign(user *users.User, tokenType string, ttl time.Duration) (string, error) {
	now := i.nowTime()
	claims := Claims{
		TokenType: tokenType,
		Role:      user.Type,
		Email:     user.Email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenStr and checks it is of the wanted type.
func (i *Issuer) Parse(tokenStr, wantType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenStr, claims,
		func(*jwtlib.Token) (any, error) { return i.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuerName),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(i.nowTime),
	)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token has wrong type %q", claims.TokenType)
	}
	return claims, nil
}
