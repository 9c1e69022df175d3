package auth

import (
	"errors"
	"time"

	"kefu/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "ADMIN"

type Claims struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrDisabled     = errors.New("admin login disabled")
)

func GenerateAccessToken(cfg *config.JWTConfig, adminID string) (string, time.Time, error) {
	expires := time.Now().Add(cfg.Expiry)
	claims := Claims{
		AdminID: adminID,
		Role:    RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	return signed, expires, err
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticator checks the shared console password. The zero value (no
// password configured) leaves the console open.
type Authenticator struct {
	hash []byte
	jwt  *config.JWTConfig
}

func NewAuthenticator(adminCfg *config.AdminConfig, jwtCfg *config.JWTConfig) (*Authenticator, error) {
	a := &Authenticator{jwt: jwtCfg}
	if adminCfg.Password == "" {
		return a, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminCfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a.hash = hash
	return a, nil
}

func (a *Authenticator) Enabled() bool { return len(a.hash) > 0 }

// Login verifies the password and issues an access token for adminID.
func (a *Authenticator) Login(adminID, password string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, ErrDisabled
	}
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidCreds
	}
	return GenerateAccessToken(a.jwt, adminID)
}

func (a *Authenticator) Verify(token string) (*Claims, error) {
	return ParseAccessToken(a.jwt, token)
}
