package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v4"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeLocal    = "local"
)

type (
	// Identity is what a verified token says about its bearer.
	Identity struct {
		UID     string
		Email   string
		Name    string
		Picture string
	}

	JWTService interface {
		VerifyToken(ctx context.Context, token string) (*Identity, error)
	}

	// TokenIssuer mints tokens in local mode, for development and tests.
	TokenIssuer interface {
		JWTService
		GenerateTokenUser(identity Identity, duration time.Duration) (string, error)
	}

	identityClaims struct {
		Email   string `json:"email,omitempty"`
		Name    string `json:"name,omitempty"`
		Picture string `json:"picture,omitempty"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

// NewJWTService picks the verifier from AUTH_MODE. Firebase is the default.
func NewJWTService() JWTService {
	mode := utils.GetConfigOr("AUTH_MODE", AuthModeFirebase)
	if mode == AuthModeLocal {
		log.Warnw("using local HS256 identity tokens", "mode", mode)
		return NewLocalJWTService(utils.GetConfig("JWT_SECRET"))
	}
	return NewFirebaseVerifier(utils.GetConfig("FIREBASE_PROJECT_ID"), GoogleCertsURL, nil)
}

func NewLocalJWTService(secretKey string) TokenIssuer {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "NUTRISCAN",
	}
}

func (j *jwtService) GenerateTokenUser(identity Identity, duration time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) VerifyToken(_ context.Context, token string) (*Identity, error) {
	if j.secretKey == "" {
		return nil, domain.ErrTokenInvalid
	}
	claims := &identityClaims{}
	t_Token, err := jwt.ParseWithClaims(token, claims, j.parseToken)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !t_Token.Valid || claims.Subject == "" || !claims.VerifyIssuer(j.issuer, true) {
		return nil, domain.ErrTokenInvalid
	}
	return claims.identity(), nil
}

func (c *identityClaims) identity() *Identity {
	return &Identity{
		UID:     c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
	}
}

func mapParseError(err error) error {
	var vErr *jwt.ValidationError
	if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
		return domain.ErrTokenExpired
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.ErrTokenExpired
	}
	return domain.ErrTokenInvalid
}
