package tokencodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

const defaultSigningMethod = "HS256"

// Claims carried by the access token
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type Config struct {
	// Secret key used to sign and verify access tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string
}

// Codec signs, verifies and parses access tokens.
// It is pure and stateless: tokens are values, nothing is persisted.
type Codec struct {
	key []byte
	alg jwt.SigningMethod
}

func New(cfg Config) (*Codec, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method: %q", cfg.Alg)
	}

	return &Codec{
		key: []byte(cfg.SecretKey),
		alg: alg,
	}, nil
}

// Issue builds and signs an access token for the given subject. No side effects.
func (c *Codec) Issue(email string, role models.Role, ttl time.Duration) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		c.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Email: email,
			Role:  role,
		},
	)

	signed, err := token.SignedString(c.key)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, IssuedAt: now, ExpiresAt: expiresAt}, nil
}

// Validate verifies the signature and the expiry of an access token.
// Returns apperrors.ErrTokenExpired when the token is authentic but stale,
// apperrors.ErrTokenMalformed for any signature or structure failure.
// The distinction matters: expired-but-authentic may be refreshed, a
// tampered token must be rejected outright.
func (c *Codec) Validate(tokenString string) error {
	_, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		c.keyFunc,
		jwt.WithValidMethods([]string{c.alg.Alg()}),
	)

	return classify(err)
}

// ExtractClaims returns the claims of a token. The signature is always
// required; with allowExpired set the expiry check is skipped so that a
// stale token can still identify its subject.
func (c *Codec) ExtractClaims(tokenString string, allowExpired bool) (Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{c.alg.Alg()})}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc, opts...)
	if err := classify(err); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.key, nil
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	default:
		return apperrors.ErrTokenMalformed
	}
}
