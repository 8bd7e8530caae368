package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
)

var errEmptySecret = errors.New("auth: jwt secret is empty")

// JWT verifies HS256 bearer tokens.
type JWT struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWT creates a JWT verifier from cfg. Issuer and audience are checked
// only when configured.
func NewJWT(cfg config.AuthConfig) (*JWT, error) {
	if cfg.JWTSecret == "" {
		return nil, errEmptySecret
	}
	return &JWT{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Authorize is an authorization hook. It rejects requests without a valid
// bearer token with a 401 error and passes the rest on with their claims in
// the context.
func (a *JWT) Authorize(req *function.Request, next function.ActionFunc) (any, error) {
	raw := bearerToken(req.HTTP)
	if raw == "" {
		return nil, domain.NewUnauthorizedError(CodeMissingToken, "bearer token is required")
	}

	claims, err := a.Verify(raw)
	if err != nil {
		return nil, err
	}
	return next(req.WithContext(WithClaims(req.Context(), claims)))
}

// Verify parses and validates a signed token.
func (a *JWT) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewUnauthorizedError(CodeTokenExpired, "token has expired").WithCause(err)
		}
		return nil, domain.NewUnauthorizedError(CodeInvalidToken, "token is invalid").WithCause(err)
	}
	return Claims(claims), nil
}

// Sign issues a token for subject valid for ttl. Extra claims are merged in
// and may not override the registered ones.
func (a *JWT) Sign(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))
	if a.issuer != "" {
		claims["iss"] = a.issuer
	}
	if a.audience != "" {
		claims["aud"] = a.audience
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
