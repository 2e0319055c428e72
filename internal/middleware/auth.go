package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMode selects how the todo routes are guarded.
type AuthMode string

const (
	AuthOff AuthMode = "off"
	// AuthDev trusts the X-Account-ID header. Local use only.
	AuthDev AuthMode = "dev"
	AuthJWT AuthMode = "jwt"
)

const AccountIDHeader = "X-Account-ID"

// ErrAccountNotFound is returned by AccountResolver when no account matches the given Cognito sub.
var ErrAccountNotFound = errors.New("account not found")

// AccountResolver resolves a Cognito sub claim to an account id.
// Implementations must return ErrAccountNotFound (or a wrapped form) when the account does not exist.
type AccountResolver interface {
	ResolveAccountID(ctx context.Context, cognitoSub string) (string, error)
}

type AuthConfig struct {
	Mode            AuthMode
	JWKSClient      *JWKSClient
	Issuer          string
	AppClientID     string
	AccountResolver AccountResolver
	// PublicPaths are served without credentials in every mode.
	PublicPaths []string
}

type Auth struct {
	cfg    AuthConfig
	public map[string]bool
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	switch cfg.Mode {
	case AuthOff, AuthDev:
	case AuthJWT:
		if cfg.AccountResolver == nil {
			return nil, fmt.Errorf("middleware: AccountResolver is required in jwt mode")
		}
		if cfg.JWKSClient == nil {
			return nil, fmt.Errorf("middleware: JWKSClient is required in jwt mode")
		}
	default:
		return nil, fmt.Errorf("middleware: unknown auth mode %q", cfg.Mode)
	}

	public := map[string]bool{"/health": true}
	for _, p := range cfg.PublicPaths {
		public[path.Clean(p)] = true
	}
	return &Auth{cfg: cfg, public: public}, nil
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Mode == AuthOff || a.public[path.Clean(r.URL.Path)] {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Mode == AuthDev {
			a.handleDevMode(w, r, next)
			return
		}

		a.handleJWT(w, r, next)
	})
}

func (a *Auth) handleDevMode(w http.ResponseWriter, r *http.Request, next http.Handler) {
	accountID := r.Header.Get(AccountIDHeader)
	if accountID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-Account-ID header required in dev mode")
		return
	}

	ctx := SetAccountID(r.Context(), accountID)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (a *Auth) handleJWT(w http.ResponseWriter, r *http.Request, next http.Handler) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
		return
	}

	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}
		return a.cfg.JWKSClient.GetKey(r.Context(), kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !a.issuedForClient(claims) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
		return
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sub claim not found")
		return
	}

	accountID, err := a.cfg.AccountResolver.ResolveAccountID(r.Context(), sub)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "account not found")
		} else {
			slog.ErrorContext(r.Context(), "account resolution failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	ctx := SetAccountID(r.Context(), accountID)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// issuedForClient checks the app client. Cognito ID tokens carry it in aud,
// access tokens in client_id.
func (a *Auth) issuedForClient(claims jwt.MapClaims) bool {
	if a.cfg.AppClientID == "" {
		return true
	}
	if clientID, ok := claims["client_id"].(string); ok {
		return clientID == a.cfg.AppClientID
	}
	aud, err := claims.GetAudience()
	if err != nil {
		return false
	}
	for _, v := range aud {
		if v == a.cfg.AppClientID {
			return true
		}
	}
	return false
}

// CognitoJWKSURL returns the JWKS URL for the given Cognito User Pool.
func CognitoJWKSURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)
}

// CognitoIssuer returns the expected issuer for the given Cognito User Pool.
func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}
