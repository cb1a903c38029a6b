package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
)

const (
	// CallerHeader carries the caller identity when auth is disabled.
	CallerHeader = "X-Zeto-Caller"
	// OperatorScope is the token scope granting access to admin routes.
	OperatorScope = "operator"

	scopeClaim = "scope"
)

var (
	errMissingCaller = errors.New("missing caller identity")
	errNotOperator   = errors.New("caller is not allowed to use operator routes")
)

type callerKey struct{}

type caller struct {
	identity   string
	isOperator bool
}

type authenticator struct {
	secret []byte
	noAuth bool
}

func newAuthenticator(secret string, noAuth bool) *authenticator {
	return &authenticator{[]byte(secret), noAuth}
}

// requireCaller resolves the identity of the caller and stores it in the
// request context.
func (a *authenticator) requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := a.resolveCaller(r)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, err)
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *authenticator) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := r.Context().Value(callerKey{}).(caller)
		if !ok || !c.isOperator {
			writeJSONError(w, http.StatusForbidden, errNotOperator)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *authenticator) resolveCaller(r *http.Request) (caller, error) {
	if a.noAuth {
		identity := strings.TrimSpace(r.Header.Get(CallerHeader))
		if identity == "" {
			return caller{}, errMissingCaller
		}
		return caller{identity, true}, nil
	}

	header := r.Header.Get("Authorization")
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if header == "" || tokenStr == header {
		return caller{}, errMissingCaller
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(
		tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		},
	); err != nil {
		return caller{}, fmt.Errorf("invalid token: %s", err)
	}

	identity, _ := claims["sub"].(string)
	if identity == "" {
		return caller{}, errMissingCaller
	}
	scope, _ := claims[scopeClaim].(string)
	return caller{identity, scope == OperatorScope}, nil
}

func callerFromContext(ctx context.Context) string {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c.identity
}

// NewToken returns an HS256 bearer token for the given identity.
func NewToken(secret, identity string, isOperator bool) (string, error) {
	claims := jwt.MapClaims{"sub": identity}
	if isOperator {
		claims[scopeClaim] = OperatorScope
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(
		[]byte(secret),
	)
}
