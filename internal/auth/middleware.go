package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipbrief/clipbrief/internal/identity"
)

// VisitorDirectory resolves a browser fingerprint to a stable visitor ID,
// creating the visitor on first sight.
type VisitorDirectory interface {
	EnsureVisitor(ctx context.Context, fingerprint string) (uuid.UUID, error)
}

// Middleware attaches a request identity (account or visitor) to the context.
type Middleware struct {
	tokens        *TokenIssuer
	visitors      VisitorDirectory
	sessionCookie string
	visitorCookie string
}

func NewMiddleware(tokens *TokenIssuer, visitors VisitorDirectory, sessionCookie string) *Middleware {
	return &Middleware{
		tokens:        tokens,
		visitors:      visitors,
		sessionCookie: sessionCookie,
		visitorCookie: "clipbrief_visitor",
	}
}

// Identify resolves the requester. A valid session token (Authorization
// header or session cookie) wins; otherwise the visitor cookie, then the
// browser fingerprint. Every request ends up with some identity.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, claims, ok := m.accountIdentity(r); ok {
			ctx := WithIdentity(r.Context(), id)
			ctx = withClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		id := m.visitorIdentity(w, r)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAccount rejects requests that did not authenticate as an account.
func (m *Middleware) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || !id.IsAccount() {
			writeError(w, http.StatusUnauthorized, "account authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) accountIdentity(r *http.Request) (identity.Identity, *Claims, bool) {
	tokenStr := extractBearerToken(r)
	if tokenStr == "" {
		if c, err := r.Cookie(m.sessionCookie); err == nil {
			tokenStr = c.Value
		}
	}
	if tokenStr == "" {
		return identity.Identity{}, nil, false
	}

	claims, err := m.tokens.Parse(tokenStr)
	if err != nil {
		return identity.Identity{}, nil, false
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return identity.Identity{}, nil, false
	}
	return identity.Account(userID), claims, true
}

func (m *Middleware) visitorIdentity(w http.ResponseWriter, r *http.Request) identity.Identity {
	if c, err := r.Cookie(m.visitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return identity.Visitor(id)
		}
	}

	fp := identity.Fingerprint(r)
	visitorID, err := m.visitors.EnsureVisitor(r.Context(), fp)
	if err != nil {
		// Store unavailable: hand out an ephemeral identity so the request
		// can still be quota-checked against a zero counter.
		visitorID = uuid.New()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.visitorCookie,
		Value:    visitorID.String(),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return identity.Visitor(visitorID)
}

type ctxKey string

const (
	identityKey ctxKey = "identity"
	claimsKey   ctxKey = "claims"
)

func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	return id, ok
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
