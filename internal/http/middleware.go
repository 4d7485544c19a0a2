package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/coffee-storefront/internal/auth"
	"github.com/rogerio-castellano/coffee-storefront/internal/http/ban"
	rl "github.com/rogerio-castellano/coffee-storefront/internal/http/rate_limiter"
)

type contextKey string

const (
	customerKey = contextKey("customer")
	roleKey     = contextKey("role")
)

// AuthMiddleware validates the bearer token and stores the customer identity
// on the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		token, claims, err := auth.TokenClaims(authorization)
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if sub, ok := claims["sub"].(string); ok {
			ctx = context.WithValue(ctx, customerKey, sub)
		}
		if role, ok := claims["role"].(string); ok {
			ctx = context.WithValue(ctx, roleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly requires an admin role claim. Must run inside AuthMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r) != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware throttles by client IP against the given pool and
// records strikes for rejected requests, banning repeat offenders.
func RateLimitMiddleware(pool *rl.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ban.IsBanned(ip) {
				http.Error(w, "temporarily banned", http.StatusForbidden)
				return
			}
			if !pool.Get(ip).Allow() {
				ban.RecordStrike(ip, r.URL.Path, r)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Customer returns the authenticated customer email, or "" when anonymous.
func Customer(r *http.Request) string {
	if val, ok := r.Context().Value(customerKey).(string); ok {
		return val
	}
	return ""
}

// Role returns the authenticated role claim, or "" when anonymous.
func Role(r *http.Request) string {
	if val, ok := r.Context().Value(roleKey).(string); ok {
		return val
	}
	return ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
