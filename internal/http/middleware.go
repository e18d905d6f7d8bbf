package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/store"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/token"
)

type ctxKey int

const (
	ctxKeyTenant ctxKey = iota
	ctxKeySession
)

// tenantCacheTTL keeps the by-host lookup off Postgres for the hot path while
// still picking up registry edits quickly.
const tenantCacheTTL = 60 * time.Second

// TenantFrom returns the board resolved for this request.
func TenantFrom(ctx context.Context) (*domain.Tenant, bool) {
	t, ok := ctx.Value(ctxKeyTenant).(*domain.Tenant)
	return t, ok
}

// SessionFrom returns the verified access-token payload, if any.
func SessionFrom(ctx context.Context) (token.Payload, bool) {
	p, ok := ctx.Value(ctxKeySession).(token.Payload)
	return p, ok
}

// Middleware resolves the tenant from the Host header and authenticates
// bearer tokens.
type Middleware struct {
	tenantsRepo repository.TenantsRepository
	cache       store.KV
	tokens      *token.Service
	logger      *zap.Logger
}

func NewMiddleware(tenantsRepo repository.TenantsRepository, cache store.KV, tokens *token.Service, logger *zap.Logger) *Middleware {
	return &Middleware{
		tenantsRepo: tenantsRepo,
		cache:       cache,
		tokens:      tokens,
		logger:      logger,
	}
}

func tenantCacheKey(host string) string { return "tenant:host:" + host }

func (m *Middleware) resolveTenant(ctx context.Context, host string) (*domain.Tenant, error) {
	key := tenantCacheKey(host)
	if cached, err := m.cache.Get(ctx, key); err == nil {
		var tenant domain.Tenant
		if err := json.Unmarshal([]byte(cached), &tenant); err == nil {
			return &tenant, nil
		}
		// Corrupt entry, drop it and fall through to the store.
		_ = m.cache.Del(ctx, key)
	} else if !errors.Is(err, store.ErrMiss) {
		m.logger.Warn("Tenant cache read failed", zap.String("host", host), zap.Error(err))
	}

	tenant, err := m.tenantsRepo.GetTenantByDomain(ctx, host)
	if err != nil {
		return nil, err
	}
	if body, err := json.Marshal(tenant); err == nil {
		if err := m.cache.Set(ctx, key, string(body), tenantCacheTTL); err != nil {
			m.logger.Warn("Tenant cache write failed", zap.String("host", host), zap.Error(err))
		}
	}
	return tenant, nil
}

// WithTenant resolves the request host to its board and rejects unknown or
// non-active boards. Every tenant-scoped route runs behind this.
func (m *Middleware) WithTenant(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := normalizeHost(r.Host)
		tenant, err := m.resolveTenant(r.Context(), host)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, Fail(fmt.Sprintf("no board at %q", host)))
				return
			}
			writeError(w, err)
			return
		}
		if tenant.Status != "active" {
			writeJSON(w, http.StatusNotFound, Fail(fmt.Sprintf("no board at %q", host)))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKeyTenant, tenant)))
	}
}

// WithAuth verifies the bearer access token. Any verification failure is a
// 401 with the token-expired envelope code; a payload from a failed
// verification never reaches the handler.
func (m *Middleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, failTokenExpired("missing access token"))
			return
		}
		payload, err := m.tokens.VerifyAccess(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, failTokenExpired("invalid or expired access token"))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKeySession, payload)))
	}
}

// WithRole runs behind WithAuth and enforces a role set.
func (m *Middleware) WithRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return m.WithAuth(func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())
		for _, role := range roles {
			if session.Role == role {
				next(w, r)
				return
			}
		}
		writeJSON(w, http.StatusForbidden, Fail("insufficient role"))
	})
}
