package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/store"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/token"
)

const (
	testHost          = "board.test"
	testBackfillKey   = "test-backfill-secret"
	testScraperOrigin = "https://boards.scraped.test"
)

// fakeKV is an in-memory store.KV for middleware tests.
type fakeKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{m: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, key)
	return nil
}

type stubAssets struct{}

func (stubAssets) Upload(context.Context, string) (string, error) {
	return "https://cdn.test/logo.png", nil
}

type stubNotifier struct{}

func (stubNotifier) Send(context.Context, string, string, map[string]any) {}

type stubPayments struct {
	intent *clients.PaymentIntent
}

func (s *stubPayments) Retrieve(context.Context, string) (*clients.PaymentIntent, error) {
	return s.intent, nil
}

type testEnv struct {
	router    *Router
	kv        *fakeKV
	tenants   *repository.MemoryTenantsRepository
	users     *repository.MemoryUsersRepository
	jobs      *repository.MemoryJobsRepository
	employers *repository.MemoryEmployersRepository
	tokens    *token.Service
	tenant    *domain.Tenant
	payments  *stubPayments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		kv:        newFakeKV(),
		tenants:   repository.NewMemoryTenantsRepository(),
		users:     repository.NewMemoryUsersRepository(),
		jobs:      repository.NewMemoryJobsRepository(),
		employers: repository.NewMemoryEmployersRepository(),
	}
	env.tokens = token.NewService([]byte("access-secret"), []byte("refresh-secret"), env.users)

	intent := &clients.PaymentIntent{ID: "pi_1", Status: clients.PaymentStatusSucceeded}
	intent.Metadata.OrderID = "order-1"
	env.payments = &stubPayments{intent: intent}

	log := zap.NewNop()
	feedService := service.NewFeedService(env.jobs, env.employers, log)
	jobService := service.NewJobService(env.jobs, env.users, env.payments, stubNotifier{}, log)
	accountService := service.NewAccountService(env.users, env.tokens, stubNotifier{}, log)
	tenantService := service.NewTenantService(env.tenants, log)
	reconcileService := service.NewReconcileService(env.jobs, env.employers, stubAssets{}, testScraperOrigin, log)

	mw := NewMiddleware(env.tenants, env.kv, env.tokens, log)
	env.router = NewRouter(log)
	env.router.RegisterRoutes(
		mw,
		NewJobHandler(feedService, jobService, env.users, log),
		NewAuthHandler(accountService, env.tokens, false, log),
		NewBackfillHandler(reconcileService, testBackfillKey, log),
		NewAdminHandler(tenantService, feedService, log),
	)

	tenant := &domain.Tenant{
		TenantName:  "Go Board",
		Domain:      testHost,
		SearchQuery: "golang",
		Status:      "active",
	}
	id, err := env.tenants.CreateTenant(context.Background(), tenant)
	require.NoError(t, err)
	tenant.TenantID = id
	env.tenant = tenant
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body string, decorate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://"+testHost+path, reader)
	req.Host = testHost + ":8080" // port must be stripped during resolution
	for _, d := range decorate {
		d(req)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func withBearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, map[string]any) {
	t.Helper()
	var body struct {
		Code   int             `json:"code"`
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	result := map[string]any{}
	if len(body.Result) > 0 && string(body.Result) != "null" {
		require.NoError(t, json.Unmarshal(body.Result, &result))
	}
	return body.Code, result
}

func tenantFixture(host string) *domain.Tenant {
	return &domain.Tenant{
		TenantName:  host,
		Domain:      host,
		SearchQuery: "golang",
		Status:      "active",
	}
}

// signupEmployer runs the signup endpoint and returns the access token and
// the session cookie.
func (env *testEnv) signupEmployer(t *testing.T, email, company string) (string, *http.Cookie) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/api/v1/signup",
		`{"email":"`+email+`","password":"correct-horse","company":"`+company+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	code, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)
	access, _ := result["accessToken"].(string)
	require.NotEmpty(t, access)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessioncookie" {
			return access, c
		}
	}
	t.Fatal("no session cookie set")
	return "", nil
}
