package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func createPosting(t *testing.T, env *testEnv, access, title string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/v1/jobs",
		`{"title":"`+title+`","type":"fulltime","applicationLink":"https://acme.test/apply","salaryMin":60000,"salaryMax":90000,"paymentIntentId":"pi_1"}`,
		withBearer(access))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, result := decodeEnvelope(t, rec)
	id, _ := result["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestFeedListAndCountAgree(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.signupEmployer(t, "dev@acme.test", "acme")
	createPosting(t, env, access, "Backend Engineer")

	rec := env.do(t, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, result := decodeEnvelope(t, rec)
	jobs, _ := result["jobs"].([]any)
	require.Len(t, jobs, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/jobs/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, result = decodeEnvelope(t, rec)
	require.EqualValues(t, 1, result["count"])

	// The same filter that empties the list empties the count.
	rec = env.do(t, http.MethodGet, "/api/v1/jobs?type=contract", "")
	_, result = decodeEnvelope(t, rec)
	jobs, _ = result["jobs"].([]any)
	require.Empty(t, jobs)

	rec = env.do(t, http.MethodGet, "/api/v1/jobs/count?type=contract", "")
	_, result = decodeEnvelope(t, rec)
	require.EqualValues(t, 0, result["count"])
}

func TestCreateRequiresPayment(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.signupEmployer(t, "dev@acme.test", "acme")

	rec := env.do(t, http.MethodPost, "/api/v1/jobs",
		`{"title":"X","type":"fulltime","applicationLink":"https://acme.test/apply"}`,
		withBearer(access))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReplayedOrderConflicts(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.signupEmployer(t, "dev@acme.test", "acme")
	createPosting(t, env, access, "Backend Engineer")

	rec := env.do(t, http.MethodPost, "/api/v1/jobs",
		`{"title":"Again","type":"fulltime","applicationLink":"https://acme.test/apply","paymentIntentId":"pi_1"}`,
		withBearer(access))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateAndDeletePosting(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.signupEmployer(t, "dev@acme.test", "acme")
	jobID := createPosting(t, env, access, "Backend Engineer")

	rec := env.do(t, http.MethodPut, "/api/v1/jobs/"+jobID,
		`{"title":"Senior Backend Engineer","type":"fulltime","applicationLink":"https://acme.test/apply"}`,
		withBearer(access))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, result := decodeEnvelope(t, rec)
	require.Equal(t, "Senior Backend Engineer", result["title"])

	// Another employer may not touch it.
	otherAccess, _ := env.signupEmployer(t, "dev@globex.test", "globex")
	rec = env.do(t, http.MethodDelete, "/api/v1/jobs/"+jobID, "", withBearer(otherAccess))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/jobs/"+jobID, "", withBearer(access))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/jobs/"+jobID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedIsTenantScopedByHost(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.signupEmployer(t, "dev@acme.test", "acme")
	createPosting(t, env, access, "Backend Engineer")

	// A second board on another domain sees nothing.
	_, err := env.tenants.CreateTenant(context.Background(), tenantFixture("other.test"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/jobs/count", "", func(r *http.Request) {
		r.Host = "other.test"
	})
	require.Equal(t, http.StatusOK, rec.Code)
	_, result := decodeEnvelope(t, rec)
	require.EqualValues(t, 0, result["count"])
}
