package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/job-service/internal/application/job"
	"github.com/recrutment/hireai/services/job-service/internal/infrastructure/memory"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/handlers"
)

type recordingPublisher struct {
	events []audit.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, evt audit.Event) {
	p.events = append(p.events, evt)
}

func newTestRouter(t *testing.T) (http.Handler, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := job.NewService(memory.New(), pub, "")
	return New(handlers.NewJobsHandler(svc), handlers.HealthHandler{}), pub
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("X-Actor-User-Id", "recruiter-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type jobEnvelope struct {
	Data struct {
		ID           uuid.UUID `json:"id"`
		Title        string    `json:"title"`
		JobStatus    string    `json:"jobStatus"`
		Requirements []struct {
			ID       uuid.UUID `json:"id"`
			Category string    `json:"category"`
		} `json:"requirements"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code string            `json:"code"`
		Meta map[string]string `json:"meta"`
	} `json:"error"`
}

func TestJobs_CreateUpdateGet(t *testing.T) {
	h, pub := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/jobs", `{
		"title":"Backend Engineer","location":"Remote","minSalary":50000,"maxSalary":70000,
		"employmentType":"FULL_TIME","requirements":[{"category":"SKILL","description":"Go","minYears":2}]
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created jobEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "DRAFT", created.Data.JobStatus)
	require.Len(t, created.Data.Requirements, 1)
	assert.NotEqual(t, uuid.Nil, created.Data.Requirements[0].ID)

	path := "/api/jobs/" + created.Data.ID.String()
	rr = do(t, h, http.MethodPut, path, `{"title":"Backend Engineer","location":"Berlin","minSalary":50000,"maxSalary":70000,
		"employmentType":"FULL_TIME","jobStatus":"PUBLISHED","reason":"go live"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, pub.events, 2)
	upd := pub.events[1]
	assert.Equal(t, audit.TypeJobUpdated, upd.EventType)
	assert.Equal(t, "go live", upd.Reason)
	assert.Equal(t, map[string]any{
		"location":  audit.Change{Old: "Remote", New: "Berlin"},
		"jobStatus": audit.Change{Old: "DRAFT", New: "PUBLISHED"},
	}, upd.Changes)

	rr = do(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got jobEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "PUBLISHED", got.Data.JobStatus)
	assert.Empty(t, got.Data.Requirements)
}

func TestJobs_Errors(t *testing.T) {
	h, pub := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid json", http.MethodPost, "/api/jobs", `{"title":`, http.StatusBadRequest, "invalid_json"},
		{"trailing json", http.MethodPost, "/api/jobs", `{"title":"a"}{}`, http.StatusBadRequest, "invalid_json"},
		{"missing title", http.MethodPost, "/api/jobs", `{"location":"x"}`, http.StatusBadRequest, "invalid_field"},
		{"salary range", http.MethodPost, "/api/jobs", `{"title":"a","minSalary":9,"maxSalary":1}`, http.StatusBadRequest, "invalid_job"},
		{"bad id", http.MethodGet, "/api/jobs/not-a-uuid", "", http.StatusBadRequest, "invalid_id"},
		{"unknown job", http.MethodGet, "/api/jobs/" + uuid.NewString(), "", http.StatusNotFound, "job_not_found"},
		{"update unknown job", http.MethodPut, "/api/jobs/" + uuid.NewString(), `{"title":"a"}`, http.StatusNotFound, "job_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			var body errorEnvelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
	assert.Empty(t, pub.events)
}

func TestJobs_FieldErrorCarriesJSONPath(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/jobs", `{"title":"a","requirements":[{"description":"no category"}]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "requirements[0].category", body.Error.Meta["field"])
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", "").Code)
}
