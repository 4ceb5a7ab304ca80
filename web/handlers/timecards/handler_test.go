package timecards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack.com/jobtrack/infrastructure/mail"
	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/security"
	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/web/common"
	"jobtrack.com/jobtrack/web/middlewares"
)

var secret = []byte("test-signing-secret")

type memoryStore struct {
	timecards []timecard.Timecard
}

func (s *memoryStore) GetJob(_ context.Context, jobID string) (*reporting.Job, error) {
	if jobID != "job-1" {
		return nil, reporting.ErrJobNotFound
	}
	return &reporting.Job{ID: jobID, Name: "Harbor Bridge", Number: "J100"}, nil
}

func (s *memoryStore) ListTimecards(_ context.Context, _, weekStart string) ([]timecard.Timecard, error) {
	if weekStart != "2024-02-04" {
		return nil, nil
	}
	return s.timecards, nil
}

func (s *memoryStore) GetTimecard(_ context.Context, _, _, timecardID string) (*timecard.Timecard, error) {
	for _, tc := range s.timecards {
		if tc.ID == timecardID {
			return &tc, nil
		}
	}
	return nil, reporting.ErrTimecardNotFound
}

type fakeMailer struct {
	sent []*mail.Message
}

func (m *fakeMailer) Send(_ context.Context, msg *mail.Message) (string, error) {
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

func newRouter(t *testing.T, mailer reporting.Mailer) *gin.Engine {
	t.Helper()
	var timecards []timecard.Timecard
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "tc-1", "employeeName": "Dana Reyes", "employeeId": "E-7",
		 "jobs": [{"jobNumber": "J100", "days": [{"dayOfWeek": 1, "hours": 8, "production": 40, "unitCost": 2}]},
		          {"jobNumber": "J200", "days": [{"dayOfWeek": 2, "hours": 2}]}]},
		{"id": "tc-2", "employeeName": "Kim Lee", "employeeCode": "K-1",
		 "lines": [{"jobNumber": "J100", "mon": 4, "production": {"mon": 10}, "unitCost": {"mon": 1.5}}]}
	]`), &timecards))

	opts := reporting.Options{From: "timecards@example.com"}
	if mailer != nil {
		opts.Mailer = mailer
	}
	base := common.Handler{
		Stores:    common.SharedStore{Store: &memoryStore{timecards: timecards}},
		Reporting: opts,
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", middlewares.Authentication(secret))
	Register(api, base)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := security.CreateIdentityToken(security.Identity{UserID: "u-1", UniqueName: "Pat Foreman", Role: role}, secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Host = "acme.jobtrack.app"
	req.Header.Set("Authorization", "Bearer "+tok)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExportEndpoint(t *testing.T) {
	r := newRouter(t, nil)

	tests := []struct {
		name        string
		path        string
		contentType string
		filename    string
	}{
		{"default csv", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/export", "text/csv", "2024-02-10 J100.csv"},
		{"pdf", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/export?format=pdf", "application/pdf", "2024-02-10 J100.pdf"},
		{"xlsx", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/export?format=xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "2024-02-10 J100.xlsx"},
		{"html", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/export?format=html", "text/html; charset=utf-8", "2024-02-10 J100.html"},
		{"single timecard", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/tc-2/export", "text/csv", "2024-02-10 J100.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, security.RoleManager, "")

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tt.filename+`"`, w.Header().Get("Content-Disposition"))
			assert.NotZero(t, w.Body.Len())
		})
	}
}

func TestExportEndpointSingleTimecardContent(t *testing.T) {
	r := newRouter(t, nil)

	w := do(t, r, http.MethodGet, "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/tc-2/export", security.RoleAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kim Lee,K-1,J100,2/5/2024")
	assert.NotContains(t, w.Body.String(), "Dana Reyes")
}

func TestExportEndpointErrors(t *testing.T) {
	r := newRouter(t, nil)

	tests := []struct {
		name string
		path string
		role string
		want int
	}{
		{"foreman cannot export", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/export", security.RoleForeman, http.StatusForbidden},
		{"unknown job", "/api/v1/jobs/job-9/weeks/2024-02-04/timecards/export", security.RoleAdmin, http.StatusNotFound},
		{"unknown timecard", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/tc-9/export", security.RoleAdmin, http.StatusNotFound},
		{"bad format", "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/export?format=docx", security.RoleAdmin, http.StatusBadRequest},
		{"bad week start", "/api/v1/jobs/job-1/weeks/04-02-2024/timecards/export", security.RoleAdmin, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, tt.role, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestEmailEndpoint(t *testing.T) {
	mailer := &fakeMailer{}
	r := newRouter(t, mailer)

	w := do(t, r, http.MethodPost, "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/email", security.RoleManager,
		`{"to": ["payroll@example.com"], "attachPdf": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data reporting.EmailResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "msg-1", resp.Data.MessageID)
	assert.Equal(t, []string{"payroll@example.com"}, resp.Data.Recipients)
	assert.Equal(t, []string{"2024-02-10 J100.csv"}, resp.Data.Attachments)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTML, "Pat Foreman")
}

func TestEmailEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		mailer reporting.Mailer
		body   string
		want   int
	}{
		{"invalid address", &fakeMailer{}, `{"to": ["not-an-email"]}`, http.StatusBadRequest},
		{"empty body", &fakeMailer{}, "", http.StatusBadRequest},
		{"no recipients", &fakeMailer{}, `{}`, http.StatusUnprocessableEntity},
		{"mail not configured", nil, `{"to": ["payroll@example.com"]}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t, tt.mailer)
			w := do(t, r, http.MethodPost, "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/email", security.RoleAdmin, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	r := newRouter(t, nil)

	w := do(t, r, http.MethodGet, "/api/v1/jobs/job-1/weeks/2024-02-04/timecards/summary", security.RoleForeman, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data SummaryDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	s := resp.Data
	assert.Equal(t, "J100", s.Job.Number)
	assert.Equal(t, "2/4/2024 - 2/10/2024", s.Week)
	require.Len(t, s.Timecards, 2)
	assert.Equal(t, timecard.ShapeFlat, s.Timecards[0].Shape())
	assert.Equal(t, timecard.Totals{HoursTotal: 14, ProductionTotal: 50, LineTotal: 95}, s.Totals)
	assert.Equal(t, timecard.Totals{HoursTotal: 12, ProductionTotal: 50, LineTotal: 95}, s.ByJob["J100"])
	assert.Equal(t, timecard.Totals{HoursTotal: 2}, s.ByJob["J200"])
}
