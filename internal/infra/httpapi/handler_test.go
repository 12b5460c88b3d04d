package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr_evaluation_reminder/internal/app"
	"hr_evaluation_reminder/internal/domain/employee"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReminders struct {
	err     error
	runs    int
	summary *app.RunSummary
}

func (s *stubReminders) Employees(context.Context) ([]app.EmployeeView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []app.EmployeeView{{Row: employee.Row{EmployeeName: "Alice"}, ValidEmail: true}}, nil
}

func (s *stubReminders) Preview(context.Context) (*app.ReminderPreview, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &app.ReminderPreview{Date: "2024-01-01", PendingCount: 2}, nil
}

func (s *stubReminders) Run(context.Context) (*app.RunSummary, error) {
	s.runs++
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubReminders) SentToday(context.Context) (*app.SentSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &app.SentSummary{TodayDate: "2024-01-01"}, nil
}

type stubSeparations struct {
	err     error
	filters []string
}

func (s *stubSeparations) List(_ context.Context, filter string) (*separation.Plan, error) {
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	return &separation.Plan{}, nil
}

func (s *stubSeparations) Notify(_ context.Context, filter string) (*app.SeparationSummary, error) {
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	return &app.SeparationSummary{Filter: filter, VendorsSent: 1}, nil
}

func newTestServer(t *testing.T, reminders *stubReminders, separations *stubSeparations) *httptest.Server {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "# metrics\n")
	})
	srv := httptest.NewServer(SetupRoutes(NewHandler(reminders, separations, logrus.NewEntry(l)), nil, metrics))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRoutes_Success(t *testing.T) {
	reminders := &stubReminders{summary: &app.RunSummary{RunID: "run-1", SentCount: 3}}
	separations := &stubSeparations{}
	srv := newTestServer(t, reminders, separations)

	tests := []struct {
		method string
		path   string
		check  func(t *testing.T, data interface{})
	}{
		{http.MethodGet, "/healthz", func(t *testing.T, data interface{}) {
			assert.Equal(t, "ok", data.(map[string]interface{})["status"])
		}},
		{http.MethodGet, "/api/employees", func(t *testing.T, data interface{}) {
			rows := data.([]interface{})
			require.Len(t, rows, 1)
			assert.Equal(t, "Alice", rows[0].(map[string]interface{})["employee_name"])
		}},
		{http.MethodGet, "/api/reminders/preview", func(t *testing.T, data interface{}) {
			assert.EqualValues(t, 2, data.(map[string]interface{})["pending_count"])
		}},
		{http.MethodPost, "/api/reminders/send", func(t *testing.T, data interface{}) {
			d := data.(map[string]interface{})
			assert.Equal(t, "run-1", d["run_id"])
			assert.EqualValues(t, 3, d["sent_count"])
		}},
		{http.MethodGet, "/api/sent-emails/today", func(t *testing.T, data interface{}) {
			assert.Equal(t, "2024-01-01", data.(map[string]interface{})["today_date"])
		}},
		{http.MethodGet, "/api/separations?filter=last7days", func(t *testing.T, data interface{}) {
			assert.NotNil(t, data)
		}},
		{http.MethodPost, "/api/separations/notify?filter=march", func(t *testing.T, data interface{}) {
			assert.Equal(t, "march", data.(map[string]interface{})["filter"])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			body := decode(t, resp)
			assert.Equal(t, true, body["success"])
			tt.check(t, body["data"])
		})
	}

	assert.Equal(t, 1, reminders.runs)
	assert.Equal(t, []string{"last7days", "march"}, separations.filters)
}

func TestRoutes_SeparationFilterDefaultsToAll(t *testing.T) {
	separations := &stubSeparations{}
	srv := newTestServer(t, &stubReminders{}, separations)

	resp, err := http.Get(srv.URL + "/api/separations")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"all"}, separations.filters)
}

func TestRoutes_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		method     string
		path       string
		wantStatus int
	}{
		{"source unavailable", fmt.Errorf("%w: timeout", app.ErrSourceUnavailable), http.MethodPost, "/api/reminders/send", http.StatusBadGateway},
		{"cycle in progress", app.ErrCycleInProgress, http.MethodPost, "/api/reminders/send", http.StatusConflict},
		{"invalid filter", fmt.Errorf("%w: %q", separation.ErrInvalidFilter, "someday"), http.MethodGet, "/api/separations?filter=someday", http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.MethodGet, "/api/sent-emails/today", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubReminders{err: tt.err}, &stubSeparations{err: tt.err})

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestRoutes_MethodAndMetrics(t *testing.T) {
	srv := newTestServer(t, &stubReminders{}, &stubSeparations{})

	resp, err := http.Get(srv.URL + "/api/reminders/send")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "# metrics\n", string(b))
}
