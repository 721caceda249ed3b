package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	httperr "github.com/idp-analytics/identity-reports/internal/core/errors"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, fixtures map[string]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newTestService(t, fixtures).RegisterRoutes(r)
	return r
}

func TestService_HandleReport_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		fixtures       map[string]string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "renders json",
			url:            "/v1/reports/daily-auths-report?start=2021-01-01&finish=2021-01-03",
			fixtures:       defaultFixtures(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing finish returns 400",
			url:            "/v1/reports/daily-auths-report?start=2021-01-01",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "malformed date returns 400",
			url:            "/v1/reports/daily-auths-report?start=yesterday&finish=2021-01-03",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "finish before start returns 400",
			url:            "/v1/reports/daily-auths-report?start=2021-01-03&finish=2021-01-01",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "env outside the report tree returns 400",
			url:            "/v1/reports/daily-auths-report?start=2021-01-01&finish=2021-01-03&env=../x",
			fixtures:       defaultFixtures(),
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "env with url syntax returns 400",
			url:            "/v1/reports/daily-auths-report?start=2021-01-01&finish=2021-01-03&env=prod%3Fx%3D",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "range over a year returns 400",
			url:            "/v1/reports/daily-auths-report?start=0001-01-01&finish=9999-12-31",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "unknown format returns 400",
			url:            "/v1/reports/daily-auths-report?start=2021-01-01&finish=2021-01-03&format=xlsx",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidQueryError,
		},
		{
			name:           "unknown report returns 404",
			url:            "/v1/reports/weekly-nothing?start=2021-01-01&finish=2021-01-03",
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpReportNotFoundError,
		},
		{
			name:           "unreadable upstream returns 502",
			url:            "/v1/reports/daily-registrations-report?start=2021-01-01&finish=2021-01-03",
			fixtures:       map[string]string{fixture(report.DailyRegistrations, report.ExtJSON, "2021-01-03"): "{"},
			expectedStatus: http.StatusBadGateway,
			expectedType:   httperr.HttpUpstreamError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, tc.fixtures)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != tc.expectedStatus {
				t.Logf("unexpected response body: %s", resp.Body.String())
			}
			require.Equal(t, tc.expectedStatus, resp.Code)

			if tc.expectedType != "" {
				var body httperr.ErrorResponse
				require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
				require.Equal(t, tc.expectedType, body.ErrorType)
			}
		})
	}
}

func TestService_HandleReport_JSONBody(t *testing.T) {
	r := newTestRouter(t, defaultFixtures())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/daily-auths-report?start=2021-01-01&finish=2021-01-03&agency=A", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Report      string   `json:"report"`
		Partial     bool     `json:"partial"`
		MissingDays []string `json:"missing_days"`
		Table       struct {
			Header []map[string]interface{}   `json:"header"`
			Body   [][]map[string]interface{} `json:"body"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, report.DailyAuths, body.Report)
	require.True(t, body.Partial)
	require.Equal(t, []string{"2021-01-02"}, body.MissingDays)
	require.Len(t, body.Table.Header, 5)
	require.Len(t, body.Table.Body, 1)
	require.Equal(t, "rich", body.Table.Body[0][1]["kind"])
	require.Equal(t, "x", body.Table.Body[0][1]["title"])
}

func TestService_HandleReport_CSV(t *testing.T) {
	r := newTestRouter(t, defaultFixtures())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/daily-auths-report?start=2021-01-01&finish=2021-01-03&agency=A&format=csv", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header().Get("Content-Type"))
	require.Equal(t,
		`attachment; filename="daily-auths-report-2021-01-01-to-2021-01-03.csv"`,
		resp.Header().Get("Content-Disposition"))
	require.Equal(t, "Agency,App,IAL,2021-01-01,Total\nA,X,1,5,5\n", resp.Body.String())
}

func TestService_HandleAgencies(t *testing.T) {
	r := newTestRouter(t, defaultFixtures())

	req := httptest.NewRequest(http.MethodGet, "/v1/agencies?start=2021-01-01&finish=2021-01-03", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body AgenciesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, []string{"A", "B"}, body.Agencies)

	req = httptest.NewRequest(http.MethodGet, "/v1/agencies?start=2021-01-01", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
