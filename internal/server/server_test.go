package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/storelens/internal/analyzer"
	"github.com/KaramelBytes/storelens/internal/charts"
	"github.com/KaramelBytes/storelens/internal/rules"
	"github.com/KaramelBytes/storelens/internal/session"
	"github.com/KaramelBytes/storelens/internal/table"
)

const ordersCSV = `order_id,order_date,customer_id,size,color,quantity,price
O1,2024-01-01,C1,M,red,2,10
O2,2024-01-02,C2,S,blue,1,50
O3,2024-01-03,C1,L,red,3,10
`

func newTestServer(opts ...Option) *Server {
	return New(session.Options{
		Rules:    rules.Default(),
		Language: "en",
		Currency: "SAR",
		Load:     table.DefaultOptions(),
	}, opts...)
}

// fakeClock drives the session store's notion of time.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func getSession(s *Server, id string) int {
	return do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil)).Code
}

func uploadRequest(t *testing.T, filename, body string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(s, uploadRequest(t, "orders.csv", ordersCSV, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.NotEmpty(t, view.ID)
	return view.ID
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	rec := do(newTestServer(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer()
	id := createSession(t, s)
	assert.Equal(t, 1, s.Sessions())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 3, view.Rows)
	assert.Equal(t, "fashion", string(view.StoreType))
	require.NotNil(t, view.Validation)
	assert.True(t, view.Validation.Valid)
	assert.False(t, view.Analyzed)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res analyzer.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.InDelta(t, 100, res.SalesPerformance.TotalRevenue, 1e-9)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/report?format=txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "100.00 SAR")

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/report?lang=ar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "تقرير تحليل المتجر")

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/charts/SALES_TREND", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var c charts.Chart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, charts.KindSalesTrend, c.Kind)
	assert.Len(t, c.Labels, 3)

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.Sessions())

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, rec).Code)
}

func TestExport(t *testing.T) {
	s := newTestServer()
	id := createSession(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/export", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_ANALYZED", decodeError(t, rec).Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/export?target=table&format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "storelens_table_")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "order_id,order_date"))

	do(s, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", nil))
	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/export?format=yml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".yaml")
	assert.Contains(t, rec.Body.String(), "store_profile:")

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/export?format=csv", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", decodeError(t, rec).Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/export?target=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMappingOverrideAndValidation(t *testing.T) {
	s := newTestServer()
	id := createSession(t, s)

	body := `{"mapping":{"order_date":""},"store_type":"electronics"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/mapping", strings.NewReader(body))
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "electronics", string(view.StoreType))
	require.NotNil(t, view.Validation)
	assert.False(t, view.Validation.Valid)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	eb := decodeError(t, rec)
	assert.Equal(t, "INVALID_MAPPING", eb.Code)
	require.NotNil(t, eb.Validation)
	assert.NotEmpty(t, eb.Validation.MissingRequired)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/mapping", strings.NewReader(`{"mapping":{"shoe_size":"size"}}`))
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FIELD", decodeError(t, rec).Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/mapping", strings.NewReader(`{"store_type":"toys"}`))
	rec = do(s, req)
	assert.Equal(t, "INVALID_STORE_TYPE", decodeError(t, rec).Code)
}

func TestCreateSessionErrors(t *testing.T) {
	s := newTestServer()

	rec := do(s, uploadRequest(t, "notes.pdf", "x", nil))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UNSUPPORTED_FILE", decodeError(t, rec).Code)

	rec = do(s, uploadRequest(t, "empty.csv", "order_id,total\n", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(s, uploadRequest(t, "orders.csv", ordersCSV, map[string]string{"store_type": "toys"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, s.Sessions())
}

func TestCreateSessionWithStoreType(t *testing.T) {
	s := newTestServer()
	rec := do(s, uploadRequest(t, "orders.csv", ordersCSV, map[string]string{"store_type": "Home Garden"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var view sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "home_garden", string(view.StoreType))
	assert.Equal(t, "/api/v1/sessions/"+view.ID, rec.Header().Get("Location"))
}

func TestChartErrors(t *testing.T) {
	s := newTestServer()
	id := createSession(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/charts/kpi", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	do(s, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", nil))
	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/charts/radar", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNKNOWN_CHART", decodeError(t, rec).Code)
}

func TestClassify(t *testing.T) {
	status, code := classify(table.ErrFileTooLarge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "FILE_TOO_LARGE", code)

	status, _ = classify(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestSessionCapEvictsLeastRecentlyUsed(t *testing.T) {
	s := newTestServer(WithSessionLimits(2, 0))
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.store.now = clock.now

	a := createSession(t, s)
	clock.advance(time.Second)
	b := createSession(t, s)
	clock.advance(time.Second)
	require.Equal(t, http.StatusOK, getSession(s, a))
	clock.advance(time.Second)
	c := createSession(t, s)

	assert.Equal(t, 2, s.Sessions())
	assert.Equal(t, http.StatusNotFound, getSession(s, b))
	assert.Equal(t, http.StatusOK, getSession(s, a))
	assert.Equal(t, http.StatusOK, getSession(s, c))
}

func TestIdleSessionsExpire(t *testing.T) {
	s := newTestServer(WithSessionLimits(0, time.Minute))
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.store.now = clock.now

	a := createSession(t, s)
	clock.advance(30 * time.Second)
	require.Equal(t, http.StatusOK, getSession(s, a))
	clock.advance(2 * time.Minute)
	assert.Equal(t, http.StatusNotFound, getSession(s, a))

	createSession(t, s)
	assert.Equal(t, 1, s.Sessions())
}
