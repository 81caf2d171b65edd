package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/priyankgupta/doi-monitor/internal/cache"
	"github.com/priyankgupta/doi-monitor/internal/domain"
	"github.com/priyankgupta/doi-monitor/internal/service"
	"github.com/priyankgupta/doi-monitor/internal/session"
)

func newTestRouter(maxUploadBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDOIService(cache.NewMemoStore(), cache.NewNoopResultCache(), 7)
	return NewRouter(&Services{
		DOIService:     svc,
		SessionManager: session.NewManager(),
	}, nil, maxUploadBytes)
}

func testWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Sales")
	_, err := f.NewSheet("Inventory")
	require.NoError(t, err)

	write := func(sheet string, rows [][]interface{}) {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	write("Sales", [][]interface{}{
		{"date_range", "source_city_name", "source_sku_id", "sku_description", "total_quantity"},
		{"2025-05-20", "Mumbai", "SKU1", "Widget-A", 30},
		{"2025-05-19", "Pune", "SKU2", "Widget-B", 6},
	})
	write("Inventory", [][]interface{}{
		{"city", "sku_id", "sku_description", "soh"},
		{"Mumbai", "SKU1", "Widget-A", 100},
	})

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "report.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadDataset(t *testing.T, router *gin.Engine) domain.DatasetInfo {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, testWorkbook(t)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var info domain.DatasetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.NotEmpty(t, info.ID)
	return info
}

func TestHealth(t *testing.T) {
	router := newTestRouter(32 << 20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadDataset(t *testing.T) {
	router := newTestRouter(32 << 20)

	info := uploadDataset(t, router)
	assert.Equal(t, 2, info.SalesRecords)
	assert.Equal(t, 1, info.InventoryRecords)
}

func TestUploadWithoutFile(t *testing.T) {
	router := newTestRouter(32 << 20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/datasets", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadBadWorkbook(t *testing.T) {
	router := newTestRouter(32 << 20)

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Sales")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, buf.Bytes()))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	router := newTestRouter(16)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, testWorkbook(t)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGetOptions(t *testing.T) {
	router := newTestRouter(32 << 20)
	info := uploadDataset(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/"+info.ID+"/options", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var options domain.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Equal(t, []string{"Widget-A", "Widget-B"}, options.SKUs)
	assert.Equal(t, []string{"Mumbai", "Pune"}, options.Cities)
}

func TestGetReportStateless(t *testing.T) {
	router := newTestRouter(32 << 20)
	info := uploadDataset(t, router)

	w := httptest.NewRecorder()
	path := "/api/v1/datasets/" + info.ID + "/report?days=7&sku=Widget-A&city=Mumbai"
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result domain.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ViewSKUCity, result.View)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 30.0, result.Rows[0].SalesQty)
	assert.Equal(t, 100.0, result.Rows[0].InventoryUnits)
	assert.Equal(t, 23, result.Rows[0].DOI)
}

func TestGetReportNoneParamsMeanUnselected(t *testing.T) {
	router := newTestRouter(32 << 20)
	info := uploadDataset(t, router)

	w := httptest.NewRecorder()
	path := "/api/v1/datasets/" + info.ID + "/report?sku=None&city=None&pan=None"
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ViewNone, result.View)
	assert.Empty(t, result.Rows)
}

func TestGetReportBadParams(t *testing.T) {
	router := newTestRouter(32 << 20)
	info := uploadDataset(t, router)

	for _, path := range []string{
		"/api/v1/datasets/" + info.ID + "/report?pan=State%20Wise",
		"/api/v1/datasets/" + info.ID + "/report?days=0",
		"/api/v1/datasets/" + info.ID + "/report?days=soon",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetReportUnknownDataset(t *testing.T) {
	router := newTestRouter(32 << 20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/deadbeef/report?sku=Widget-A", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionFlow(t *testing.T) {
	router := newTestRouter(32 << 20)
	info := uploadDataset(t, router)

	// Create a session bound to the dataset.
	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", gin.H{"dataset_id": info.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, info.ID, sess.DatasetID)
	assert.Equal(t, 7, sess.WindowDays)

	// Before any selection the report is the explicit empty view.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result domain.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ViewNone, result.View)

	// Select a SKU, then a city.
	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+sess.ID+"/selection", gin.H{"dimension": "sku", "value": "Widget-A"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+sess.ID+"/selection", gin.H{"dimension": "city", "value": "Mumbai"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, domain.ViewSKUCity, sess.Selection.View())

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 23, result.Rows[0].DOI)

	// Switching to a pan view resets the individual choices.
	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+sess.ID+"/selection", gin.H{"dimension": "pan", "value": "City Wise"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Empty(t, sess.Selection.SKU)
	assert.Empty(t, sess.Selection.City)

	// Narrow the window.
	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+sess.ID+"/window", gin.H{"days": 1})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, 1, sess.WindowDays)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ViewPanCity, result.View)
	assert.Equal(t, 1, result.WindowDays)

	// State survives a plain GET.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSessionValidation(t *testing.T) {
	router := newTestRouter(32 << 20)
	info := uploadDataset(t, router)

	// Unknown dataset.
	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", gin.H{"dataset_id": "deadbeef"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing dataset_id.
	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown session.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/missing/report", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bad selection dimension and bad window on a real session.
	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions", gin.H{"dataset_id": info.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))

	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+sess.ID+"/selection", gin.H{"dimension": "brand", "value": "Acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+sess.ID+"/window", gin.H{"days": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterWithoutServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(nil, []string{"*"}, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/x/report", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	parsed, allowAll := normalizeAllowedOrigins([]string{"http://a.example, http://b.example", " ", "*"})
	assert.True(t, allowAll)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, parsed)

	parsed, allowAll = normalizeAllowedOrigins([]string{"http://only.example"})
	assert.False(t, allowAll)
	assert.Equal(t, []string{"http://only.example"}, parsed)
}
