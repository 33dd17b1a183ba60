package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shootapi/models"
	"shootapi/test"
)

func (s *server) generations(t *testing.T, target string) []GenerationResponse {
	t.Helper()
	rec := s.do(httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out []GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *server) loadSamples(t *testing.T) {
	t.Helper()
	rec := s.do(test.NewJSONRequest(http.MethodPut, "/generations/samples", SampleDataIn{Enabled: BoolPointer(true)}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSampleDataToggle(t *testing.T) {
	s := setupTestServer(t)
	assert.Empty(t, s.generations(t, "/generations"))

	rec := s.do(test.NewJSONRequest(http.MethodPut, "/generations/samples", SampleDataIn{Enabled: BoolPointer(true)}))
	require.Equal(t, http.StatusOK, rec.Code)
	var loaded []GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	require.Len(t, loaded, 3)
	assert.Equal(t, "Silk Evening Blouse", loaded[0].ProductName)
	assert.Equal(t, "Feb 13, 2026", loaded[0].Date)

	rec = s.do(test.NewJSONRequest(http.MethodPut, "/generations/samples", SampleDataIn{Enabled: BoolPointer(false)}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.generations(t, "/generations"))
}

func TestSampleDataRequiresEnabled(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(test.NewJSONRequest(http.MethodPut, "/generations/samples", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Enabled")
}

func TestListGenerationsFilters(t *testing.T) {
	s := setupTestServer(t)
	s.loadSamples(t)

	footwear := s.generations(t, "/generations?category=Footwear")
	require.Len(t, footwear, 1)
	assert.Equal(t, "Leather Ankle Boots", footwear[0].ProductName)
	assert.Equal(t, models.CategoryFootwear, footwear[0].Category)

	assert.Len(t, s.generations(t, "/generations?category=all"), 3)

	found := s.generations(t, "/generations?q=LINEN")
	require.Len(t, found, 1)
	assert.Equal(t, "Tailored Linen Trousers", found[0].ProductName)

	assert.Empty(t, s.generations(t, "/generations?q=linen&category=Footwear"))
}

func TestGetAndDeleteGeneration(t *testing.T) {
	s := setupTestServer(t)
	s.loadSamples(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/generations/sample-2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var record GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "Tailored Linen Trousers", record.ProductName)
	assert.Equal(t, "Feb 12, 2026", record.Date)
	assert.NotEmpty(t, record.Rendered.StylingNotes)

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/generations/sample-2", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/generations/sample-2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	remaining := s.generations(t, "/generations")
	require.Len(t, remaining, 2)
	assert.Equal(t, "sample-1", remaining[0].ID)
	assert.Equal(t, "sample-3", remaining[1].ID)
}

func TestDashboard(t *testing.T) {
	s := setupTestServer(t)
	s.loadSamples(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total           int                  `json:"total"`
		ModelsAvailable int                  `json:"models_available"`
		Recent          []GenerationResponse `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, models.CatalogSize(), resp.ModelsAvailable)
	require.Len(t, resp.Recent, 3)
	assert.Equal(t, "Feb 13, 2026", resp.Recent[0].Date)
}
