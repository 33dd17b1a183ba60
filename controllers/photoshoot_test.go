package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shootapi/history"
	"shootapi/services"
	"shootapi/session"
	"shootapi/test"
)

type server struct {
	e        *echo.Echo
	session  *session.Session
	store    *history.MemoryStore
	uploader *test.UploadServiceFake
	agent    *test.AgentServiceFake
}

func setupTestServer(t *testing.T) *server {
	t.Helper()
	s := &server{
		store:    history.NewMemoryStore(nil),
		uploader: &test.UploadServiceFake{},
		agent:    &test.AgentServiceFake{},
	}
	s.session = session.New(session.Options{
		Uploader: s.uploader,
		Agent:    s.agent,
		Store:    s.store,
		AgentID:  "agent-1",
	})
	t.Cleanup(s.session.Close)
	s.e = SetupServer(s.session, s.store, nil)
	return s
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) photoshoot(t *testing.T) PhotoshootResponse {
	t.Helper()
	rec := s.do(httptest.NewRequest(http.MethodGet, "/photoshoot", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp PhotoshootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func newUploadRequest(t *testing.T, fileName string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/photoshoot/product", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

// configure uploads the boots and picks Footwear on Emma Larsson.
func (s *server) configure(t *testing.T) PhotoshootResponse {
	t.Helper()
	rec := s.do(newUploadRequest(t, "ankle-boots.png", test.PNGBytes))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(test.NewJSONRequest(http.MethodPut, "/photoshoot/config", ConfigurePhotoshootIn{
		Category: StrPointer("Footwear"),
		ModelID:  StrPointer("model-7"),
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp PhotoshootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *server) waitForState(t *testing.T, state string) PhotoshootResponse {
	t.Helper()
	require.Eventually(t, func() bool {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/photoshoot", nil))
		var resp PhotoshootResponse
		return json.Unmarshal(rec.Body.Bytes(), &resp) == nil && resp.State == state
	}, 2*time.Second, 10*time.Millisecond)
	return s.photoshoot(t)
}

func TestPhotoshootStartsIdle(t *testing.T) {
	s := setupTestServer(t)

	resp := s.photoshoot(t)
	assert.Equal(t, "idle", resp.State)
	assert.False(t, resp.Ready)
	assert.Nil(t, resp.Product)
	assert.Nil(t, resp.Result)
}

func TestUploadProductServesPreview(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(newUploadRequest(t, "ankle-boots.png", test.PNGBytes))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PhotoshootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Product)
	assert.Equal(t, "ankle-boots.png", resp.Product.FileName)
	assert.Equal(t, "image/png", resp.Product.ContentType)
	assert.Equal(t, int64(len(test.PNGBytes)), resp.Product.Size)

	rec = s.do(httptest.NewRequest(http.MethodGet, resp.Product.PreviewURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, test.PNGBytes, rec.Body.Bytes())

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/photoshoot/product", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, resp.Product.PreviewURL, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadProductRejected(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(newUploadRequest(t, "notes.txt", []byte("just some text")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "upload_rejected", resp["kind"])
	assert.Contains(t, resp["error"], "unsupported file type")
	assert.Nil(t, s.photoshoot(t).Product)
}

func TestUploadProductMissingFile(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/photoshoot/product", nil)
	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigureInvalidInput(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(test.NewJSONRequest(http.MethodPut, "/photoshoot/config", ConfigurePhotoshootIn{
		Category: StrPointer("Hats"),
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "category")

	rec = s.do(test.NewJSONRequest(http.MethodPut, "/photoshoot/config", ConfigurePhotoshootIn{
		ModelID: StrPointer("model-99"),
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigureMakesReady(t *testing.T) {
	s := setupTestServer(t)

	resp := s.configure(t)
	assert.True(t, resp.Ready)
	assert.Equal(t, "Footwear", string(resp.Category))
	require.NotNil(t, resp.Model)
	assert.Equal(t, "Emma Larsson", resp.Model.Name)

	rec := s.do(test.NewJSONRequest(http.MethodPut, "/photoshoot/config", ConfigurePhotoshootIn{
		ModelID: StrPointer(""),
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared PhotoshootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	assert.Nil(t, cleared.Model)
	assert.False(t, cleared.Ready)
}

func TestGenerateNotReady(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/generate", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, s.uploader.CallCount())
}

func TestGenerateAndSave(t *testing.T) {
	s := setupTestServer(t)
	s.agent.Response = test.SuccessfulAgentResponse("https://cdn.example.com/generated/look.png")
	s.configure(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/generate", nil))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	resp := s.waitForState(t, "complete")
	require.NotNil(t, resp.Result)
	assert.Equal(t, "https://cdn.example.com/generated/look.png", resp.Result.ImageURL)
	assert.Equal(t, session.MsgComplete, resp.Message)
	assert.Equal(t, []string{"asset-1"}, s.agent.LastCall().AssetIDs)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/save", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var archived ArchivedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Equal(t, "ankle-boots.png", archived.Record.ProductName)
	assert.Equal(t, "Emma Larsson", archived.Record.ModelName)
	assert.Equal(t, "https://cdn.example.com/generated/look.png", archived.Record.ImageURL)
	assert.Equal(t, "idle", archived.Photoshoot.State)
	assert.Nil(t, archived.Photoshoot.Product)
	assert.Nil(t, archived.Photoshoot.Model)

	records, err := s.store.List(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, archived.Record.ID, records[0].ID)
}

func TestRegenerateThenTryAnotherModel(t *testing.T) {
	s := setupTestServer(t)
	s.configure(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/regenerate", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/generate", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	s.waitForState(t, "complete")

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/regenerate", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	s.waitForState(t, "complete")
	assert.Equal(t, 2, s.uploader.CallCount())
	assert.Equal(t, 2, s.agent.CallCount())

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/try-another-model", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var archived ArchivedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Equal(t, "idle", archived.Photoshoot.State)
	assert.Nil(t, archived.Photoshoot.Model)
	require.NotNil(t, archived.Photoshoot.Product)
	assert.Equal(t, "ankle-boots.png", archived.Photoshoot.Product.FileName)
	assert.Equal(t, "Footwear", string(archived.Photoshoot.Category))
}

func TestGenerateFailureIsReported(t *testing.T) {
	s := setupTestServer(t)
	s.uploader.Result = &services.UploadResult{Success: false, Error: "bucket unavailable"}
	s.configure(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/generate", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	resp := s.waitForState(t, "failed")
	assert.Equal(t, session.UploadFailed, resp.FailureKind)
	assert.Equal(t, session.MsgUploadFailed, resp.Message)
	assert.Zero(t, s.agent.CallCount())
}

func TestCancelInFlight(t *testing.T) {
	s := setupTestServer(t)
	s.uploader.Gate = make(chan struct{})
	s.configure(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/cancel", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/generate", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp PhotoshootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "uploading", resp.State)
	assert.Equal(t, session.MsgUploading, resp.Message)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/generate", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/cancel", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled PhotoshootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, "idle", cancelled.State)
	assert.True(t, cancelled.Ready)
}

func TestSaveOutsideComplete(t *testing.T) {
	s := setupTestServer(t)
	s.configure(t)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/save", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(httptest.NewRequest(http.MethodPost, "/photoshoot/try-another-model", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPickModelsByGender(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/photoshoot/models?gender=Male", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.NotEmpty(t, found)
	for _, m := range found {
		assert.Equal(t, "Male", m["gender"])
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/photoshoot/models?gender=all", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 12)
}
