package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"shootapi/models"
	"shootapi/services"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewRefString(data string) *string {
	return &data
}

// A 1x1 PNG; http.DetectContentType reports image/png for it.
var PNGBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type PresignedUpload struct {
	URL         string
	Content     []byte
	ContentType string
}

// AWSProviderMock presigns "<MockUrl>/<key>" and records uploads.
type AWSProviderMock struct {
	MockUrl      string
	UploadStatus int
	PresignErr   error
	UploadErr    error

	mu      sync.Mutex
	Uploads []PresignedUpload
}

func (m *AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return fmt.Sprintf("%s/%s", m.MockUrl, fileName), nil
}

func (m *AWSProviderMock) UploadToPresignedURL(ctx context.Context, url string, fileContent []byte, contentType string) (int, error) {
	if m.UploadErr != nil {
		return 0, m.UploadErr
	}
	m.mu.Lock()
	m.Uploads = append(m.Uploads, PresignedUpload{URL: url, Content: fileContent, ContentType: contentType})
	m.mu.Unlock()
	if m.UploadStatus == 0 {
		return http.StatusOK, nil
	}
	return m.UploadStatus, nil
}

func (m *AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return fmt.Sprintf("%s/%s?signed=1", m.MockUrl, fileKey), nil
}

func (m *AWSProviderMock) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}

// URLCacheMock resolves every key to "<MockUrl>/<key>".
type URLCacheMock struct {
	MockUrl string
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s", m.MockUrl, objectKey), nil
}

// UploadServiceFake returns Result (or Err) for every upload. When Gate is
// set, each call blocks until a value is sent on it or ctx ends.
type UploadServiceFake struct {
	Result *services.UploadResult
	Err    error
	Panic  bool
	Gate   chan struct{}

	mu    sync.Mutex
	Calls []*models.UploadedAsset
}

func (f *UploadServiceFake) Upload(ctx context.Context, asset *models.UploadedAsset) (*services.UploadResult, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, asset)
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Panic {
		panic("upload service exploded")
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Result != nil {
		return f.Result, nil
	}
	return &services.UploadResult{Success: true, AssetIDs: []string{"asset-1"}}, nil
}

func (f *UploadServiceFake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

type AgentCall struct {
	Prompt   string
	AgentID  string
	AssetIDs []string
}

// AgentServiceFake returns Response (or Err) for every call, optionally
// blocking on Gate like UploadServiceFake.
type AgentServiceFake struct {
	Response *services.AgentResponse
	Err      error
	Gate     chan struct{}

	mu    sync.Mutex
	Calls []AgentCall
}

func (f *AgentServiceFake) Invoke(ctx context.Context, prompt string, agentID string, assetIDs []string) (*services.AgentResponse, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, AgentCall{Prompt: prompt, AgentID: agentID, AssetIDs: assetIDs})
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Response != nil {
		return f.Response, nil
	}
	return &services.AgentResponse{Success: true}, nil
}

func (f *AgentServiceFake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

func (f *AgentServiceFake) LastCall() AgentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return AgentCall{}
	}
	return f.Calls[len(f.Calls)-1]
}

// SuccessfulAgentResponse is a complete agent answer with one artifact.
func SuccessfulAgentResponse(imageURL string) *services.AgentResponse {
	return &services.AgentResponse{
		Success:   true,
		Artifacts: []services.Artifact{{FileURL: imageURL}},
		Result: &services.AgentResult{
			ImageDescription: NewRefString("Cognac **leather** ankle boots on a dark wood floor."),
			ProductDetails:   NewRefString("- Block heel\n- Side zip"),
			ModelDetails:     NewRefString("Emma Larsson, shot from mid-calf down."),
			StylingNotes:     NewRefString("## Lighting\nWarm directional light."),
		},
	}
}
