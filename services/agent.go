package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// LLMModelName is the Gemini model used for generation.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	Flash20
	Flash25Image
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case Flash25Image:
		return "gemini-2.5-flash-image-preview"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

type Artifact struct {
	FileURL string `json:"file_url"`
}

// AgentResult holds the descriptive fields of a generation. Any of them may
// be missing.
type AgentResult struct {
	ImageDescription *string `json:"image_description,omitempty"`
	ProductDetails   *string `json:"product_details,omitempty"`
	ModelDetails     *string `json:"model_details,omitempty"`
	StylingNotes     *string `json:"styling_notes,omitempty"`
}

type AgentResponse struct {
	Success   bool         `json:"success"`
	Error     *string      `json:"error,omitempty"`
	Message   *string      `json:"message,omitempty"`
	Artifacts []Artifact   `json:"artifact_files,omitempty"`
	Result    *AgentResult `json:"result,omitempty"`
}

type AgentService interface {
	Invoke(ctx context.Context, prompt string, agentID string, assetIDs []string) (*AgentResponse, error)
}

// ContentGenerator is the part of the genai client the agent needs;
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func NewGenAIModels(ctx context.Context, apiKey string) (*genai.Models, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return client.Models, nil
}

const agentInstruction = `You are a fashion photography studio. Every image part you receive is a product photo uploaded by the user. Produce exactly one photorealistic image following the user's instructions, then reply with a single JSON object and nothing else, using these keys: "image_description" (what the photograph shows), "product_details" (the garment: material, color, cut, notable features), "model_details" (who is wearing it and how they are posed), "styling_notes" (set, lighting and styling choices). Values are short markdown strings; use "- " for lists and **bold** for emphasis.`

// GeminiAgentService generates the photoshoot with a Gemini image model and
// stores the produced image next to the uploaded products.
type GeminiAgentService struct {
	Models     ContentGenerator
	Model      string
	AgentID    string
	URLs       URLCacheServiceProvider
	AWS        AWSServiceProvider
	BucketName string
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

func (s *GeminiAgentService) Invoke(ctx context.Context, prompt string, agentID string, assetIDs []string) (*AgentResponse, error) {
	if agentID != s.AgentID {
		return failedAgentResponse(fmt.Sprintf("unknown agent %q", agentID)), nil
	}

	parts := make([]*genai.Part, 0, len(assetIDs)+1)
	for _, assetID := range assetIDs {
		url, err := s.URLs.GetReadURL(ctx, assetID)
		if err != nil {
			return nil, fmt.Errorf("resolving asset %s: %w", assetID, err)
		}
		data, err := ReadFileFromUrl(ctx, s.HTTPClient, url)
		if err != nil {
			return nil, fmt.Errorf("fetching asset %s: %w", assetID, err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: data, MIMEType: http.DetectContentType(data)},
		})
	}
	parts = append(parts, &genai.Part{Text: prompt})

	result, err := s.Models.GenerateContent(ctx, s.Model, []*genai.Content{{Role: "user", Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount: 1,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: agentInstruction}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		s.Log.Warnw("prompt blocked", "reason", result.PromptFeedback.BlockReason)
		return failedAgentResponse(fmt.Sprintf("content violation: %s", result.PromptFeedback.BlockReasonMessage)), nil
	}

	images, err := GetAllInlineImages(result)
	if err != nil {
		return failedAgentResponse(err.Error()), nil
	}
	text := GetFirstCandidateText(result)
	if len(images) == 0 && text == "" {
		s.Log.Warnw("generation returned neither image nor text", "assets", len(assetIDs))
	}

	response := &AgentResponse{Success: true, Result: ParseAgentResult(text)}
	if len(images) > 0 {
		url, err := s.storeImage(ctx, images[0])
		if err != nil {
			return nil, err
		}
		response.Artifacts = []Artifact{{FileURL: url}}
	}
	s.Log.Infow("generation finished", "images", len(images), "assets", len(assetIDs))
	return response, nil
}

func (s *GeminiAgentService) storeImage(ctx context.Context, image []byte) (string, error) {
	contentType := http.DetectContentType(image)
	ext := ImageExtension(contentType)
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("generated/%s%s", uuid.NewString(), ext)

	url, err := s.AWS.PresignLink(ctx, s.BucketName, key)
	if err != nil {
		return "", err
	}
	status, err := s.AWS.UploadToPresignedURL(ctx, url, image, contentType)
	if err != nil {
		return "", fmt.Errorf("storing generated image: %w", err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("storing generated image: storage responded with status %d", status)
	}
	return s.URLs.GetReadURL(ctx, key)
}

func failedAgentResponse(message string) *AgentResponse {
	return &AgentResponse{Success: false, Error: &message}
}

func GetAllInlineImages(result *genai.GenerateContentResponse) ([][]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("empty response")
	}

	var allImageData [][]byte
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content blocked by safety setting: %s", rating.Category)
			}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			inlineData := part.InlineData
			if inlineData != nil && strings.HasPrefix(inlineData.MIMEType, "image/") && len(inlineData.Data) > 0 {
				allImageData = append(allImageData, inlineData.Data)
			}
		}
	}
	return allImageData, nil
}

// GetFirstCandidateText joins the non-thought text parts of the first
// candidate.
func GetFirstCandidateText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// ParseAgentResult reads the JSON block the model was asked for. Text that
// is not such a block becomes the image description.
func ParseAgentResult(text string) *AgentResult {
	if text == "" {
		return nil
	}
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var result AgentResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return &AgentResult{ImageDescription: &text}
	}
	return &result
}
