package session

import (
	"fmt"
	"strings"

	"shootapi/models"
	"shootapi/services"
)

const promptTemplate = `Generate a photorealistic fashion photography image.

Product Category: %s
Product Description: A %s apparel item uploaded by the user.
%s

AI Model Details:
- Name: %s
- Gender: %s
- Ethnicity: %s
- Age Range: %s
- Physical Description: %s

Please generate a professional studio-quality fashion photograph of this model wearing the uploaded product. Ensure natural garment placement, realistic fabric draping, accurate color reproduction, and professional studio lighting.`

// BuildPrompt renders the generation request. Without notes the notes line
// is left empty. gctx must be Ready.
func BuildPrompt(gctx models.GenerationContext) string {
	notes := ""
	if gctx.Notes != "" {
		notes = "Additional Notes: " + gctx.Notes
	}
	m := gctx.Model
	return fmt.Sprintf(promptTemplate,
		gctx.Category,
		strings.ToLower(string(gctx.Category)),
		notes,
		m.Name,
		m.Gender,
		m.Ethnicity,
		m.AgeRange,
		m.Description,
	)
}

// ExtractOutcome pulls the image URL and the text fields out of a successful
// agent response. Missing values become "".
func ExtractOutcome(resp *services.AgentResponse) models.GenerationOutcome {
	var out models.GenerationOutcome
	if len(resp.Artifacts) > 0 {
		out.ImageURL = resp.Artifacts[0].FileURL
	}
	if r := resp.Result; r != nil {
		out.ImageDescription = deref(r.ImageDescription)
		out.ProductDetails = deref(r.ProductDetails)
		out.ModelDetails = deref(r.ModelDetails)
		out.StylingNotes = deref(r.StylingNotes)
	}
	return out
}

func agentFailureMessage(resp *services.AgentResponse) string {
	switch {
	case resp.Error != nil:
		return *resp.Error
	case resp.Message != nil:
		return *resp.Message
	}
	return MsgGenerationFailed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
