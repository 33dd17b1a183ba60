package controllers

import (
	"shootapi/models"
	"shootapi/session"
	"shootapi/textblocks"
)

type RenderedOutcome struct {
	ImageDescription []textblocks.Block `json:"image_description"`
	ProductDetails   []textblocks.Block `json:"product_details"`
	ModelDetails     []textblocks.Block `json:"model_details"`
	StylingNotes     []textblocks.Block `json:"styling_notes"`
}

type OutcomeResponse struct {
	models.GenerationOutcome
	Rendered RenderedOutcome `json:"rendered"`
}

type ProductResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	PreviewURL  string `json:"preview_url"`
}

type PhotoshootResponse struct {
	State       string               `json:"state"`
	Message     string               `json:"message,omitempty"`
	FailureKind session.FailureKind  `json:"failure_kind,omitempty"`
	Ready       bool                 `json:"ready"`
	Category    models.Category      `json:"category,omitempty"`
	Model       *models.ModelProfile `json:"model,omitempty"`
	Notes       string               `json:"notes"`
	Product     *ProductResponse     `json:"product,omitempty"`
	Result      *OutcomeResponse     `json:"result,omitempty"`
}

type GenerationResponse struct {
	models.GenerationRecord
	Date     string          `json:"date"`
	Rendered RenderedOutcome `json:"rendered"`
}

type ModelResponse struct {
	models.ModelProfile
	Favorite bool `json:"favorite"`
}

func renderOutcome(o models.GenerationOutcome) RenderedOutcome {
	return RenderedOutcome{
		ImageDescription: textblocks.Collect(o.ImageDescription),
		ProductDetails:   textblocks.Collect(o.ProductDetails),
		ModelDetails:     textblocks.Collect(o.ModelDetails),
		StylingNotes:     textblocks.Collect(o.StylingNotes),
	}
}

func newPhotoshootResponse(snap session.Snapshot) PhotoshootResponse {
	resp := PhotoshootResponse{
		State:    snap.State.Name(),
		Message:  snap.Message(),
		Ready:    snap.Ready,
		Category: snap.Context.Category,
		Model:    snap.Context.Model,
		Notes:    snap.Context.Notes,
	}
	if failed, ok := snap.State.(session.Failed); ok {
		resp.FailureKind = failed.Kind
	}
	if asset := snap.Context.Asset; asset != nil {
		resp.Product = &ProductResponse{
			FileName:    asset.FileName,
			ContentType: asset.ContentType,
			Size:        asset.Size,
			PreviewURL:  "/photoshoot/preview/" + asset.Preview,
		}
	}
	if snap.Outcome != nil {
		resp.Result = &OutcomeResponse{
			GenerationOutcome: *snap.Outcome,
			Rendered:          renderOutcome(*snap.Outcome),
		}
	}
	return resp
}

func newGenerationResponse(r models.GenerationRecord) GenerationResponse {
	return GenerationResponse{
		GenerationRecord: r,
		Date:             r.DisplayDate(),
		Rendered:         renderOutcome(r.Response),
	}
}

func newGenerationsResponse(records []models.GenerationRecord) []GenerationResponse {
	out := make([]GenerationResponse, 0, len(records))
	for _, r := range records {
		out = append(out, newGenerationResponse(r))
	}
	return out
}
