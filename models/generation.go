package models

import (
	"time"
)

const (
	UntitledProduct = "Untitled Product"
	UnknownModel    = "Unknown Model"

	DisplayDateLayout = "Jan 2, 2006"
)

// UploadedAsset is the product image the user picked. Data stays local until
// the session uploads it; Preview is the handle of the transient preview the
// session owns while the asset is selected.
type UploadedAsset struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
	Preview     string `json:"preview,omitempty"`
}

// GenerationContext is what the user configured for the next generation.
type GenerationContext struct {
	Category Category       `json:"category,omitempty"`
	Model    *ModelProfile  `json:"model,omitempty"`
	Notes    string         `json:"notes"`
	Asset    *UploadedAsset `json:"asset,omitempty"`
}

// Ready reports whether an asset, a category and a model are all chosen.
func (c GenerationContext) Ready() bool {
	return c.Asset != nil && c.Category != "" && c.Model != nil
}

func (c GenerationContext) ProductName() string {
	if c.Asset == nil || c.Asset.FileName == "" {
		return UntitledProduct
	}
	return c.Asset.FileName
}

func (c GenerationContext) ModelName() string {
	if c.Model == nil || c.Model.Name == "" {
		return UnknownModel
	}
	return c.Model.Name
}

// GenerationOutcome is the extracted result of a successful generation.
// ImageURL is empty when the agent produced no image.
type GenerationOutcome struct {
	ImageURL         string `json:"image_url"`
	ImageDescription string `gorm:"type:text" json:"image_description"`
	ProductDetails   string `gorm:"type:text" json:"product_details"`
	ModelDetails     string `gorm:"type:text" json:"model_details"`
	StylingNotes     string `gorm:"type:text" json:"styling_notes"`
}

type GenerationRecord struct {
	ID          string            `gorm:"primaryKey" json:"id"`
	ProductName string            `json:"product_name"`
	Category    Category          `json:"category"`
	ModelName   string            `json:"model_name"`
	ImageURL    string            `json:"image_url"`
	Response    GenerationOutcome `gorm:"embedded;embeddedPrefix:response_" json:"response"`
	CreatedAt   time.Time         `json:"created_at"`
	// Sequence orders records newest first independently of clock resolution.
	Sequence int64 `gorm:"index" json:"-"`
}

func (r GenerationRecord) DisplayDate() string {
	return r.CreatedAt.Format(DisplayDateLayout)
}

type FavoriteModel struct {
	ModelID   string    `gorm:"primaryKey" json:"model_id"`
	CreatedAt time.Time `json:"created_at"`
}
