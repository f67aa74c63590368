package models

type GenerateDesignsRequest struct {
	Prompt            string             `json:"prompt"`
	NegativePrompt    string             `json:"negative_prompt,omitempty"`
	NumImages         int                `json:"numImages"`
	PrintAreaContexts []PrintAreaContext `json:"printAreaContexts"`
	Product           string             `json:"product,omitempty"`
}

type UploadDesignRequest struct {
	Artifact DesignArtifact `json:"artifact"`
	FileName string         `json:"file_name,omitempty"`
}

// ProductRequest carries the product details plus the session's assignments.
type ProductRequest struct {
	Title           string                    `json:"title"`
	Description     string                    `json:"description"`
	Tags            []string                  `json:"tags,omitempty"`
	BlueprintID     int                       `json:"blueprint_id"`
	PrintProviderID int                       `json:"print_provider_id"`
	Variants        []VariantRequest          `json:"variants"`
	PrintAreas      []PrintArea               `json:"print_areas"`
	Assignments     map[string]DesignArtifact `json:"assignments"`
}

// VariantRequest is a variant as the frontend sends it. IsEnabled defaults to true.
type VariantRequest struct {
	ID        int   `json:"id"`
	Price     int   `json:"price"`
	IsEnabled *bool `json:"is_enabled,omitempty"`
}

func (v VariantRequest) Draft() DraftVariant {
	enabled := true
	if v.IsEnabled != nil {
		enabled = *v.IsEnabled
	}
	return DraftVariant{ID: v.ID, Price: v.Price, IsEnabled: enabled}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
