package models

type PrintAreasResponse struct {
	BlueprintID     int         `json:"blueprint_id"`
	PrintProviderID int         `json:"print_provider_id"`
	Source          string      `json:"source"`
	PrintAreas      []PrintArea `json:"print_areas"`
}

type GenerateDesignsResponse struct {
	Designs   []DesignArtifact `json:"designs"`
	Requested int              `json:"requested"`
	Skipped   int              `json:"skipped"`
}

type UploadDesignResponse struct {
	Image UploadedImage `json:"image"`
}

type ProductResponse struct {
	Product CreatedProduct `json:"product"`
	Draft   ProductDraft   `json:"draft"`
}

type PublishResponse struct {
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
}

type HealthResponse struct {
	Status             string `json:"status"`
	PrintifyConfigured bool   `json:"printify_configured"`
	ImageGenConfigured bool   `json:"imagegen_configured"`
	ImageGenMode       string `json:"imagegen_mode,omitempty"`
}
