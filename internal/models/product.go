package models

// ProductDraft is the payload sent to Printify when creating or updating a product.
type ProductDraft struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Tags            []string         `json:"tags,omitempty"`
	BlueprintID     int              `json:"blueprint_id"`
	PrintProviderID int              `json:"print_provider_id"`
	Variants        []DraftVariant   `json:"variants"`
	PrintAreas      []DraftPrintArea `json:"print_areas"`
}

type DraftVariant struct {
	ID        int  `json:"id"`
	Price     int  `json:"price"` // cents
	IsEnabled bool `json:"is_enabled"`
}

type DraftPrintArea struct {
	VariantIDs   []int              `json:"variant_ids"`
	Placeholders []DraftPlaceholder `json:"placeholders"`
}

type DraftPlaceholder struct {
	Position string       `json:"position"`
	Images   []DraftImage `json:"images"`
}

type DraftImage struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle int     `json:"angle"`
}

// ImageIDs lists every image id referenced by the draft, in placement order.
func (d ProductDraft) ImageIDs() []string {
	var ids []string
	for _, area := range d.PrintAreas {
		for _, ph := range area.Placeholders {
			for _, img := range ph.Images {
				ids = append(ids, img.ID)
			}
		}
	}
	return ids
}

// CreatedProduct is the subset of Printify's product response the frontend uses.
type CreatedProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ShopID      int    `json:"shop_id,omitempty"`
	BlueprintID int    `json:"blueprint_id,omitempty"`
	Visible     bool   `json:"visible"`
}
