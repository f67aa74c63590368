package models

// DesignArtifact is one generated image.
type DesignArtifact struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// LocalURL is only set when the pipeline cached the bytes.
	LocalURL     string `json:"localUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	// OriginalURL is what gets uploaded to Printify. It is a data: URI when the
	// provider returned inline bytes and nothing was cached.
	OriginalURL string `json:"originalUrl"`

	Position string `json:"position,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// UploadedImage is Printify's record of an uploaded design.
type UploadedImage struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MimeType   string `json:"mime_type,omitempty"`
}
