package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/datauri"
)

// Provider-side job states.
const (
	StatusInQueue    = "IN_QUEUE"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

type Options struct {
	// BaseURL serves the queue endpoints (submit/status/result).
	BaseURL string
	// SyncBaseURL serves the synchronous endpoint. Defaults to BaseURL.
	SyncBaseURL string
	APIKey      string
	Model       string
	// AuthScheme prefixes the key in the Authorization header. Defaults to "Bearer".
	AuthScheme string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     zerolog.Logger
}

type Client struct {
	baseURL     string
	syncBaseURL string
	apiKey      string
	model       string
	authScheme  string
	httpClient  *http.Client
	logger      zerolog.Logger
}

type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	NumImages      int    `json:"num_images"`
}

// Image is one provider result: a remote URL, inline bytes, or both.
type Image struct {
	URL         string
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

type SubmitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url,omitempty"`
	ResponseURL string `json:"response_url,omitempty"`
}

type StatusResponse struct {
	Status        string `json:"status"`
	QueuePosition int    `json:"queue_position,omitempty"`
	Error         string `json:"error,omitempty"`
}

type imageEntry struct {
	URL         string `json:"url"`
	B64JSON     string `json:"b64_json"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type resultResponse struct {
	Images []json.RawMessage `json:"images"`
}

func NewClient(opts Options) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/")
	syncBase := strings.TrimSuffix(strings.TrimSpace(opts.SyncBaseURL), "/")
	if syncBase == "" {
		syncBase = base
	}
	scheme := strings.TrimSpace(opts.AuthScheme)
	if scheme == "" {
		scheme = "Bearer"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:     base,
		syncBaseURL: syncBase,
		apiKey:      strings.TrimSpace(opts.APIKey),
		model:       strings.Trim(strings.TrimSpace(opts.Model), "/"),
		authScheme:  scheme,
		httpClient:  httpClient,
		logger:      opts.Logger,
	}
}

func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Generate calls the synchronous endpoint and returns the images in the response body.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]Image, error) {
	var result resultResponse
	if err := c.doJSON(ctx, "imagegen: generate", http.MethodPost, c.endpoint(c.syncBaseURL, ""), req, &result); err != nil {
		return nil, err
	}
	return parseImages(result.Images)
}

// Submit queues a generation job and returns its request id.
func (c *Client) Submit(ctx context.Context, req GenerateRequest) (string, error) {
	var result SubmitResponse
	if err := c.doJSON(ctx, "imagegen: submit", http.MethodPost, c.endpoint(c.baseURL, ""), req, &result); err != nil {
		return "", err
	}
	requestID := strings.TrimSpace(result.RequestID)
	if requestID == "" {
		return "", apperr.ProviderFailure("imagegen: submit", "no request_id in submit response")
	}
	c.logger.Debug().Str("request_id", requestID).Str("model", c.model).Msg("imagegen job submitted")
	return requestID, nil
}

// Status reports the job state.
func (c *Client) Status(ctx context.Context, requestID string) (*StatusResponse, error) {
	var result StatusResponse
	url := c.endpoint(c.baseURL, "/requests/"+requestID+"/status")
	if err := c.doJSON(ctx, "imagegen: status", http.MethodGet, url, nil, &result); err != nil {
		return nil, err
	}
	result.Status = strings.ToUpper(strings.TrimSpace(result.Status))
	return &result, nil
}

// Result fetches the output of a completed job.
func (c *Client) Result(ctx context.Context, requestID string) ([]Image, error) {
	var result resultResponse
	url := c.endpoint(c.baseURL, "/requests/"+requestID)
	if err := c.doJSON(ctx, "imagegen: result", http.MethodGet, url, nil, &result); err != nil {
		return nil, err
	}
	return parseImages(result.Images)
}

// Download fetches image bytes with a plain GET; no credentials are sent.
func (c *Client) Download(ctx context.Context, downloadURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", apperr.Provider("imagegen: download", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to read image body: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func (c *Client) endpoint(base, suffix string) string {
	if c.model == "" {
		return base + suffix
	}
	return base + "/" + c.model + suffix
}

func (c *Client) doJSON(ctx context.Context, op, method, url string, in, out any) error {
	if !c.HasCredentials() {
		return apperr.Configuration(op, "IMAGEGEN_API_KEY is not configured")
	}

	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Authorization", c.authScheme+" "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Provider(op, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w, body: %s", op, err, string(body))
	}

	return nil
}

// parseImages accepts bare strings (URL, data URI or base64) and objects with url/b64_json.
func parseImages(entries []json.RawMessage) ([]Image, error) {
	images := make([]Image, 0, len(entries))
	for i, raw := range entries {
		var entry imageEntry
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			entry.URL = s
		} else if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, apperr.ProviderFailure("imagegen: parse images", "image %d is neither a string nor an object", i)
		}

		img := Image{ContentType: entry.ContentType, Width: entry.Width, Height: entry.Height}
		ref := strings.TrimSpace(entry.URL)
		switch {
		case entry.B64JSON != "":
			data, err := base64.StdEncoding.DecodeString(entry.B64JSON)
			if err != nil {
				return nil, apperr.ProviderFailure("imagegen: parse images", "image %d: invalid base64: %v", i, err)
			}
			img.Data = data
			img.URL = ref
		case datauri.Is(ref):
			data, contentType, err := datauri.Decode(ref)
			if err != nil {
				return nil, apperr.ProviderFailure("imagegen: parse images", "image %d: %v", i, err)
			}
			img.Data = data
			if img.ContentType == "" {
				img.ContentType = contentType
			}
		case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
			img.URL = ref
		case ref != "":
			data, err := base64.StdEncoding.DecodeString(ref)
			if err != nil {
				return nil, apperr.ProviderFailure("imagegen: parse images", "image %d: invalid base64: %v", i, err)
			}
			img.Data = data
		default:
			return nil, apperr.ProviderFailure("imagegen: parse images", "image %d has no url or data", i)
		}

		if len(img.Data) > 0 && img.ContentType == "" {
			img.ContentType = http.DetectContentType(img.Data)
		}
		images = append(images, img)
	}
	return images, nil
}
