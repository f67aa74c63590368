package imagegen_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/imagegen"
)

func newTestClient(url, key string) *imagegen.Client {
	return imagegen.NewClient(imagegen.Options{
		BaseURL:    url,
		APIKey:     key,
		Model:      "fal-ai/flux/dev",
		AuthScheme: "Key",
		Logger:     zerolog.Nop(),
	})
}

func TestClient_MissingKeyFailsBeforeRequest(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, "")
	_, err := client.Submit(context.Background(), imagegen.GenerateRequest{Prompt: "cat", NumImages: 1})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfiguration))
	assert.False(t, called)
}

func TestClient_SubmitSendsAuthAndBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fal-ai/flux/dev", r.URL.Path)
		assert.Equal(t, "Key secret", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a fox for the front of a t-shirt", body["prompt"])
		assert.EqualValues(t, 2, body["num_images"])
		assert.EqualValues(t, 1024, body["width"])

		_, _ = io.WriteString(w, `{"request_id":"req-1","status_url":"x"}`)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, "secret")
	id, err := client.Submit(context.Background(), imagegen.GenerateRequest{
		Prompt: "a fox for the front of a t-shirt", Width: 1024, Height: 1024, NumImages: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, "req-1", id)
}

func TestClient_SubmitWithoutRequestID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"IN_QUEUE"}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, "secret").Submit(context.Background(), imagegen.GenerateRequest{Prompt: "x", NumImages: 1})

	assert.True(t, apperr.Is(err, apperr.KindProviderFailure))
}

func TestClient_StatusAndResult(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fal-ai/flux/dev/requests/req-1/status":
			_, _ = io.WriteString(w, `{"status":"completed"}`)
		case "/fal-ai/flux/dev/requests/req-1":
			_, _ = io.WriteString(w, `{"images":[
				{"url":"https://cdn.example.com/a.png","content_type":"image/png","width":1024,"height":1024},
				"https://cdn.example.com/b.png",
				"data:image/png;base64,`+base64.StdEncoding.EncodeToString(png)+`",
				{"b64_json":"`+base64.StdEncoding.EncodeToString(png)+`"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, "secret")

	status, err := client.Status(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, imagegen.StatusCompleted, status.Status)

	images, err := client.Result(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, images, 4)
	assert.Equal(t, "https://cdn.example.com/a.png", images[0].URL)
	assert.Equal(t, 1024, images[0].Width)
	assert.Equal(t, "https://cdn.example.com/b.png", images[1].URL)
	assert.Equal(t, png, images[2].Data)
	assert.Equal(t, "image/png", images[2].ContentType)
	assert.Equal(t, png, images[3].Data)
	assert.Equal(t, "image/png", images[3].ContentType)
}

func TestClient_GenerateUsesSyncBaseURL(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/fal-ai/flux/dev", r.URL.Path)
		_, _ = io.WriteString(w, `{"images":[{"url":"https://cdn.example.com/a.png"}]}`)
	}))
	defer ts.Close()

	client := imagegen.NewClient(imagegen.Options{
		BaseURL:     "http://127.0.0.1:1",
		SyncBaseURL: ts.URL,
		APIKey:      "secret",
		Model:       "fal-ai/flux/dev",
	})
	images, err := client.Generate(context.Background(), imagegen.GenerateRequest{Prompt: "x", NumImages: 1})

	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, 1, hits)
}

func TestClient_ProviderErrorCarriesStatusAndBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"model overloaded"}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, "secret").Generate(context.Background(), imagegen.GenerateRequest{Prompt: "x", NumImages: 1})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindProvider))
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestClient_Download(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer ts.Close()

	data, contentType, err := newTestClient("http://unused", "secret").Download(context.Background(), ts.URL+"/a.jpg")

	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
	assert.Equal(t, "image/jpeg", contentType)
}
