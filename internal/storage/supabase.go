package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// bucketUploader is the subset of the storage-go client used here.
type bucketUploader interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
}

// SupabaseStore uploads artifacts to a public Supabase Storage bucket.
type SupabaseStore struct {
	client  bucketUploader
	bucket  string
	baseURL string
	prefix  string
}

func NewSupabaseStore(supabaseURL, serviceKey, bucket string) (*SupabaseStore, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client, err := supabase.NewClient(baseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: create supabase client: %w", err)
	}
	return newSupabaseStore(client.Storage, baseURL, bucket), nil
}

func newSupabaseStore(client bucketUploader, baseURL, bucket string) *SupabaseStore {
	return &SupabaseStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		prefix:  "designs",
	}
}

// Save uploads data to designs/{key} and returns the object's public URL.
func (s *SupabaseStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	storagePath := s.prefix + "/" + cleanKey

	if contentType == "" {
		contentType = "image/png"
	}
	upsert := true
	_, err = s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload file: %w", err)
	}

	return s.PublicURL(storagePath), nil
}

func (s *SupabaseStore) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

var _ ArtifactStore = (*SupabaseStore)(nil)
