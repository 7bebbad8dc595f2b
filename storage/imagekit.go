package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"ratemypic/config"
	"ratemypic/models"
)

const (
	imagekitUploadURL = "https://upload.imagekit.io/api/v1/files/upload"
	imagekitAPIURL    = "https://api.imagekit.io/v1"
)

// ImageKit talks to the ImageKit REST API directly: upload is a single
// multipart POST authenticated with the private key as the basic-auth user.
type ImageKit struct {
	publicKey   string
	privateKey  string
	urlEndpoint string

	uploadURL string
	apiURL    string
	client    *http.Client
}

// ImageKitFile is the subset of the file metadata ImageKit returns that we
// care about.
type ImageKitFile struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

func NewImageKit(cfg config.ImageKitConfig) *ImageKit {
	return &ImageKit{
		publicKey:   cfg.PublicKey,
		privateKey:  cfg.PrivateKey,
		urlEndpoint: cfg.URLEndpoint,
		uploadURL:   imagekitUploadURL,
		apiURL:      imagekitAPIURL,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (ik *ImageKit) Upload(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("read upload payload: %w", err)
	}
	writer.WriteField("fileName", fileName)
	writer.WriteField("useUniqueFileName", "false")
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ik.uploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagekit upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("imagekit upload failed with status %d: %s", resp.StatusCode, detail)
	}

	var file ImageKitFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("decode imagekit response: %w", err)
	}
	if file.URL == "" {
		return "", fmt.Errorf("imagekit response missing file url")
	}
	return file.URL, nil
}

// Delete looks the file up by name and removes it. ImageKit addresses files
// by fileId, which the photo row does not carry, so this is two calls.
func (ik *ImageKit) Delete(ctx context.Context, fileName string) error {
	files, err := ik.listFiles(ctx, url.Values{
		"name":  {fileName},
		"limit": {"1"},
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		ik.apiURL+"/files/"+files[0].FileID, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.client.Do(req)
	if err != nil {
		return fmt.Errorf("imagekit delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("imagekit delete failed with status %d", resp.StatusCode)
	}
	return nil
}

func (ik *ImageKit) Name() string {
	return models.StorageImageKit
}

// Ping verifies the credentials by listing a single file. Used by the admin
// storage diagnostics endpoint.
func (ik *ImageKit) Ping(ctx context.Context) (int, error) {
	files, err := ik.listFiles(ctx, url.Values{"limit": {"1"}})
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func (ik *ImageKit) listFiles(ctx context.Context, query url.Values) ([]ImageKitFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		ik.apiURL+"/files?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagekit list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagekit list failed with status %d", resp.StatusCode)
	}

	var files []ImageKitFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode imagekit list: %w", err)
	}
	return files, nil
}
