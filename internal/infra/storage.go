package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// StorageResponse is returned by the object storage service after an upload.
type StorageResponse struct {
	URL    string `json:"url"`
	Tamano int64  `json:"tamano"`
}

// StorageClient sube archivos de adjuntos a un servicio de object storage
// por HTTP. Las fallas del storage nunca afectan transiciones de documentos:
// el upload ocurre antes, fuera de la transacción.
type StorageClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStorageClient(baseURL string) *StorageClient {
	return &StorageClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Subir sends the file as multipart and returns the public URL.
func (c *StorageClient) Subir(ctx context.Context, nombre string, contenido io.Reader) (*StorageResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("archivo", nombre)
	if err != nil {
		return nil, fmt.Errorf("storage: create form file: %w", err)
	}
	if _, err := io.Copy(part, contenido); err != nil {
		return nil, fmt.Errorf("storage: copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("storage: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/archivos", &buf)
	if err != nil {
		return nil, fmt.Errorf("storage: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("storage: upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	var sr StorageResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("storage: decode response: %w", err)
	}
	return &sr, nil
}

// Eliminar borra el objeto remoto. Best-effort: los metadatos locales mandan.
func (c *StorageClient) Eliminar(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/archivos", nil)
	if err != nil {
		return fmt.Errorf("storage: create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("url", url)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("storage: delete failed with status %d", resp.StatusCode)
	}
	return nil
}
