package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	rossumhttp "github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// DocumentsClient uploads documents into queues and exports their data.
type DocumentsClient struct {
	httpClient *rossumhttp.Client
	fs         afero.Fs
}

// NewDocumentsClient creates a new documents client. Files are read from fs,
// the OS filesystem when nil.
func NewDocumentsClient(httpClient *rossumhttp.Client, fs afero.Fs) *DocumentsClient {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &DocumentsClient{
		httpClient: httpClient,
		fs:         fs,
	}
}

// UploadDocument implements rossum.QueueClient.UploadDocument.
func (c *DocumentsClient) UploadDocument(ctx context.Context, req rossum.Upload) (rossum.Record, error) {
	err := validate(req)
	if err != nil {
		return nil, err
	}

	content, filename, err := c.uploadContent(req)
	if err != nil {
		return nil, err
	}

	parts := []rossumhttp.FilePart{
		{Field: "content", Filename: filename, Content: bytes.NewReader(content)},
	}

	if req.Values != nil {
		encoded, err := json.Marshal(req.Values)
		if err != nil {
			return nil, fmt.Errorf("encoding values: %w", err)
		}

		parts = append(parts, rossumhttp.FilePart{Field: "values", Content: bytes.NewReader(encoded)})
	}

	if len(req.Metadata) > 0 {
		encoded, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encoding metadata: %w", err)
		}

		parts = append(parts, rossumhttp.FilePart{Field: "metadata", Content: bytes.NewReader(encoded)})
	}

	resp, err := c.httpClient.Do(ctx, &rossumhttp.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("%s/%d/upload", rossum.Queues.Plural, req.Queue),
		Files:  parts,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}

	return resp.Record()
}

// uploadContent returns the bytes to send and the name to send them under.
// A path is named after its base name unless Filename overrides it.
func (c *DocumentsClient) uploadContent(req rossum.Upload) ([]byte, string, error) {
	if req.FilePath == "" {
		return req.FileBytes, req.Filename, nil
	}

	content, err := afero.ReadFile(c.fs, req.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", req.FilePath, err)
	}

	filename := filepath.Base(req.Filename)
	if req.Filename == "" {
		filename = filepath.Base(req.FilePath)
	}

	return content, filename, nil
}

// ExportData implements rossum.QueueClient.ExportData.
func (c *DocumentsClient) ExportData(ctx context.Context, queue int, annotations []int, format string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, fmt.Sprintf("%s/%d/export", rossum.Queues.Plural, queue), rossum.Query{
		"id":     joinIDs(annotations),
		"format": format,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting queue %d: %w", queue, err)
	}

	return resp.Body, nil
}
