package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"portal-client/internal/analyses"
	"portal-client/internal/documents"
)

// UploadFile is one file in a multipart upload.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// UploadRequest carries the files plus their classification tags.
type UploadRequest struct {
	Files    []UploadFile
	Route    documents.Route
	Evidence documents.EvidenceType
}

// FilesFromPaths opens the given paths for upload. The returned closer
// must be called once the upload request has completed.
func FilesFromPaths(paths []string) ([]UploadFile, func(), error) {
	var files []UploadFile
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		opened = append(opened, f)
		files = append(files, UploadFile{Name: filepath.Base(path), Content: f})
	}
	return files, closeAll, nil
}

// UploadDocuments posts the files as multipart form data together with
// document_route and document_type, returning the created records.
func (c *Client) UploadDocuments(ctx context.Context, req UploadRequest) ([]documents.Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range req.Files {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Name, err)
		}
	}
	if err := writer.WriteField("document_route", string(req.Route)); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.WriteField("document_type", string(req.Evidence)); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/website/document/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var out struct {
		Documents []documents.Document `json:"documents"`
	}
	if err := c.do(httpReq, &out, "failed to upload document"); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// StartAnalysisResponse is the backend's acknowledgement of an analysis
// kick-off.
type StartAnalysisResponse struct {
	Status     analyses.Status `json:"status"`
	AnalysisID string          `json:"analysis_id"`
}

// StartAnalysis requests analysis of the given document.
func (c *Client) StartAnalysis(ctx context.Context, documentID string) (StartAnalysisResponse, error) {
	body := map[string]string{"id": documentID}
	var out StartAnalysisResponse
	if err := c.doJSON(ctx, http.MethodPost, "/website/document/analyze", body, &out, "failed to start analysis"); err != nil {
		return StartAnalysisResponse{}, err
	}
	return out, nil
}

// AnalysisStatusResponse is one poll result.
type AnalysisStatusResponse struct {
	Status       analyses.Status `json:"status"`
	DocumentID   string          `json:"document_id"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// AnalysisStatus fetches the current status of an analysis by analysis id.
func (c *Client) AnalysisStatus(ctx context.Context, analysisID string) (AnalysisStatusResponse, error) {
	path := "/website/document/analysis/status?id=" + url.QueryEscape(analysisID)
	var out AnalysisStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, "failed to check analysis status"); err != nil {
		return AnalysisStatusResponse{}, err
	}
	return out, nil
}

// AnalysisByDocument fetches the full analysis record for a document.
func (c *Client) AnalysisByDocument(ctx context.Context, documentID string) (analyses.Analysis, error) {
	path := "/website/document/analysis/get?document_id=" + url.QueryEscape(documentID)
	var out struct {
		Analysis analyses.Analysis `json:"analysis"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, "failed to fetch analysis"); err != nil {
		return analyses.Analysis{}, err
	}
	return out.Analysis, nil
}

// ListDocuments fetches all of the user's documents.
func (c *Client) ListDocuments(ctx context.Context) ([]documents.Document, error) {
	var out struct {
		Documents []documents.Document `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/website/document/get", nil, &out, "failed to load documents"); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// DeleteDocument deletes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	path := "/website/document/delete?id=" + url.QueryEscape(documentID)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil, "failed to delete document")
}
