package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portal-client/internal/shared/kvkeys"
	"portal-client/internal/shared/storage/kv"
)

func TestClientAttachesTokenAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"documents":[]}`))
	}))
	defer srv.Close()

	creds := kv.NewMemoryStore()
	if err := creds.Set(kvkeys.AuthToken, []byte("tok-123")); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	client := New(srv.URL, creds)
	if _, err := client.ListDocuments(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Token tok-123" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestClientOmitsAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(srv.URL, kv.NewMemoryStore())
	if _, err := client.UserInfo(context.Background()); err != nil {
		t.Fatalf("user info: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClientUnauthorizedClearsCredentialAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := kv.NewMemoryStore()
	creds.Set(kvkeys.AuthToken, []byte("stale"))
	creds.Set(kvkeys.User, []byte(`{"id":1}`))

	fired := false
	client := New(srv.URL, creds)
	client.OnUnauthorized = func() { fired = true }

	_, err := client.ListDocuments(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !fired {
		t.Fatalf("expected OnUnauthorized to fire")
	}
	if _, ok := creds.Get(kvkeys.AuthToken); ok {
		t.Fatalf("expected token cleared")
	}
	if _, ok := creds.Get(kvkeys.User); ok {
		t.Fatalf("expected user cleared")
	}
}

func TestClientPrefersBackendErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"file type not supported"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, kv.NewMemoryStore())
	_, err := client.StartAnalysis(context.Background(), "D1")
	if err == nil || !strings.Contains(err.Error(), "file type not supported") {
		t.Fatalf("expected backend message, got %v", err)
	}
}

func TestClientFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	}))
	defer srv.Close()

	client := New(srv.URL, kv.NewMemoryStore())
	_, err := client.StartAnalysis(context.Background(), "D1")
	if err == nil || !strings.Contains(err.Error(), "failed to start analysis") {
		t.Fatalf("expected generic message, got %v", err)
	}
}

func TestUploadSendsMultipartFields(t *testing.T) {
	var gotRoute, gotType, gotFile, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotRoute = r.FormValue("document_route")
		gotType = r.FormValue("document_type")
		if files := r.MultipartForm.File["files"]; len(files) == 1 {
			gotFile = files[0].Filename
			f, _ := files[0].Open()
			defer f.Close()
			buf := make([]byte, 16)
			n, _ := f.Read(buf)
			gotContent = string(buf[:n])
		}
		w.Write([]byte(`{"documents":[{"id":"D1","name":"cv.pdf","type":"cv","route":"visual_art"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, kv.NewMemoryStore())
	docs, err := client.UploadDocuments(context.Background(), UploadRequest{
		Files:    []UploadFile{{Name: "cv.pdf", Content: strings.NewReader("pdf-bytes")}},
		Route:    "visual_art",
		Evidence: "cv",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "D1" {
		t.Fatalf("unexpected documents %+v", docs)
	}
	if gotRoute != "visual_art" || gotType != "cv" {
		t.Fatalf("unexpected form fields route=%q type=%q", gotRoute, gotType)
	}
	if gotFile != "cv.pdf" || gotContent != "pdf-bytes" {
		t.Fatalf("unexpected file part %q %q", gotFile, gotContent)
	}
}

func TestAnalysisByDocumentUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("document_id") != "D1" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"analysis":{"id":"A1","document_id":"D1","status":"completed","analysis_result":"fine work"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, kv.NewMemoryStore())
	a, err := client.AnalysisByDocument(context.Background(), "D1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.ID != "A1" || a.Status != "completed" || string(a.AnalysisResult) != "fine work" {
		t.Fatalf("unexpected analysis %+v", a)
	}
}
