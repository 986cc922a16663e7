package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
)

// Submission is one contact-form entry bound for the Notion database.
type Submission struct {
	Name          string
	Email         string
	Subject       string
	Message       string
	WeChat        string
	SelectedMedia string
	HasAttachment string
}

// Client creates pages in a single Notion database.
type Client struct {
	apiKey     string
	databaseID string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host; used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// NewClient constructs a Notion client for one database.
func NewClient(apiKey, databaseID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("NOTION_API_KEY is required")
	}
	if strings.TrimSpace(databaseID) == "" {
		return nil, fmt.Errorf("NOTION_DATABASE_ID is required")
	}
	c := &Client{
		apiKey:     apiKey,
		databaseID: databaseID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Text textContent `json:"text"`
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type richTextProperty struct {
	RichText []richText `json:"rich_text"`
}

type emailProperty struct {
	Email string `json:"email"`
}

type selectProperty struct {
	Select selectValue `json:"select"`
}

type selectValue struct {
	Name string `json:"name"`
}

type dateProperty struct {
	Date dateValue `json:"date"`
}

type dateValue struct {
	Start string `json:"start"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties map[string]any `json:"properties"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func text(s string) richTextProperty {
	return richTextProperty{RichText: []richText{{Text: textContent{Content: s}}}}
}

// CreateSubmission writes a contact-form entry as a new page. The row is
// tagged Status=New with the submission date so the database view can
// triage unread entries.
func (c *Client) CreateSubmission(ctx context.Context, sub Submission) error {
	reqBody := createPageRequest{
		Parent: pageParent{DatabaseID: c.databaseID},
		Properties: map[string]any{
			"Name":           titleProperty{Title: []richText{{Text: textContent{Content: sub.Name}}}},
			"Email":          emailProperty{Email: sub.Email},
			"Subject":        text(sub.Subject),
			"Message":        text(sub.Message),
			"WeChat":         text(sub.WeChat),
			"Selected Media": text(sub.SelectedMedia),
			"Has Attachment": text(sub.HasAttachment),
			"Status":         selectProperty{Select: selectValue{Name: "New"}},
			"Date Submitted": dateProperty{Date: dateValue{Start: time.Now().UTC().Format("2006-01-02")}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("notion error (%d %s): %s", resp.StatusCode, parsed.Code, parsed.Message)
	}
	return fmt.Errorf("notion error: status %d", resp.StatusCode)
}
