package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"portal-client/internal/analyses"
	"portal-client/internal/documents"
	"portal-client/internal/shared/kvkeys"
	"portal-client/internal/shared/storage/kv"
	"portal-client/internal/shared/telemetry"
)

// CacheTTL bounds how long a persisted envelope satisfies a load without
// a network refresh. An envelope exactly TTL old is stale.
const CacheTTL = 5 * time.Minute

// Backend is the slice of the API client the dashboard needs.
type Backend interface {
	ListDocuments(ctx context.Context) ([]documents.Document, error)
	AnalysisByDocument(ctx context.Context, documentID string) (analyses.Analysis, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// Envelope is the persisted snapshot of the user's documents and their
// latest analyses. It is written wholesale; lastFetchTime records the
// last successful full refresh in epoch milliseconds.
type Envelope struct {
	Documents     []documents.Document         `json:"documents"`
	Analyses      map[string]analyses.Analysis `json:"analyses"`
	LastFetchTime int64                        `json:"lastFetchTime"`
}

// Controller provides a TTL-bounded cached view of the user's documents
// with their analyses.
type Controller struct {
	backend Backend
	store   kv.Store
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithTTL overrides the cache TTL.
func WithTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock injects the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a dashboard controller.
func New(backend Backend, store kv.Store, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		store:   store,
		ttl:     CacheTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the user's documents and analyses. A fresh, non-empty
// cached envelope is returned without touching the network unless
// forceRefresh is set. On refresh, per-document analysis fetches reuse
// cached entries when not forced, and an individual fetch failure means
// "no analysis for this document" rather than a failed load. A failed
// document-list fetch is fatal and leaves the cache untouched.
func (c *Controller) Load(ctx context.Context, forceRefresh bool) (Envelope, error) {
	cached := c.readEnvelope()
	nowMillis := c.now().UnixMilli()

	if !forceRefresh && len(cached.Documents) > 0 && nowMillis-cached.LastFetchTime < c.ttl.Milliseconds() {
		return cached, nil
	}

	docs, err := c.backend.ListDocuments(ctx)
	if err != nil {
		return Envelope{}, err
	}

	next := Envelope{
		Documents:     docs,
		Analyses:      make(map[string]analyses.Analysis, len(docs)),
		LastFetchTime: c.now().UnixMilli(),
	}
	for _, doc := range docs {
		if !forceRefresh {
			if a, ok := cached.Analyses[doc.ID]; ok {
				next.Analyses[doc.ID] = a
				continue
			}
		}
		a, err := c.backend.AnalysisByDocument(ctx, doc.ID)
		if err != nil {
			// Most commonly a 404: the document has no analysis yet.
			telemetry.Info("dashboard.analysis_missing", map[string]any{"document_id": doc.ID, "error": err.Error()})
			continue
		}
		next.Analyses[doc.ID] = analyses.Normalize(a)
	}

	c.writeEnvelope(next)
	return next, nil
}

// DeleteDocument removes a document on the backend and, on success, from
// the cached envelope immediately. On failure the cache is untouched.
func (c *Controller) DeleteDocument(ctx context.Context, documentID string) error {
	if err := c.backend.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	cached := c.readEnvelope()
	kept := cached.Documents[:0:0]
	for _, doc := range cached.Documents {
		if doc.ID != documentID {
			kept = append(kept, doc)
		}
	}
	cached.Documents = kept
	delete(cached.Analyses, documentID)
	c.writeEnvelope(cached)
	return nil
}

// Invalidate drops the persisted envelope, forcing the next load to hit
// the network.
func (c *Controller) Invalidate() {
	if err := c.store.Remove(kvkeys.DashboardCache); err != nil {
		telemetry.Warn("dashboard.invalidate_failed", map[string]any{"error": err.Error()})
	}
}

// readEnvelope loads the persisted envelope. A missing or unreadable
// value is a cold cache, never an error.
func (c *Controller) readEnvelope() Envelope {
	empty := Envelope{Analyses: map[string]analyses.Analysis{}}
	raw, ok := c.store.Get(kvkeys.DashboardCache)
	if !ok {
		return empty
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		telemetry.Warn("dashboard.cache_unreadable", map[string]any{"error": err.Error()})
		return empty
	}
	if env.Analyses == nil {
		env.Analyses = map[string]analyses.Analysis{}
	}
	return env
}

func (c *Controller) writeEnvelope(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		telemetry.Error("dashboard.cache_encode_failed", map[string]any{"error": err.Error()})
		return
	}
	if err := c.store.Set(kvkeys.DashboardCache, payload); err != nil {
		telemetry.Error("dashboard.cache_write_failed", map[string]any{"error": err.Error()})
	}
}
