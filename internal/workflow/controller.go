package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"portal-client/internal/analyses"
	"portal-client/internal/api"
	"portal-client/internal/documents"
	"portal-client/internal/shared/telemetry"
)

// DefaultPollInterval is how often an in-flight analysis is polled.
const DefaultPollInterval = 5 * time.Second

// Backend is the slice of the API client the workflow needs.
type Backend interface {
	UploadDocuments(ctx context.Context, req api.UploadRequest) ([]documents.Document, error)
	StartAnalysis(ctx context.Context, documentID string) (api.StartAnalysisResponse, error)
	AnalysisStatus(ctx context.Context, analysisID string) (api.AnalysisStatusResponse, error)
	AnalysisByDocument(ctx context.Context, documentID string) (analyses.Analysis, error)
}

// Status is the observable state of a workflow session.
type Status string

const (
	StatusIdle               Status = "idle"
	StatusUploading          Status = "uploading"
	StatusAnalysisPending    Status = "analysis_pending"
	StatusAnalysisProcessing Status = "analysis_processing"
	StatusCompleted          Status = "completed"
	StatusError              Status = "error"
)

// Snapshot is the state surface the UI observes.
type Snapshot struct {
	Status     Status
	DocumentID string
	AnalysisID string
	Result     *analyses.Analysis
	Err        error
}

// Controller drives one document through upload, analysis kick-off, and
// status polling. At most one run is active at a time: starting a new run
// cancels the previous one, and responses from a superseded run are
// dropped rather than applied.
type Controller struct {
	backend  Backend
	interval time.Duration

	// OnChange, when set, observes every state transition. It is called
	// without the controller lock held.
	OnChange func(Snapshot)

	mu       sync.Mutex
	files    []string
	route    documents.Route
	evidence documents.EvidenceType
	cancel   context.CancelFunc
	gen      int
	snap     Snapshot
	done     chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval overrides the polling interval; used by tests.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// New constructs a workflow controller.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		interval: DefaultPollInterval,
		snap:     Snapshot{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify records the route and evidence type for the next run.
func (c *Controller) Classify(route documents.Route, evidence documents.EvidenceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.route = route
	c.evidence = evidence
}

// SelectFiles replaces the pending selection and clears any previous
// result. The caller is expected to have run documents.ValidateSelection.
func (c *Controller) SelectFiles(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append([]string(nil), paths...)
	c.snap = Snapshot{Status: StatusIdle}
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Done returns a channel closed when the current run reaches a terminal
// state or is cancelled. With no run started it returns a closed channel.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// StartAnalysis begins a run for the current selection. It fails fast
// when nothing is selected; all later failures surface through the
// snapshot. A run already in flight is cancelled first, so at most one
// poll loop ever exists.
func (c *Controller) StartAnalysis(ctx context.Context) error {
	c.mu.Lock()
	if len(c.files) == 0 {
		c.mu.Unlock()
		return ErrNoFilesSelected
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	gen := c.gen
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	files := append([]string(nil), c.files...)
	route, evidence := c.route, c.evidence
	c.snap = Snapshot{Status: StatusUploading}
	observer := c.OnChange
	snap := c.snap
	c.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
	go c.run(runCtx, gen, done, files, route, evidence)
	return nil
}

// Teardown stops any active run. It is safe to call repeatedly and with
// no run active; late responses from a torn-down run are never applied.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
}

func (c *Controller) run(ctx context.Context, gen int, done chan struct{}, paths []string, route documents.Route, evidence documents.EvidenceType) {
	defer close(done)

	files, closeFiles, err := api.FilesFromPaths(paths)
	if err != nil {
		c.fail(gen, err)
		return
	}
	docs, err := c.backend.UploadDocuments(ctx, api.UploadRequest{Files: files, Route: route, Evidence: evidence})
	closeFiles()
	if err != nil {
		c.fail(gen, err)
		return
	}
	if len(docs) == 0 {
		c.fail(gen, errors.New("upload returned no documents"))
		return
	}
	documentID := docs[0].ID
	telemetry.Info("workflow.uploaded", map[string]any{"document_id": documentID})

	start, err := c.backend.StartAnalysis(ctx, documentID)
	if err != nil {
		c.fail(gen, err)
		return
	}
	c.update(gen, func(s *Snapshot) {
		s.Status = StatusAnalysisPending
		s.DocumentID = documentID
		s.AnalysisID = start.AnalysisID
	})

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		status, err := c.backend.AnalysisStatus(ctx, start.AnalysisID)
		if err != nil {
			// A failed poll is terminal for this run; the next tick would
			// otherwise race a user retry.
			c.fail(gen, err)
			return
		}
		switch status.Status {
		case analyses.StatusPending:
			c.update(gen, func(s *Snapshot) { s.Status = StatusAnalysisPending })
		case analyses.StatusProcessing:
			c.update(gen, func(s *Snapshot) { s.Status = StatusAnalysisProcessing })
		case analyses.StatusCompleted:
			full, err := c.backend.AnalysisByDocument(ctx, documentID)
			if err != nil {
				c.fail(gen, err)
				return
			}
			normalized := analyses.Normalize(full)
			c.update(gen, func(s *Snapshot) {
				s.Status = StatusCompleted
				s.Result = &normalized
			})
			return
		case analyses.StatusFailed:
			msg := status.ErrorMessage
			if msg == "" {
				msg = "analysis failed"
			}
			c.fail(gen, errors.New(msg))
			return
		default:
			telemetry.Warn("workflow.unknown_status", map[string]any{"status": string(status.Status), "analysis_id": start.AnalysisID})
		}
	}
}

func (c *Controller) fail(gen int, err error) {
	c.update(gen, func(s *Snapshot) {
		s.Status = StatusError
		s.Err = err
	})
}

// update applies a state transition unless the run has been superseded or
// torn down since the response was issued.
func (c *Controller) update(gen int, apply func(*Snapshot)) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	apply(&c.snap)
	snap := c.snap
	observer := c.OnChange
	c.mu.Unlock()
	if observer != nil {
		observer(snap)
	}
}
