package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"
)

// Session statuses.
const (
	StatusAccepted = "accepted"
	StatusScanning = "scanning"
	StatusDone     = "done"
	StatusError    = "error"
)

// Session is one scan request moving through the pipeline. The ID returned
// by Start is the first-phase acknowledgment; the filled Result delivered on
// the session is the second phase.
type Session struct {
	ID         string      `json:"id"`
	Source     string      `json:"source,omitempty"`
	Status     string      `json:"status"`
	Result     *ScanResult `json:"result,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	DurationMS int64       `json:"duration_ms,omitempty"`
}

// PageBuilder constructs the Page a scan will drive. Building may involve
// network fetches, so it runs inside the session goroutine, not in Start.
type PageBuilder func(ctx context.Context) (Page, error)

// Pipeline manages scan sessions.
type Pipeline struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	inflight map[string]string // source → running session ID
	history  *History          // nil = scan log disabled
}

// NewPipeline creates a pipeline. history may be nil.
func NewPipeline(history *History) *Pipeline {
	return &Pipeline{
		sessions: make(map[string]*Session),
		inflight: make(map[string]string),
		history:  history,
	}
}

// Start registers a scan session and returns its ID immediately; the scan
// itself runs in a goroutine. A source that already has a scan in flight
// gets the running session's ID back instead of a second, racing scan.
func (p *Pipeline) Start(ctx context.Context, source string, build PageBuilder) string {
	p.mu.Lock()
	if source != "" {
		if id, ok := p.inflight[source]; ok {
			p.mu.Unlock()
			slog.Debug("scan already in flight, returning existing session", slog.String("source", source), slog.String("id", id))
			return id
		}
	}
	id := generateID()
	s := &Session{ID: id, Source: source, Status: StatusAccepted, StartedAt: time.Now()}
	p.sessions[id] = s
	if source != "" {
		p.inflight[source] = id
	}
	p.mu.Unlock()

	slog.Info("scan session accepted", slog.String("id", id), slog.String("source", source))
	go p.run(ctx, s, build)
	return id
}

// Get returns a copy of the session state.
func (p *Pipeline) Get(id string) (*Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *s
	if s.Result != nil {
		rc := *s.Result
		rc.Videos = make([]VideoRecord, len(s.Result.Videos))
		copy(rc.Videos, s.Result.Videos)
		cp.Result = &rc
	}
	return &cp, true
}

func (p *Pipeline) run(ctx context.Context, s *Session, build PageBuilder) {
	if cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ScanTimeout)
		defer cancel()
	}

	p.mu.Lock()
	s.Status = StatusScanning
	p.mu.Unlock()

	started := time.Now()
	var res ScanResult
	page, err := build(ctx)
	if err != nil {
		metrics.ScanErrors.Add(1)
		res = ScanResult{Type: MsgScanResult, Videos: []VideoRecord{}, Error: err.Error()}
	} else {
		res = Scan(ctx, page)
	}

	p.mu.Lock()
	s.Result = &res
	s.DurationMS = time.Since(started).Milliseconds()
	s.Status = StatusDone
	if res.Error != "" {
		s.Status = StatusError
	}
	if s.Source != "" {
		delete(p.inflight, s.Source)
	}
	p.mu.Unlock()

	if p.history != nil {
		if err := p.history.Record(context.Background(), s.Source, res, time.Since(started)); err != nil {
			slog.Warn("scan history write failed", slog.Any("error", err))
		}
	}
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
