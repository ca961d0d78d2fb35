package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfmirror/inventory-service/internal/catalog"
)

// Session states. Exactly one matching/missing-detection pass runs at a
// time per session; a pass requested while one is in flight is deferred,
// not queued multiply.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateMatching State = "matching"
)

// tagScopedFetcher is the slice of the catalog client a session drives.
type tagScopedFetcher interface {
	FetchItemsByTag(ctx context.Context, tagID string) ([]catalog.Item, error)
	AddTagToItem(ctx context.Context, itemID, tagID string) error
}

// mirrorTagger keeps the mirror row's tag set consistent after a remote
// tag association.
type mirrorTagger interface {
	AddTag(ctx context.Context, id, tagID string) error
}

// Snapshot is the session's current reconciliation view.
type Snapshot struct {
	State      State        `json:"state"`
	Hints      ColumnHints  `json:"hints"`
	Matched    []Matched    `json:"matched"`
	Unmatched  []Unmatched  `json:"unmatched"`
	MissingTag []MissingTag `json:"missingTag"`
}

// Session is one operator-driven CSV reconciliation. It owns the parsed
// rows, the chosen options, and the freshest tag-scoped remote item list.
type Session struct {
	ID        string
	TagID     string
	CreatedAt time.Time

	client  tagScopedFetcher
	tagger  mirrorTagger
	engine  *Engine
	rows    []map[string]string
	hints   ColumnHints
	opts    Options
	values  []string

	mu          sync.Mutex
	state       State
	pending     bool
	remoteItems []catalog.Item
	result      MatchResult
	missing     []MissingTag
}

// NewSession creates a session over parsed vendor rows.
func NewSession(client tagScopedFetcher, tagger mirrorTagger, engine *Engine, tagID string, headers []string, rows []map[string]string, opts Options) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		TagID:     tagID,
		CreatedAt: time.Now(),
		client:    client,
		tagger:    tagger,
		engine:    engine,
		rows:      rows,
		hints:     InferColumns(headers),
		opts:      opts,
		state:     StateIdle,
	}
	s.values = collectValues(rows, opts.IdentifierColumn, s.hints.Name)
	return s
}

// Refresh re-fetches the tag-scoped remote items and re-runs matching and
// missing-tag detection. A refresh requested while a pass is running is
// deferred and coalesced into exactly one follow-up pass.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.pending = true
		s.mu.Unlock()
		return nil
	}
	s.state = StateFetching
	s.mu.Unlock()

	for {
		err := s.runPass(ctx)

		s.mu.Lock()
		if s.pending && err == nil {
			s.pending = false
			s.state = StateFetching
			s.mu.Unlock()
			continue
		}
		s.pending = false
		s.state = StateIdle
		s.mu.Unlock()
		return err
	}
}

func (s *Session) runPass(ctx context.Context) error {
	items, err := s.client.FetchItemsByTag(ctx, s.TagID)
	if err != nil {
		return fmt.Errorf("fetch tag-scoped items: %w", err)
	}

	s.mu.Lock()
	s.state = StateMatching
	s.mu.Unlock()

	result, err := s.engine.Match(s.rows, s.opts, items)
	if err != nil {
		return err
	}
	missing, err := s.engine.DetectMissingTags(ctx, s.TagID, s.values, items)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.remoteItems = items
	s.result = *result
	s.missing = missing
	s.mu.Unlock()
	return nil
}

// AddTag associates the session's vendor tag with an item remotely, mirrors
// the association locally, and refreshes so the item can migrate from
// MissingTag or Unmatched into Matched within the same session.
func (s *Session) AddTag(ctx context.Context, itemID string) error {
	if err := s.client.AddTagToItem(ctx, itemID, s.TagID); err != nil {
		return err
	}
	if s.tagger != nil {
		if err := s.tagger.AddTag(ctx, itemID, s.TagID); err != nil {
			return fmt.Errorf("mirror tag update: %w", err)
		}
	}
	return s.Refresh(ctx)
}

// Snapshot returns the session's current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		Hints:      s.hints,
		Matched:    append([]Matched(nil), s.result.Matched...),
		Unmatched:  append([]Unmatched(nil), s.result.Unmatched...),
		MissingTag: append([]MissingTag(nil), s.missing...),
	}
}

// Matched returns the current matched rows for a bulk apply.
func (s *Session) Matched() []Matched {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Matched(nil), s.result.Matched...)
}

func collectValues(rows []map[string]string, columns ...string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, row := range rows {
		for _, col := range columns {
			if col == "" {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

// SessionManager holds the live reconciliation sessions keyed by ID.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Put registers a session.
func (m *SessionManager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Get returns a session, or nil when unknown.
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Delete removes a session; dismissing a completed batch goes through here.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep drops sessions older than maxAge and returns how many were
// removed. An abandoned session holds its parsed rows and remote item
// snapshot in memory until swept.
func (m *SessionManager) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
