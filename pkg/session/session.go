// Package session tracks one domain's multi-module analysis run: the active
// domain, the selected module and the results completed so far.
//
// Every analysis request is identified by a Ticket. A result is committed
// only if its ticket is still current: the session has not been reset or
// restarted since the ticket was issued (generation), and no newer request
// was issued for the same module (token).
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/helmcode/seo-ai/pkg/model"
)

var ErrInvalidState = errors.New("invalid session state")

type State string

const (
	StateNoDomain  State = "NO_DOMAIN"
	StateAnalyzing State = "ANALYZING"
	StateReady     State = "READY"
)

// Ticket identifies one issued analysis request.
type Ticket struct {
	Module     model.Module
	Domain     string
	generation uint64
	token      uint64
}

type Session struct {
	mu sync.Mutex

	domain  string
	active  model.Module
	results map[model.Module]*model.AnalysisResult

	generation uint64
	nextToken  uint64
	// latest holds the newest token issued per module in this generation;
	// a module is pending while it has an entry.
	latest map[model.Module]uint64
}

func New() *Session {
	return &Session{
		active:  model.DefaultModule,
		results: map[model.Module]*model.AnalysisResult{},
		latest:  map[model.Module]uint64{},
	}
}

// StartAnalysis sets a new domain, clears all results and issues a ticket
// for the default module. Tickets of the previous domain become stale.
func (s *Session) StartAnalysis(domain string) (Ticket, error) {
	if domain == "" {
		return Ticket{}, fmt.Errorf("%w: empty domain", ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
	s.domain = domain
	return s.issue(model.DefaultModule), nil
}

// SelectModule makes m the active module. It returns a ticket and true when
// the module has no result yet and must be analyzed; a cached module is
// ready immediately.
func (s *Session) SelectModule(m model.Module) (Ticket, bool, error) {
	if !m.Valid() {
		return Ticket{}, false, fmt.Errorf("%w: %q", model.ErrUnknownModule, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.domain == "" {
		return Ticket{}, false, fmt.Errorf("%w: no domain", ErrInvalidState)
	}
	s.active = m
	if _, cached := s.results[m]; cached {
		return Ticket{}, false, nil
	}
	return s.issue(m), true, nil
}

// Complete stores result for the ticket's module. It returns false without
// error when the ticket is stale (superseded or from an earlier domain).
func (s *Session) Complete(t Ticket, result *model.AnalysisResult) (bool, error) {
	if result == nil {
		return false, fmt.Errorf("%w: nil result", ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.token == 0 || t.token > s.nextToken {
		return false, fmt.Errorf("%w: ticket was not issued by this session", ErrInvalidState)
	}
	if t.generation != s.generation {
		return false, nil
	}
	latest, pending := s.latest[t.Module]
	if !pending || latest != t.token {
		return false, nil
	}

	delete(s.latest, t.Module)
	s.results[t.Module] = result
	return true, nil
}

// Current reports whether a result for t would still be committed.
func (s *Session) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.generation == s.generation && s.latest[t.Module] == t.token && t.token != 0
}

// Reset returns to NoDomain and invalidates every outstanding ticket.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Session) clear() {
	s.generation++
	s.domain = ""
	s.active = model.DefaultModule
	s.results = map[model.Module]*model.AnalysisResult{}
	s.latest = map[model.Module]uint64{}
}

func (s *Session) issue(m model.Module) Ticket {
	s.nextToken++
	s.latest[m] = s.nextToken
	return Ticket{
		Module:     m,
		Domain:     s.domain,
		generation: s.generation,
		token:      s.nextToken,
	}
}

// Result returns the cached result of a module.
func (s *Session) Result(m model.Module) (*model.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[m]
	return r, ok
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	Domain       string                                 `json:"domain,omitempty"`
	ActiveModule model.Module                           `json:"activeModule"`
	State        State                                  `json:"state"`
	Results      map[model.Module]*model.AnalysisResult `json:"results"`
	Pending      []model.Module                         `json:"pending"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Domain:       s.domain,
		ActiveModule: s.active,
		Results:      make(map[model.Module]*model.AnalysisResult, len(s.results)),
		Pending:      []model.Module{},
	}
	for m, r := range s.results {
		snap.Results[m] = r
	}
	for _, m := range model.Modules() {
		if _, ok := s.latest[m]; ok {
			snap.Pending = append(snap.Pending, m)
		}
	}

	switch {
	case s.domain == "":
		snap.State = StateNoDomain
	case s.results[s.active] != nil:
		snap.State = StateReady
	default:
		snap.State = StateAnalyzing
	}
	return snap
}

// Completed returns how many modules have a result.
func (snap Snapshot) Completed() int {
	return len(snap.Results)
}

// Progress is the completed share of all modules, 0-100.
func (snap Snapshot) Progress() int {
	return int(math.Round(float64(snap.Completed()) * 100 / float64(len(model.Modules()))))
}

// Active returns the active module's result, if any.
func (snap Snapshot) Active() *model.AnalysisResult {
	return snap.Results[snap.ActiveModule]
}
