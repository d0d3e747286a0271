// Package workflow owns the dashboard's application state: the resolve,
// commit and analyze cycle, the borrower list and the analysis cache.
package workflow

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"riskradar/apperrors"
	"riskradar/logger"
	"riskradar/metrics"
	"riskradar/models"
	"riskradar/surveillance"
)

// Engine performs the two model backed steps.
type Engine interface {
	Resolve(ctx context.Context, query string, opts surveillance.CallOptions) ([]models.CandidateEntity, error)
	Analyze(ctx context.Context, name, industry string, opts surveillance.CallOptions) (*models.AnalysisResult, error)
}

type Options struct {
	Model      models.Model
	Credential string
	Clock      func() time.Time
}

// Workflow is the state machine behind one dashboard session.
//
// Only one model request runs at a time; a second one is refused with
// ErrBusy rather than queued. The mutex is never held across a model call.
type Workflow struct {
	engine Engine
	logger logger.Logger
	now    func() time.Time
	gate   *semaphore.Weighted

	mu         sync.Mutex
	state      State
	restore    State // Idle or Selected; where a failed request returns to
	auth       AuthState
	credential string
	model      models.Model
	query      string
	candidates []models.CandidateEntity
	borrowers  []models.Borrower // most recent first
	cache      map[string]models.CacheEntry
	selectedID string
	lastID     int64
	lastError  *apperrors.StandardError
}

func New(engine Engine, opts Options, log logger.Logger) *Workflow {
	if opts.Model == "" {
		opts.Model = models.DefaultModel
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	w := &Workflow{
		engine:     engine,
		logger:     log,
		now:        opts.Clock,
		gate:       semaphore.NewWeighted(1),
		state:      StateIdle,
		restore:    StateIdle,
		auth:       AuthConfigured,
		credential: strings.TrimSpace(opts.Credential),
		model:      opts.Model,
		cache:      make(map[string]models.CacheEntry),
	}
	if w.credential == "" {
		w.auth = AuthUnauthenticated
	}
	return w
}

// Submit resolves query into candidate entities.
func (w *Workflow) Submit(ctx context.Context, query string) ([]models.CandidateEntity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if !w.gate.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer w.gate.Release(1)

	w.mu.Lock()
	if err := w.requireCredentialLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.state == StateCandidatesPresented {
		// the new query replaces the open list
		w.candidates = nil
		w.transitionLocked(w.restore)
	}
	w.restore = w.state
	w.query = query
	w.lastError = nil
	call := w.callOptionsLocked()
	w.transitionLocked(StateResolving)
	w.mu.Unlock()

	candidates, err := w.engine.Resolve(ctx, query, call)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failLocked("resolve", err)
		return nil, err
	}
	w.candidates = candidates
	w.transitionLocked(StateCandidatesPresented)
	return cloneCandidates(candidates), nil
}

// Dismiss closes the candidate list without committing.
func (w *Workflow) Dismiss() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCandidatesPresented {
		return ErrInvalidTransition
	}
	w.candidates = nil
	w.query = ""
	w.transitionLocked(w.restore)
	return nil
}

// Commit analyzes the candidate at index. On success the new Borrower is
// placed at the head of the list together with its cache entry.
func (w *Workflow) Commit(ctx context.Context, index int) (models.Borrower, error) {
	if !w.gate.TryAcquire(1) {
		return models.Borrower{}, ErrBusy
	}
	defer w.gate.Release(1)

	w.mu.Lock()
	if w.state != StateCandidatesPresented {
		w.mu.Unlock()
		return models.Borrower{}, ErrInvalidTransition
	}
	if index < 0 || index >= len(w.candidates) {
		w.mu.Unlock()
		return models.Borrower{}, ErrCandidateNotFound
	}
	if err := w.requireCredentialLocked(); err != nil {
		w.mu.Unlock()
		return models.Borrower{}, err
	}
	candidate := w.candidates[index]
	w.candidates = nil
	w.query = ""
	w.lastError = nil
	call := w.callOptionsLocked()
	w.transitionLocked(StateAnalyzing)
	w.mu.Unlock()

	result, err := w.engine.Analyze(ctx, candidate.Name, candidate.Industry, call)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failLocked("analyze", err)
		return models.Borrower{}, err
	}

	id := w.nextIDLocked()
	borrower := models.NewBorrower(id, candidate, *result, w.now())
	w.borrowers = append([]models.Borrower{borrower}, w.borrowers...)
	w.cache[id] = models.NewCacheEntry(*result)
	w.selectedID = id
	w.transitionLocked(StateSelected)

	w.logger.Info("borrower added", map[string]interface{}{
		"borrower_id": id,
		"name":        borrower.Name,
		"risk_status": borrower.RiskStatus,
		"signals":     borrower.SignalsCount,
	})
	return borrower, nil
}

// Select shows an existing borrower. It never calls the model. While a
// request is in flight the selection becomes the state a failure returns to.
func (w *Workflow) Select(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.cache[id]; !ok {
		return ErrBorrowerNotFound
	}
	w.selectedID = id
	if w.state.InFlight() {
		w.restore = StateSelected
		return nil
	}
	w.candidates = nil
	w.query = ""
	w.transitionLocked(StateSelected)
	return nil
}

// SetCredential supplies a new API key and leaves the unauthenticated state.
func (w *Workflow) SetCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyCredential
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credential = key
	w.auth = AuthConfigured
	w.lastError = nil
	return nil
}

// SetModel switches the model used by the next request.
func (w *Workflow) SetModel(model models.Model) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.model = model
}

// Borrower returns a borrower and its cached analysis.
func (w *Workflow) Borrower(id string) (models.Borrower, models.CacheEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry, ok := w.cache[id]
	if !ok {
		return models.Borrower{}, models.CacheEntry{}, ErrBorrowerNotFound
	}
	for _, b := range w.borrowers {
		if b.ID == id {
			return b, entry, nil
		}
	}
	return models.Borrower{}, models.CacheEntry{}, ErrBorrowerNotFound
}

// Borrowers returns the portfolio, most recent first.
func (w *Workflow) Borrowers() []models.Borrower {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Borrower(nil), w.borrowers...)
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		State:      w.state,
		Auth:       w.auth,
		Model:      w.model,
		Busy:       w.state.InFlight(),
		Query:      w.query,
		Candidates: cloneCandidates(w.candidates),
		Borrowers:  append([]models.Borrower{}, w.borrowers...),
		LastError:  w.lastError,
	}
	if w.state == StateSelected {
		for i := range w.borrowers {
			if w.borrowers[i].ID == w.selectedID {
				b := w.borrowers[i]
				entry := w.cache[b.ID]
				snap.Selected = &b
				snap.SelectedEntry = &entry
				break
			}
		}
	}
	return snap
}

func (w *Workflow) requireCredentialLocked() error {
	if w.auth == AuthConfigured && w.credential != "" {
		return nil
	}
	w.auth = AuthUnauthenticated
	var err *apperrors.StandardError
	if w.credential == "" {
		err = apperrors.NewCredentialMissingError()
	} else {
		err = apperrors.NewCredentialInvalidError(errors.New("api key must be entered again"))
	}
	w.lastError = err
	return err
}

func (w *Workflow) callOptionsLocked() surveillance.CallOptions {
	return surveillance.CallOptions{Model: w.model, APIKey: w.credential}
}

// failLocked restores the pre-request state. Nothing from the failed
// request is kept.
func (w *Workflow) failLocked(operation string, err error) {
	se := apperrors.Normalize(err)
	w.lastError = se
	if se.Kind == apperrors.KindCredential {
		w.auth = AuthUnauthenticated
	}
	w.transitionLocked(w.restore)

	w.logger.Warn("request failed", map[string]interface{}{
		"operation": operation,
		"kind":      se.Kind,
		"code":      se.Code,
		"restored":  w.state,
	})
}

func (w *Workflow) transitionLocked(to State) {
	from := w.state
	w.state = to
	if from != to {
		metrics.WorkflowTransitions.WithLabelValues(string(from), string(to)).Inc()
	}
}

// nextIDLocked derives a borrower id from the clock, bumped when two
// commits land in the same millisecond.
func (w *Workflow) nextIDLocked() string {
	id := w.now().UnixMilli()
	if id <= w.lastID {
		id = w.lastID + 1
	}
	w.lastID = id
	return strconv.FormatInt(id, 10)
}

func cloneCandidates(in []models.CandidateEntity) []models.CandidateEntity {
	if in == nil {
		return nil
	}
	return append([]models.CandidateEntity(nil), in...)
}
