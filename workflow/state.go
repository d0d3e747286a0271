package workflow

import (
	"errors"

	"riskradar/apperrors"
	"riskradar/models"
)

// State is the view the dashboard is in.
type State string

const (
	StateIdle                State = "idle"
	StateResolving           State = "resolving"
	StateCandidatesPresented State = "candidates_presented"
	StateAnalyzing           State = "analyzing"
	StateSelected            State = "selected"
)

// InFlight reports whether a model request is running in this state.
func (s State) InFlight() bool {
	return s == StateResolving || s == StateAnalyzing
}

// AuthState is orthogonal to State. Unauthenticated blocks every model
// request until a credential is entered again.
type AuthState string

const (
	AuthConfigured      AuthState = "configured"
	AuthUnauthenticated AuthState = "unauthenticated"
)

var (
	ErrBusy              = errors.New("a request is already in flight")
	ErrEmptyQuery        = errors.New("query is empty")
	ErrEmptyCredential   = errors.New("api key is empty")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrBorrowerNotFound  = errors.New("borrower not found")
)

// Snapshot is a copy of the workflow taken under lock, safe to render.
type Snapshot struct {
	State         State                    `json:"state"`
	Auth          AuthState                `json:"authState"`
	Model         models.Model             `json:"model"`
	Busy          bool                     `json:"busy"`
	Query         string                   `json:"query,omitempty"`
	Candidates    []models.CandidateEntity `json:"candidates,omitempty"`
	Borrowers     []models.Borrower        `json:"borrowers"`
	Selected      *models.Borrower         `json:"selected,omitempty"`
	SelectedEntry *models.CacheEntry       `json:"selectedEntry,omitempty"`
	LastError     *apperrors.StandardError `json:"lastError,omitempty"`
}
