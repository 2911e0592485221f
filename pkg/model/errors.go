package model

import "fmt"

// ErrorKind classifies engine errors into a fixed taxonomy that callers can
// branch on without parsing Message.
type ErrorKind int

const (
	// Validation errors (C1), detected before any item is generated.
	ErrEmptyLayer ErrorKind = iota
	ErrInvalidOutputSize
	ErrDimensionMismatch
	ErrInvalidRule
	ErrWeightOutOfRange

	// Feasibility errors, may occur at compile time or mid-run.
	ErrInfeasible

	// Transient errors, absorbed locally by the scheduler/solver.
	ErrSolverExhausted
	ErrCollisionRace
	ErrDecodeFailure

	// Resource errors.
	ErrMemoryBudgetExceeded
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrEmptyLayer:
		return "EmptyLayer"
	case ErrInvalidOutputSize:
		return "InvalidOutputSize"
	case ErrDimensionMismatch:
		return "DimensionMismatch"
	case ErrInvalidRule:
		return "InvalidRule"
	case ErrWeightOutOfRange:
		return "WeightOutOfRange"
	case ErrInfeasible:
		return "Infeasible"
	case ErrSolverExhausted:
		return "SolverExhausted"
	case ErrCollisionRace:
		return "CollisionRace"
	case ErrDecodeFailure:
		return "DecodeFailure"
	case ErrMemoryBudgetExceeded:
		return "MemoryBudgetExceeded"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// EngineError is the error type surfaced on the event stream and returned
// from engine APIs. It carries enough structure for callers to branch on
// Kind without parsing Message.
type EngineError struct {
	Kind    ErrorKind
	Message string

	// Requested/UpperBound are populated for ErrInfeasible.
	Requested  uint32
	UpperBound uint64

	// TraitID is populated for ErrDecodeFailure.
	TraitID TraitId
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewInfeasible builds an ErrInfeasible error carrying the requested count
// and the feasibility upper bound.
func NewInfeasible(requested uint32, upperBound uint64) *EngineError {
	return &EngineError{
		Kind:       ErrInfeasible,
		Message:    fmt.Sprintf("requested %d exceeds feasible upper bound %d", requested, upperBound),
		Requested:  requested,
		UpperBound: upperBound,
	}
}

// NewDecodeFailure builds an ErrDecodeFailure error for the given trait.
func NewDecodeFailure(traitID TraitId, cause error) *EngineError {
	return &EngineError{
		Kind:    ErrDecodeFailure,
		Message: fmt.Sprintf("trait %s: %v", traitID, cause),
		TraitID: traitID,
	}
}

// New builds a simple EngineError with no extra fields.
func New(kind ErrorKind, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
