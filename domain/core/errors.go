package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrArtifactNotFound = fmt.Errorf("%w: artifact", ErrNotFound)
	ErrSeriesNotFound   = fmt.Errorf("%w: series", ErrNotFound)

	// Estimation errors. These describe defects in the inputs or the
	// numerics themselves and are distinct from a fit that is simply
	// insignificant: an insignificant fit returns normally with a large
	// p-value, an estimation error returns no fit at all.
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInsufficientDOF = errors.New("insufficient degrees of freedom")
	ErrSingularDesign  = errors.New("singular design matrix")
	ErrNoConverge      = errors.New("numerical routine did not converge")

	// Collection errors
	ErrRateLimited = errors.New("rate limited by upstream")
	ErrBadStatus   = errors.New("unexpected upstream status")
	ErrEmptySample = errors.New("empty sample")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context
func NewShapeError(op string, ar, ac, br, bc int) error {
	return fmt.Errorf("%w: %s on %dx%d and %dx%d", ErrShapeMismatch, op, ar, ac, br, bc)
}

func NewVectorShapeError(op string, rows, n int) error {
	return fmt.Errorf("%w: %s with %d rows against vector of length %d", ErrShapeMismatch, op, rows, n)
}

func NewDOFError(n, k int) error {
	return fmt.Errorf("%w: n=%d observations for k=%d parameters", ErrInsufficientDOF, n, k)
}

func NewSingularError(col int) error {
	return fmt.Errorf("%w: zero pivot in column %d", ErrSingularDesign, col)
}

func NewConvergenceError(routine string, iterations int) error {
	return fmt.Errorf("%w: %s after %d iterations", ErrNoConverge, routine, iterations)
}

func NewStatusError(api string, status int) error {
	return fmt.Errorf("%w: %s returned %d", ErrBadStatus, api, status)
}

// Error checking helpers
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsEstimationError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrInsufficientDOF) ||
		errors.Is(err, ErrSingularDesign) ||
		errors.Is(err, ErrNoConverge)
}

func IsSingular(err error) bool {
	return errors.Is(err, ErrSingularDesign)
}

func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func IsCollectionError(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrBadStatus) ||
		errors.Is(err, ErrEmptySample)
}
