package masterdata

import "errors"

// Fatal input conditions. Both abort a run before any row is processed;
// row-level failures are never errors, they are counted in ImportStats.
var (
	ErrSourceMissing = errors.New("source file not found")
	ErrMissingColumn = errors.New("missing required column")
)
