package masterdata

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Guard is the master-data write gate. It is read from the environment once
// at startup and threaded into every mutation path by value, so lock state is
// testable without touching the process environment.
//
// This is an advisory, process-local gate: it does not serialize concurrent
// operator runs. The only hard safety net below it is the storage layer's
// unique-constraint behavior.
type Guard struct {
	Locked   bool
	Bypassed bool
}

// LockError is fatal and raised before any mutation.
type LockError struct {
	Op string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("master data is locked: %s refused; set BYPASS_MASTER_DATA_LOCK=true to run this import deliberately", e.Op)
}

// NewGuardFromEnv reads MASTER_DATA_LOCK and BYPASS_MASTER_DATA_LOCK.
func NewGuardFromEnv() Guard {
	return Guard{
		Locked:   envBool("MASTER_DATA_LOCK"),
		Bypassed: envBool("BYPASS_MASTER_DATA_LOCK"),
	}
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "true" || v == "1" || v == "yes"
}

// IsLocked reports whether mutations are refused: locked and not bypassed.
func (g Guard) IsLocked() bool {
	return g.Locked && !g.Bypassed
}

// AssertUnlocked fails with a LockError when the guard is closed. A bypassed
// lock is allowed through but logged, so bypassed production runs stay
// auditable.
func (g Guard) AssertUnlocked(op string) error {
	if g.IsLocked() {
		return &LockError{Op: op}
	}
	if g.Locked && g.Bypassed {
		logrus.WithField("operation", op).Warn("master data lock bypassed")
	}
	return nil
}
