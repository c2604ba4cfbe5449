package masterdata

import (
	"errors"
	"strings"
	"testing"
)

func TestGuardAssertUnlocked(t *testing.T) {
	cases := []struct {
		name    string
		guard   Guard
		wantErr bool
	}{
		{"unlocked", Guard{}, false},
		{"locked", Guard{Locked: true}, true},
		{"locked with bypass", Guard{Locked: true, Bypassed: true}, false},
		{"bypass alone", Guard{Bypassed: true}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.guard.AssertUnlocked("test-op")
			if c.wantErr && err == nil {
				t.Fatal("expected LockError, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if err != nil {
				var lockErr *LockError
				if !errors.As(err, &lockErr) {
					t.Fatalf("expected *LockError, got %T", err)
				}
				if !strings.Contains(err.Error(), "BYPASS_MASTER_DATA_LOCK") {
					t.Errorf("error should carry remediation, got %q", err.Error())
				}
				if !strings.Contains(err.Error(), "test-op") {
					t.Errorf("error should name the operation, got %q", err.Error())
				}
			}
		})
	}
}

func TestGuardIsLocked(t *testing.T) {
	if (Guard{Locked: true, Bypassed: true}).IsLocked() {
		t.Error("bypass must open the gate")
	}
	if !(Guard{Locked: true}).IsLocked() {
		t.Error("lock without bypass must close the gate")
	}
	if (Guard{}).IsLocked() {
		t.Error("default guard must be open")
	}
}
