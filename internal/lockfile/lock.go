package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

// Holder identifies the process owning a lock.
type Holder struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// BusyError reports that another live session owns the target.
type BusyError struct {
	Target string
	Holder *Holder
}

func (e *BusyError) Error() string {
	if e.Holder != nil {
		return fmt.Sprintf("%s is locked by pid %d on %s since %s",
			e.Target, e.Holder.PID, e.Holder.Hostname, e.Holder.AcquiredAt.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s is locked by another stellar instance", e.Target)
}

// Lock is a held directory lock. Release it on both normal completion and
// interrupted shutdown.
type Lock struct {
	flk        *flock.Flock
	markerPath string
}

// Manager creates per-target locks inside the shared state directory.
type Manager struct {
	lockDir string
}

// NewManager returns a manager storing lock state under stateDir.
func NewManager(stateDir string) *Manager {
	return &Manager{lockDir: filepath.Join(stateDir, "locks")}
}

// Acquire takes the exclusive lock for a target directory. It fails fast with
// BusyError while a live holder exists and silently reclaims markers left by
// dead processes.
func (m *Manager) Acquire(target string) (*Lock, error) {
	if err := os.MkdirAll(m.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	key := targetKey(target)
	lockPath := filepath.Join(m.lockDir, key+".lock")
	markerPath := filepath.Join(m.lockDir, key+".json")

	flk := flock.New(lockPath)
	ok, err := flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		holder := readMarker(markerPath)
		if holder != nil && !processAlive(holder.PID) {
			// The recorded holder is gone; the flock owner must be a fresh
			// process that has not written its marker yet. Try once more
			// before reporting busy.
			if ok, err = flk.TryLock(); err != nil {
				return nil, fmt.Errorf("acquire lock: %w", err)
			}
		}
		if !ok {
			return nil, &BusyError{Target: target, Holder: holder}
		}
	}

	hostname, _ := os.Hostname()
	holder := Holder{PID: os.Getpid(), Hostname: hostname, AcquiredAt: time.Now().UTC()}
	if err := writeMarker(markerPath, holder); err != nil {
		_ = flk.Unlock()
		return nil, err
	}

	return &Lock{flk: flk, markerPath: markerPath}, nil
}

// Release unlocks the target and removes its holder marker.
func (l *Lock) Release() error {
	if l == nil || l.flk == nil {
		return nil
	}
	_ = os.Remove(l.markerPath)
	err := l.flk.Unlock()
	l.flk = nil
	return err
}

// IsBusy reports whether err is a lock contention failure.
func IsBusy(err error) bool {
	var busy *BusyError
	return errors.As(err, &busy)
}

func targetKey(target string) string {
	canonical, err := filepath.EvalSymlinks(target)
	if err != nil {
		canonical = filepath.Clean(target)
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:6])
}

func readMarker(path string) *Holder {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var holder Holder
	if err := json.Unmarshal(data, &holder); err != nil {
		return nil
	}
	return &holder
}

func writeMarker(path string, holder Holder) error {
	data, err := json.Marshal(holder)
	if err != nil {
		return fmt.Errorf("encode lock marker: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lock marker: %w", err)
	}
	return nil
}

// processAlive probes a pid with signal 0.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
