// Package lock keeps two streakwars processes from writing the same local
// state. The lockfile holds "pid|startedAt".
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/logger"
)

// ErrLocked is returned when a live process already holds the lock.
var ErrLocked = errors.New("another streakwars process is running")

// A lockfile younger than settleAge may still be mid-write by its creator,
// so an unreadable one is re-read before it is called stale.
const (
	settleAge      = 2 * time.Second
	settleInterval = 20 * time.Millisecond
	settleAttempts = 5
)

var (
	findProcessFunc = ps.FindProcess
	getPID          = os.Getpid
	now             = time.Now
	sleep           = time.Sleep
)

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID       int
	StartedAt time.Time
}

type Lock struct {
	path   string
	holder Holder
}

// Path returns the lockfile location for a config directory.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// ReadHolder parses the lockfile at path.
func ReadHolder(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Holder{}, errors.New("lockfile is malformed")
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	startedAt, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return Holder{}, errors.New("invalid start time in lockfile")
	}
	return Holder{PID: pid, StartedAt: startedAt}, nil
}

// IsAlive reports whether the holder's process is still a running
// streakwars binary.
func (h Holder) IsAlive() bool {
	process, err := findProcessFunc(h.PID)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}

// Acquire takes the lock in dir. A lockfile left by a dead or unrelated
// process is replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)
	holder := Holder{PID: getPID(), StartedAt: now().UTC().Truncate(time.Second)}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", holder.PID, holder.StartedAt.Format(time.RFC3339))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, holder: holder}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		existing, rerr := readSettled(path)
		if rerr != nil && !errors.Is(rerr, os.ErrNotExist) && isFresh(path) {
			return nil, fmt.Errorf("%w: %s is being written by another process", ErrLocked, path)
		}
		if rerr == nil && existing.PID != holder.PID && existing.IsAlive() {
			return nil, fmt.Errorf("%w (pid %d since %s)", ErrLocked, existing.PID, existing.StartedAt.Local().Format(time.Kitchen))
		}

		logger.Warn("Removing stale lockfile", "path", path, "error", rerr, "pid", existing.PID)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: could not claim %s", ErrLocked, path)
}

// readSettled reads the lockfile, retrying briefly while a fresh file does
// not parse yet.
func readSettled(path string) (Holder, error) {
	h, err := ReadHolder(path)
	for i := 0; err != nil && i < settleAttempts && !errors.Is(err, os.ErrNotExist) && isFresh(path); i++ {
		sleep(settleInterval)
		h, err = ReadHolder(path)
	}
	return h, err
}

func isFresh(path string) bool {
	info, err := os.Stat(path)
	return err == nil && time.Since(info.ModTime()) < settleAge
}

// Holder returns the process information written by Acquire.
func (l *Lock) Holder() Holder {
	return l.holder
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	current, err := ReadHolder(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if current.PID != l.holder.PID {
		return nil
	}
	return os.Remove(l.path)
}
