// Package transaction provides the locking and journaling that keep an
// install of release binaries recoverable when it is interrupted.
package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// JournalFileName is the journal kept in the directory being modified.
const JournalFileName = "fetch.journal.json"

// State represents the current state of a journal entry.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Journal records the progress of one install.
type Journal struct {
	Version   int       `json:"version"` // Schema version for future evolution
	ID        string    `json:"id"`
	Release   string    `json:"release"`
	Timestamp time.Time `json:"timestamp"`
	Entries   []Entry   `json:"entries"`
}

// Entry tracks a single unit of work and the scratch paths it may leave
// behind if the process dies midway.
type Entry struct {
	Name      string   `json:"name"`
	State     State    `json:"state"`
	Scratch   []string `json:"scratch,omitempty"`
	LastError string   `json:"last_error,omitempty"`
}

// NewJournal creates a journal for installing release, with one pending
// entry per name.
func NewJournal(release string, names []string) *Journal {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{
			Name:  name,
			State: StatePending,
		})
	}

	return &Journal{
		Version:   1,
		ID:        uuid.New().String(),
		Release:   release,
		Timestamp: time.Now().UTC(),
		Entries:   entries,
	}
}

// Save writes the journal to <dir>/fetch.journal.json atomically.
func (j *Journal) Save(dir string) error {
	finalPath := filepath.Join(dir, JournalFileName)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temporary journal file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename journal file: %w", err)
	}

	return nil
}

// LoadJournal reads the journal left in dir. It returns (nil, nil) when
// there is none.
func LoadJournal(dir string) (*Journal, error) {
	data, err := os.ReadFile(filepath.Join(dir, JournalFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal file: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal journal: %w", err)
	}
	return &j, nil
}

// RemoveJournal deletes the journal in dir, if any.
func RemoveJournal(dir string) error {
	err := os.Remove(filepath.Join(dir, JournalFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove journal file: %w", err)
	}
	return nil
}

// Update sets the state of the named entry. Scratch paths are recorded
// when given; err, if non-nil, is kept as LastError.
func (j *Journal) Update(name string, state State, scratch []string, err error) {
	for i := range j.Entries {
		if j.Entries[i].Name != name {
			continue
		}
		j.Entries[i].State = state
		if len(scratch) > 0 {
			j.Entries[i].Scratch = scratch
		}
		if err != nil {
			j.Entries[i].LastError = err.Error()
		} else {
			j.Entries[i].LastError = ""
		}
		return
	}
}

// Completed returns true if every entry is in completed state.
func (j *Journal) Completed() bool {
	for _, e := range j.Entries {
		if e.State != StateCompleted {
			return false
		}
	}
	return len(j.Entries) > 0
}

// Leftovers returns the scratch paths of entries that did not complete.
func (j *Journal) Leftovers() []string {
	var paths []string
	for _, e := range j.Entries {
		if e.State != StateCompleted {
			paths = append(paths, e.Scratch...)
		}
	}
	return paths
}
