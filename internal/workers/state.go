package workers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-delta-sync/models"
)

// State is what a client remembers between pulls.
type State struct {
	LastPulledAt models.Watermark `json:"last_pulled_at"`
}

// FileState keeps a [State] in a JSON file. Writes replace the file
// atomically.
type FileState struct {
	path string
	mu   sync.Mutex
}

func NewFileState(path string) *FileState {
	return &FileState{path: path}
}

// Load returns the stored state. A missing file is the zero state.
func (f *FileState) Load() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err = json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode state file %s: %w", f.path, err)
	}
	return state, nil
}

func (f *FileState) Save(state State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
