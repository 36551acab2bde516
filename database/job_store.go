package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tieubaoca/consent-draft-be/types"
)

// FileJobStore keeps the filename -> job mapping in one flat JSON file
// guarded by a single mutex. It is intentionally not a database:
// status recording only needs at-least-once durability, and the guard
// makes concurrent read-modify-write sequences safe.
type FileJobStore struct {
	mu   sync.Mutex
	path string
}

func NewFileJobStore(path string) (*FileJobStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create jobs directory: %w", err)
		}
	}
	return &FileJobStore{path: path}, nil
}

func (s *FileJobStore) Load() (map[string]types.UploadJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileJobStore) Save(jobs map[string]types.UploadJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(jobs)
}

// Update runs load-mutate-save as one critical section. All callers
// that modify the mapping must go through here, otherwise a concurrent
// background completion can clobber the change.
func (s *FileJobStore) Update(mutate func(jobs map[string]types.UploadJob) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.load()
	if err != nil {
		return err
	}
	if err := mutate(jobs); err != nil {
		return err
	}
	return s.save(jobs)
}

func (s *FileJobStore) load() (map[string]types.UploadJob, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]types.UploadJob), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	jobs := make(map[string]types.UploadJob)
	if len(data) == 0 {
		return jobs, nil
	}
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	return jobs, nil
}

func (s *FileJobStore) save(jobs map[string]types.UploadJob) error {
	data, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("failed to encode job file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}
