package database

import (
	"context"
	"sync"

	"salescast/models"
)

// MemoryStore is a process-local FileStore for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]*models.CSVFile
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]*models.CSVFile)}
}

func (s *MemoryStore) SaveFile(_ context.Context, name string, data []byte) (*models.CSVFile, error) {
	f := newFile(name, append([]byte(nil), data...))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.ID] = f
	s.order = append(s.order, f.ID)

	out := *f
	return &out, nil
}

func (s *MemoryStore) FindFile(_ context.Context, id string) (*models.CSVFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	out := *f
	return &out, nil
}

func (s *MemoryStore) ListFiles(_ context.Context, limit, offset int) ([]models.CSVFileInfo, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	files := []models.CSVFileInfo{}
	for i := total - 1 - offset; i >= 0 && len(files) < limit; i-- {
		files = append(files, s.files[s.order[i]].Info())
	}
	return files, total, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() {}
