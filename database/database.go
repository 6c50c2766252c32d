package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"salescast/models"
)

// ErrFileNotFound is returned when no stored dataset has the requested id.
var ErrFileNotFound = errors.New("file not found")

// FileStore persists uploaded datasets. Implementations are safe for
// concurrent use.
type FileStore interface {
	SaveFile(ctx context.Context, name string, data []byte) (*models.CSVFile, error)
	FindFile(ctx context.Context, id string) (*models.CSVFile, error)
	// ListFiles returns one page of files, newest first, and the total count.
	ListFiles(ctx context.Context, limit, offset int) ([]models.CSVFileInfo, int, error)
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the store named by databaseURL. The scheme selects the
// backend: postgres, postgresql, mysql, mariadb or memory.
func Open(ctx context.Context, databaseURL string) (FileStore, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, databaseURL)
	case "mysql", "mariadb":
		return OpenMySQL(ctx, databaseURL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

func newFile(name string, data []byte) *models.CSVFile {
	return &models.CSVFile{
		ID:        uuid.NewString(),
		Name:      name,
		Data:      data,
		Size:      len(data),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
