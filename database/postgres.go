package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"

	"salescast/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS csv_files (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	data       BYTEA NOT NULL,
	size       INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps datasets in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres sets up the connection pool and makes sure the table exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create csv_files table: %w", err)
	}

	log.Info().Msg("✅ [DB] Successfully connected to PostgreSQL")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveFile(ctx context.Context, name string, data []byte) (*models.CSVFile, error) {
	f := newFile(name, data)
	_, err := s.pool.Exec(ctx,
		"INSERT INTO csv_files (id, name, data, size, created_at) VALUES ($1, $2, $3, $4, $5)",
		f.ID, f.Name, f.Data, f.Size, f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) FindFile(ctx context.Context, id string) (*models.CSVFile, error) {
	var f models.CSVFile
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, data, size, created_at FROM csv_files WHERE id = $1", id).
		Scan(&f.ID, &f.Name, &f.Data, &f.Size, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select file: %w", err)
	}
	return &f, nil
}

func (s *PostgresStore) ListFiles(ctx context.Context, limit, offset int) ([]models.CSVFileInfo, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM csv_files").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT id, name, size, created_at FROM csv_files ORDER BY created_at DESC, id LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []models.CSVFileInfo{}
	for rows.Next() {
		var f models.CSVFileInfo
		if err := rows.Scan(&f.ID, &f.Name, &f.Size, &f.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list files: %w", err)
	}
	return files, total, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
	log.Info().Msg("Database connection pool closed")
}
