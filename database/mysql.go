package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"salescast/models"
)

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS csv_files (
	id         VARCHAR(36) PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	data       LONGBLOB NOT NULL,
	size       INT NOT NULL,
	created_at DATETIME(6) NOT NULL
)`

// MySQLStore keeps datasets in a MySQL or MariaDB table.
type MySQLStore struct {
	db *sql.DB
}

// OpenMySQL accepts either a mysql:// / mariadb:// URL or a native driver DSN.
func OpenMySQL(ctx context.Context, databaseURL string) (*MySQLStore, error) {
	dsn, err := toMySQLDSN(databaseURL)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, mysqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create csv_files table: %w", err)
	}

	log.Info().Msg("✅ [DB] Successfully connected to MySQL")
	return &MySQLStore{db: db}, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pass, _ = u.User.Password()
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

func (s *MySQLStore) SaveFile(ctx context.Context, name string, data []byte) (*models.CSVFile, error) {
	f := newFile(name, data)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO csv_files (id, name, data, size, created_at) VALUES (?, ?, ?, ?, ?)",
		f.ID, f.Name, f.Data, f.Size, f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return f, nil
}

func (s *MySQLStore) FindFile(ctx context.Context, id string) (*models.CSVFile, error) {
	var f models.CSVFile
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, data, size, created_at FROM csv_files WHERE id = ?", id).
		Scan(&f.ID, &f.Name, &f.Data, &f.Size, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select file: %w", err)
	}
	return &f, nil
}

func (s *MySQLStore) ListFiles(ctx context.Context, limit, offset int) ([]models.CSVFileInfo, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM csv_files").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, size, created_at FROM csv_files ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
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

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *MySQLStore) Close() {
	s.db.Close()
	log.Info().Msg("Database connection pool closed")
}
