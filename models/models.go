package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"salescast/utils"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// --- Stored datasets ---

// CSVFile is an uploaded dataset blob as kept in the document store.
type CSVFile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Data      []byte    `json:"-"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Info strips the blob, for listings.
func (f *CSVFile) Info() CSVFileInfo {
	return CSVFileInfo{ID: f.ID, Name: f.Name, Size: f.Size, CreatedAt: f.CreatedAt}
}

// CSVFileInfo describes a stored dataset without its contents.
type CSVFileInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaginatedFilesResponse is the response for GET /api/v1/files.
type PaginatedFilesResponse struct {
	Data       []CSVFileInfo     `json:"data"`
	Pagination *utils.Pagination `json:"pagination"`
}
