package file

import (
	"errors"
	"time"
)

// Record represents one stored upload. Src holds the base64-encoded content
// exactly as received; Filename is the resolved, per-user-unique name.
type Record struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"`
	Mimetype    string    `json:"mimetype"`
	Src         string    `json:"src"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository defines the interface for file record data access. Filename
// uniqueness is scoped per user: implementations must reject an insert whose
// (user_id, filename) pair already exists with ErrDuplicateFilename, so the
// handler can re-resolve against a fresh snapshot.
type Repository interface {
	Create(record *Record) (*Record, error)
	CreateBatch(records []*Record) ([]*Record, error)
	GetByID(id int64) (*Record, bool)
	ListByUser(userID int64) ([]*Record, error)
	FilenamesByUser(userID int64) ([]string, error)
	CountByUser(userID int64) (int64, error)
	Count() (int64, error)
}

// MaxFileSize caps the decoded payload at 8 megabytes
const MaxFileSize = 8 * 1024 * 1024

// Errors
var (
	ErrDuplicateFilename = errors.New("filename already exists for this user")
	ErrNoFile            = errors.New("no file provided")
	ErrInvalidBase64     = errors.New("file content is not valid base64")
	ErrFileTooLarge      = errors.New("file size exceeds 8MB limit")
)
