package file

import (
	"time"

	"filebin/server/bsql"

	"github.com/lib/pq"
)

// PostgresRepository implements the Repository interface for PostgreSQL.
// The files table carries UNIQUE (user_id, filename); a violation surfaces
// as ErrDuplicateFilename.
type PostgresRepository struct {
	db *bsql.DB
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository(db *bsql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// uniqueViolation is the PostgreSQL error code for unique_violation
const uniqueViolation = "23505"

func translateInsertError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return ErrDuplicateFilename
	}
	return err
}

// Create inserts a single file record
func (r *PostgresRepository) Create(record *Record) (*Record, error) {
	now := time.Now()

	id, err := r.db.Insert("files", map[string]interface{}{
		"user_id":     record.UserID,
		"description": record.Description,
		"filename":    record.Filename,
		"mimetype":    record.Mimetype,
		"src":         record.Src,
		"created_at":  now,
	})
	if err != nil {
		return nil, translateInsertError(err)
	}

	record.ID = id
	record.CreatedAt = now
	return record, nil
}

// CreateBatch inserts all records in one statement. The whole batch fails
// on any duplicate filename so the caller can re-resolve and retry.
func (r *PostgresRepository) CreateBatch(records []*Record) ([]*Record, error) {
	if len(records) == 0 {
		return records, nil
	}

	now := time.Now()
	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]interface{}{
			"user_id":     record.UserID,
			"description": record.Description,
			"filename":    record.Filename,
			"mimetype":    record.Mimetype,
			"src":         record.Src,
			"created_at":  now,
		})
	}

	ids, err := r.db.BulkInsert("files", rows)
	if err != nil {
		return nil, translateInsertError(err)
	}

	for i, record := range records {
		record.ID = ids[i]
		record.CreatedAt = now
	}
	return records, nil
}

// GetByID retrieves a file record by its ID
func (r *PostgresRepository) GetByID(id int64) (*Record, bool) {
	record := &Record{}
	err := r.db.QueryRow(
		`SELECT id, user_id, description, filename, mimetype, src, created_at
		 FROM files WHERE id = $1`,
		id,
	).Scan(
		&record.ID,
		&record.UserID,
		&record.Description,
		&record.Filename,
		&record.Mimetype,
		&record.Src,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, false
	}
	return record, true
}

// ListByUser retrieves all file records for one user, newest first
func (r *PostgresRepository) ListByUser(userID int64) ([]*Record, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, description, filename, mimetype, src, created_at
		 FROM files WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record := &Record{}
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Description,
			&record.Filename,
			&record.Mimetype,
			&record.Src,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// FilenamesByUser returns the snapshot of filenames the user currently owns.
// This is the existing-name source the allocator resolves against.
func (r *PostgresRepository) FilenamesByUser(userID int64) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT filename FROM files WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// CountByUser returns the number of records owned by one user
func (r *PostgresRepository) CountByUser(userID int64) (int64, error) {
	return r.db.CountRows("files", "user_id = $1", userID)
}

// Count returns the total number of stored records
func (r *PostgresRepository) Count() (int64, error) {
	return r.db.CountRows("files", "")
}
