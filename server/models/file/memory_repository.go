package file

import (
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory file record store. It enforces the same
// per-user filename uniqueness as the PostgreSQL implementation.
type MemoryRepository struct {
	sync.RWMutex
	records   map[int64]*Record
	names     map[int64]map[string]int64 // userID -> filename -> record ID
	idCounter int64
}

// NewMemoryRepository creates a new MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[int64]*Record),
		names:   make(map[int64]map[string]int64),
	}
}

func (r *MemoryRepository) insertLocked(record *Record, now time.Time) error {
	userNames := r.names[record.UserID]
	if userNames == nil {
		userNames = make(map[string]int64)
		r.names[record.UserID] = userNames
	}
	if _, exists := userNames[record.Filename]; exists {
		return ErrDuplicateFilename
	}

	r.idCounter++
	record.ID = r.idCounter
	record.CreatedAt = now

	stored := *record
	r.records[record.ID] = &stored
	userNames[record.Filename] = record.ID
	return nil
}

// Create adds a single record to the store
func (r *MemoryRepository) Create(record *Record) (*Record, error) {
	r.Lock()
	defer r.Unlock()

	if err := r.insertLocked(record, time.Now()); err != nil {
		return nil, err
	}
	return record, nil
}

// CreateBatch adds all records, or none if any filename is already taken
func (r *MemoryRepository) CreateBatch(records []*Record) ([]*Record, error) {
	r.Lock()
	defer r.Unlock()

	batchNames := make(map[int64]map[string]struct{})
	for _, record := range records {
		userNames := r.names[record.UserID]
		if _, exists := userNames[record.Filename]; exists {
			return nil, ErrDuplicateFilename
		}
		seen := batchNames[record.UserID]
		if seen == nil {
			seen = make(map[string]struct{})
			batchNames[record.UserID] = seen
		}
		if _, dup := seen[record.Filename]; dup {
			return nil, ErrDuplicateFilename
		}
		seen[record.Filename] = struct{}{}
	}

	now := time.Now()
	for _, record := range records {
		if err := r.insertLocked(record, now); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// GetByID retrieves a record by ID
func (r *MemoryRepository) GetByID(id int64) (*Record, bool) {
	r.RLock()
	defer r.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, false
	}
	result := *record
	return &result, true
}

// ListByUser retrieves all records for one user, newest first
func (r *MemoryRepository) ListByUser(userID int64) ([]*Record, error) {
	r.RLock()
	defer r.RUnlock()

	var result []*Record
	for _, record := range r.records {
		if record.UserID == userID {
			copied := *record
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// FilenamesByUser returns the filenames the user currently owns
func (r *MemoryRepository) FilenamesByUser(userID int64) ([]string, error) {
	r.RLock()
	defer r.RUnlock()

	userNames := r.names[userID]
	names := make([]string, 0, len(userNames))
	for name := range userNames {
		names = append(names, name)
	}
	return names, nil
}

// CountByUser returns the number of records owned by one user
func (r *MemoryRepository) CountByUser(userID int64) (int64, error) {
	r.RLock()
	defer r.RUnlock()
	return int64(len(r.names[userID])), nil
}

// Count returns the total number of stored records
func (r *MemoryRepository) Count() (int64, error) {
	r.RLock()
	defer r.RUnlock()
	return int64(len(r.records)), nil
}
