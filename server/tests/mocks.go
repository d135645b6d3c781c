package tests

import (
	"sync"
	"time"

	"filebin/server/models/file"
	"filebin/server/models/user"
)

// ============================================================
// User Mock Repository
// ============================================================

// MockUserRepository is an in-memory implementation of user.Repository for testing
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*user.User
	byName map[string]*user.User
	nextID int64
	// Hooks for testing specific scenarios
	CreateUserError error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*user.User),
		byName: make(map[string]*user.User),
		nextID: 1,
	}
}

// CreateUser creates a new user in memory
func (r *MockUserRepository) CreateUser(username, hashedPassword string) (*user.User, error) {
	if r.CreateUserError != nil {
		return nil, r.CreateUserError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[username]; exists {
		return nil, user.ErrUserExists
	}

	u := &user.User{
		ID:        r.nextID,
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
	r.nextID++

	r.users[u.ID] = u
	r.byName[username] = u

	return u, nil
}

// GetUserByUsername retrieves a user by username
func (r *MockUserRepository) GetUserByUsername(username string) (*user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.byName[username]
	return u, exists
}

// GetUserByID retrieves a user by ID
func (r *MockUserRepository) GetUserByID(id int64) (*user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	return u, exists
}

// UpdateLastLogin updates the last login time for a user
func (r *MockUserRepository) UpdateLastLogin(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, exists := r.users[userID]; exists {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

// AddUser adds a user directly (for test setup)
func (r *MockUserRepository) AddUser(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.ID] = u
	r.byName[u.Username] = u
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
}

// ============================================================
// File Mock Repository
// ============================================================

// MockFileRepository is an in-memory implementation of file.Repository for
// testing. It enforces the per-user filename uniqueness the real table
// guarantees via its compound unique key.
type MockFileRepository struct {
	mu      sync.RWMutex
	records map[int64]*file.Record
	nextID  int64
	// Hooks for testing specific scenarios
	CreateError error
	ListError   error
	// DuplicateFailures makes the next N Create/CreateBatch calls fail as
	// if a concurrent upload had taken the filename first
	DuplicateFailures int
}

// NewMockFileRepository creates a new MockFileRepository
func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{
		records: make(map[int64]*file.Record),
		nextID:  1,
	}
}

func (r *MockFileRepository) takeDuplicateFailure() bool {
	if r.DuplicateFailures > 0 {
		r.DuplicateFailures--
		return true
	}
	return false
}

func (r *MockFileRepository) taken(userID int64, filename string) bool {
	for _, record := range r.records {
		if record.UserID == userID && record.Filename == filename {
			return true
		}
	}
	return false
}

// Create creates a new file record in memory
func (r *MockFileRepository) Create(record *file.Record) (*file.Record, error) {
	if r.CreateError != nil {
		return nil, r.CreateError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.takeDuplicateFailure() || r.taken(record.UserID, record.Filename) {
		return nil, file.ErrDuplicateFilename
	}

	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.nextID++

	stored := *record
	r.records[record.ID] = &stored

	return record, nil
}

// CreateBatch creates all records, or none on a duplicate filename
func (r *MockFileRepository) CreateBatch(records []*file.Record) ([]*file.Record, error) {
	if r.CreateError != nil {
		return nil, r.CreateError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.takeDuplicateFailure() {
		return nil, file.ErrDuplicateFilename
	}
	for _, record := range records {
		if r.taken(record.UserID, record.Filename) {
			return nil, file.ErrDuplicateFilename
		}
	}

	now := time.Now()
	for _, record := range records {
		record.ID = r.nextID
		record.CreatedAt = now
		r.nextID++

		stored := *record
		r.records[record.ID] = &stored
	}
	return records, nil
}

// GetByID retrieves a file record by ID
func (r *MockFileRepository) GetByID(id int64) (*file.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, false
	}

	result := *record
	return &result, true
}

// ListByUser retrieves all file records for a user
func (r *MockFileRepository) ListByUser(userID int64) ([]*file.Record, error) {
	if r.ListError != nil {
		return nil, r.ListError
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*file.Record
	for _, record := range r.records {
		if record.UserID == userID {
			copied := *record
			result = append(result, &copied)
		}
	}

	return result, nil
}

// FilenamesByUser returns the filenames a user currently owns
func (r *MockFileRepository) FilenamesByUser(userID int64) ([]string, error) {
	if r.ListError != nil {
		return nil, r.ListError
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, record := range r.records {
		if record.UserID == userID {
			names = append(names, record.Filename)
		}
	}
	return names, nil
}

// CountByUser returns the number of records owned by one user
func (r *MockFileRepository) CountByUser(userID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, record := range r.records {
		if record.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Count returns the total number of stored records
func (r *MockFileRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

// AddRecord adds a record directly (for test setup)
func (r *MockFileRepository) AddRecord(record *file.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == 0 {
		record.ID = r.nextID
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	stored := *record
	r.records[record.ID] = &stored

	if record.ID >= r.nextID {
		r.nextID = record.ID + 1
	}
}
