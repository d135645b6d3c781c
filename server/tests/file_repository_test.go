package tests

import (
	"testing"

	"filebin/server/models/file"
)

func TestFileMemoryRepository_PerUserUniqueness(t *testing.T) {
	repo := file.NewMemoryRepository()

	if _, err := repo.Create(&file.Record{UserID: 1, Filename: "a.png", Src: "x"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Same filename, same user: rejected
	if _, err := repo.Create(&file.Record{UserID: 1, Filename: "a.png", Src: "x"}); err != file.ErrDuplicateFilename {
		t.Errorf("Expected ErrDuplicateFilename, got %v", err)
	}

	// Same filename, different user: allowed
	if _, err := repo.Create(&file.Record{UserID: 2, Filename: "a.png", Src: "x"}); err != nil {
		t.Errorf("Expected create for another user to succeed, got %v", err)
	}
}

func TestFileMemoryRepository_CreateBatchAtomic(t *testing.T) {
	repo := file.NewMemoryRepository()

	_, err := repo.CreateBatch([]*file.Record{
		{UserID: 1, Filename: "a.png", Src: "x"},
		{UserID: 1, Filename: "b.png", Src: "x"},
	})
	if err != nil {
		t.Fatalf("CreateBatch returned error: %v", err)
	}

	// One colliding name fails the whole batch
	_, err = repo.CreateBatch([]*file.Record{
		{UserID: 1, Filename: "c.png", Src: "x"},
		{UserID: 1, Filename: "a.png", Src: "x"},
	})
	if err != file.ErrDuplicateFilename {
		t.Fatalf("Expected ErrDuplicateFilename, got %v", err)
	}

	names, _ := repo.FilenamesByUser(1)
	if len(names) != 2 {
		t.Errorf("Expected 2 filenames after failed batch, got %d: %v", len(names), names)
	}

	// A batch repeating a name internally fails the whole batch too
	_, err = repo.CreateBatch([]*file.Record{
		{UserID: 1, Filename: "d.png", Src: "x"},
		{UserID: 1, Filename: "d.png", Src: "x"},
	})
	if err != file.ErrDuplicateFilename {
		t.Fatalf("Expected ErrDuplicateFilename for in-batch duplicate, got %v", err)
	}

	names, _ = repo.FilenamesByUser(1)
	if len(names) != 2 {
		t.Errorf("Expected no partial insert from duplicate batch, got %d names: %v", len(names), names)
	}
}

func TestFileMemoryRepository_FilenamesAndCounts(t *testing.T) {
	repo := file.NewMemoryRepository()

	repo.Create(&file.Record{UserID: 1, Filename: "a.png", Src: "x"})
	repo.Create(&file.Record{UserID: 1, Filename: "b.png", Src: "x"})
	repo.Create(&file.Record{UserID: 2, Filename: "c.png", Src: "x"})

	names, err := repo.FilenamesByUser(1)
	if err != nil {
		t.Fatalf("FilenamesByUser returned error: %v", err)
	}
	set := file.NameSet(names)
	if len(set) != 2 {
		t.Errorf("Expected 2 names for user 1, got %v", names)
	}

	if count, _ := repo.CountByUser(1); count != 2 {
		t.Errorf("Expected CountByUser 2, got %d", count)
	}
	if count, _ := repo.Count(); count != 3 {
		t.Errorf("Expected Count 3, got %d", count)
	}
}

func TestFileMemoryRepository_GetAndList(t *testing.T) {
	repo := file.NewMemoryRepository()

	saved, _ := repo.Create(&file.Record{UserID: 1, Filename: "a.png", Src: "x"})

	got, found := repo.GetByID(saved.ID)
	if !found || got.Filename != "a.png" {
		t.Error("Expected to find record by ID")
	}

	if _, found := repo.GetByID(999); found {
		t.Error("Did not expect to find record 999")
	}

	records, err := repo.ListByUser(1)
	if err != nil || len(records) != 1 {
		t.Errorf("Expected 1 record for user 1, got %d (err %v)", len(records), err)
	}
}
