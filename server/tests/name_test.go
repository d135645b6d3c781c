package tests

import (
	"fmt"
	"testing"

	"filebin/server/models/file"
)

func TestSplitExt(t *testing.T) {
	cases := []struct {
		filename string
		base     string
		ext      string
	}{
		{"photo.png", "photo", "png"},
		{"archive.tar.gz", "archive.tar", "gz"},
		{"README", "README", ""},
		{"trailing.", "trailing", ""},
		{".gitignore", "", "gitignore"},
		{"", "", ""},
		{"test(1).png", "test(1)", "png"},
	}

	for _, tc := range cases {
		base, ext := file.SplitExt(tc.filename)
		if base != tc.base || ext != tc.ext {
			t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)", tc.filename, base, ext, tc.base, tc.ext)
		}
	}
}

func TestResolveName_NoCollision(t *testing.T) {
	existing := file.NameSet([]string{"other.png", "photo(1).png"})

	if got := file.ResolveName("photo.png", existing); got != "photo.png" {
		t.Errorf("expected desired name unchanged, got %q", got)
	}
}

func TestResolveName_EmptySet(t *testing.T) {
	if got := file.ResolveName("photo.png", file.NameSet(nil)); got != "photo.png" {
		t.Errorf("expected desired name unchanged against empty set, got %q", got)
	}
}

func TestResolveName_FirstCollision(t *testing.T) {
	existing := file.NameSet([]string{"photo.png"})

	if got := file.ResolveName("photo.png", existing); got != "photo(1).png" {
		t.Errorf("expected photo(1).png, got %q", got)
	}
}

func TestResolveName_NoExtension(t *testing.T) {
	existing := file.NameSet([]string{"README", "README(1)"})

	if got := file.ResolveName("README", existing); got != "README(2)" {
		t.Errorf("expected README(2), got %q", got)
	}
}

func TestResolveName_LowestFreeSuffix(t *testing.T) {
	// Suffixes 0, 1, 3, 5 taken: three sequential resolutions must fill the
	// gaps in order, never jump past them.
	existing := file.NameSet([]string{
		"doc.txt",
		"doc(1).txt",
		"doc(3).txt",
		"doc(5).txt",
	})

	want := []string{"doc(2).txt", "doc(4).txt", "doc(6).txt"}
	for _, expected := range want {
		got := file.ResolveName("doc.txt", existing)
		if got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
		existing[got] = struct{}{}
	}
}

func TestResolveName_LiteralParentheses(t *testing.T) {
	// A parenthesized digit group in the desired name is plain text, never
	// reinterpreted as a generated suffix.
	existing := file.NameSet([]string{"test(1).png"})

	got := file.ResolveName("test(1).png", existing)
	if got != "test(1)(1).png" {
		t.Fatalf("expected test(1)(1).png, got %q", got)
	}

	existing[got] = struct{}{}
	got = file.ResolveName("test(1).png", existing)
	if got != "test(1)(2).png" {
		t.Fatalf("expected test(1)(2).png, got %q", got)
	}
}

func TestResolveName_BobbyTablesScenario(t *testing.T) {
	existing := file.NameSet([]string{
		"bobby-tables(1).jpg",
		"bobby-tables(3).jpg",
		"bobby-tables(5).jpg",
	})

	// Desired is free: suffixed names don't block the plain one.
	got := file.ResolveName("bobby-tables.jpg", existing)
	if got != "bobby-tables.jpg" {
		t.Fatalf("expected bobby-tables.jpg, got %q", got)
	}
	existing[got] = struct{}{}

	want := []string{"bobby-tables(2).jpg", "bobby-tables(4).jpg", "bobby-tables(6).jpg"}
	for _, expected := range want {
		got := file.ResolveName("bobby-tables.jpg", existing)
		if got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
		existing[got] = struct{}{}
	}
}

func TestResolveName_ResultNeverInSet(t *testing.T) {
	existing := file.NameSet(nil)

	for i := 0; i < 50; i++ {
		got := file.ResolveName("report.pdf", existing)
		if _, taken := existing[got]; taken {
			t.Fatalf("iteration %d: resolved name %q already in set", i, got)
		}
		existing[got] = struct{}{}
	}

	// 50 inserts of the same desired name ended at suffix 49
	if _, ok := existing["report(49).pdf"]; !ok {
		t.Error("expected report(49).pdf after 50 resolutions")
	}
	if _, ok := existing["report(50).pdf"]; ok {
		t.Error("did not expect report(50).pdf after 50 resolutions")
	}
}

func TestResolveName_PerUserIsolation(t *testing.T) {
	// Two users' sets never affect each other's resolution.
	alice := file.NameSet([]string{"notes.txt"})
	bob := file.NameSet(nil)

	if got := file.ResolveName("notes.txt", alice); got != "notes(1).txt" {
		t.Errorf("expected notes(1).txt for alice, got %q", got)
	}
	if got := file.ResolveName("notes.txt", bob); got != "notes.txt" {
		t.Errorf("expected notes.txt for bob, got %q", got)
	}
}

func TestResolveName_DenseOccupancy(t *testing.T) {
	names := []string{"data.csv"}
	for n := 1; n <= 100; n++ {
		names = append(names, fmt.Sprintf("data(%d).csv", n))
	}
	existing := file.NameSet(names)

	if got := file.ResolveName("data.csv", existing); got != "data(101).csv" {
		t.Errorf("expected data(101).csv, got %q", got)
	}
}

func TestNameSet(t *testing.T) {
	set := file.NameSet([]string{"a.txt", "b.txt", "a.txt"})
	if len(set) != 2 {
		t.Errorf("expected 2 members, got %d", len(set))
	}
	if _, ok := set["a.txt"]; !ok {
		t.Error("expected a.txt in set")
	}
}
