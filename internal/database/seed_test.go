package database

import (
	"context"
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db := testDB(t, CLIPool)

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only inserts into an empty table, so calling it twice must not
	// fail. Other packages may share this database, so it is not cleared.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var postCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&postCount); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if postCount < 1 {
		t.Errorf("expected at least 1 post, got %d", postCount)
	}
}
