package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/chatdj/internal/models"
	"github.com/desertthunder/chatdj/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.MigrateUp(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func testCreation(name string) *models.Creation {
	return &models.Creation{
		PlaylistID:  "pl_" + name,
		ExternalURL: "https://open.spotify.com/playlist/pl_" + name,
		Name:        name,
		Visibility:  "Private",
		TrackCount:  3,
		UserKey:     "u1",
	}
}

func TestCreationRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := NewCreationRepository(testDB(t))

		creation := testCreation("Chat Mix")
		if err := repo.Create(creation); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if creation.ID == "" || creation.Sequence == 0 {
			t.Errorf("expected generated id and sequence, got %q seq %d", creation.ID, creation.Sequence)
		}

		got, err := repo.Get(creation.ID)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.PlaylistID != creation.PlaylistID || got.Name != "Chat Mix" {
			t.Errorf("round trip mismatch: %+v", got)
		}
	})

	t.Run("Validation Failure Rejects The Row", func(t *testing.T) {
		repo := NewCreationRepository(testDB(t))

		if err := repo.Create(&models.Creation{Name: "no playlist id"}); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("List Newest First", func(t *testing.T) {
		repo := NewCreationRepository(testDB(t))

		for _, name := range []string{"first", "second", "third"} {
			if err := repo.Create(testCreation(name)); err != nil {
				t.Fatalf("failed to create %s: %v", name, err)
			}
		}

		creations, err := repo.List(2)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(creations) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(creations))
		}
		if creations[0].Name != "third" || creations[1].Name != "second" {
			t.Errorf("expected newest first, got %s then %s", creations[0].Name, creations[1].Name)
		}
	})

	t.Run("Delete Hides The Row", func(t *testing.T) {
		repo := NewCreationRepository(testDB(t))

		creation := testCreation("gone")
		if err := repo.Create(creation); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if err := repo.Delete(creation.ID); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		if _, err := repo.Get(creation.ID); err == nil {
			t.Error("expected soft-deleted row to be invisible")
		}
		if err := repo.Delete(creation.ID); err == nil {
			t.Error("expected second delete to fail")
		}
	})
}
