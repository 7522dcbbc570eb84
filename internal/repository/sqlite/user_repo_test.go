package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mk-hx/cadence/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and reads back a user", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		user := mustUser(t, "alice", "alice@example.com", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		got, err := repo.GetByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected ID %q, got %q", user.ID, got.ID)
		}
		if got.Username != "alice" {
			t.Errorf("expected username alice, got %q", got.Username)
		}
		if got.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %q", got.Email)
		}
		if !got.CreatedAt.Equal(user.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", user.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		now := time.Now().UTC()
		if err := repo.Create(ctx, mustUser(t, "alice", "alice@example.com", now)); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		err := repo.Create(ctx, mustUser(t, "alice", "other@example.com", now))
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		now := time.Now().UTC()
		if err := repo.Create(ctx, mustUser(t, "alice", "alice@example.com", now)); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		err := repo.Create(ctx, mustUser(t, "bob", "alice@example.com", now))
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
	})
}

func TestUserRepository_Get(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := mustUser(t, "alice", "alice@example.com", time.Now().UTC())
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	t.Run("by username", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to get user by username: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected ID %q, got %q", user.ID, got.ID)
		}
	})

	t.Run("by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected ID %q, got %q", user.ID, got.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, "no-such-id"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("GetByID: expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("GetByUsername: expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("GetByEmail: expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	t.Run("empty", func(t *testing.T) {
		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected no users, got %d", len(users))
		}
	})

	t.Run("newest first", func(t *testing.T) {
		base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		for i, name := range []string{"first", "second", "third"} {
			u := mustUser(t, name, name+"@example.com", base.Add(time.Duration(i)*time.Minute))
			if err := repo.Create(ctx, u); err != nil {
				t.Fatalf("failed to create user %s: %v", name, err)
			}
		}

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("expected 3 users, got %d", len(users))
		}
		for i, want := range []string{"third", "second", "first"} {
			if users[i].Username != want {
				t.Errorf("position %d: expected %q, got %q", i, want, users[i].Username)
			}
		}
	})
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates username and email", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		user := mustUser(t, "alice", "alice@example.com", time.Now().UTC())
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		user.Username = "alice2"
		user.Email = "alice2@example.com"
		if err := repo.Update(ctx, user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		got, err := repo.GetByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Username != "alice2" || got.Email != "alice2@example.com" {
			t.Errorf("update not applied, got username=%q email=%q", got.Username, got.Email)
		}
	})

	t.Run("rejects taken username", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		now := time.Now().UTC()
		if err := repo.Create(ctx, mustUser(t, "alice", "alice@example.com", now)); err != nil {
			t.Fatalf("failed to create alice: %v", err)
		}
		bob := mustUser(t, "bob", "bob@example.com", now)
		if err := repo.Create(ctx, bob); err != nil {
			t.Fatalf("failed to create bob: %v", err)
		}

		bob.Username = "alice"
		if err := repo.Update(ctx, bob); !errors.Is(err, domain.ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		ghost := mustUser(t, "ghost", "ghost@example.com", time.Now().UTC())
		if err := repo.Update(ctx, ghost); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing user", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		user := mustUser(t, "alice", "alice@example.com", time.Now().UTC())
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if err := repo.Delete(ctx, user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound after delete, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		if err := repo.Delete(ctx, "no-such-id"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("cascades to owned playlists", func(t *testing.T) {
		db := newTestDB(t)
		users := NewUserRepository(db)
		playlists := NewPlaylistRepository(db)
		songs := NewSongRepository(db)

		now := time.Now().UTC()
		owner := mustUser(t, "alice", "alice@example.com", now)
		if err := users.Create(ctx, owner); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		playlist := mustPlaylist(t, "Morning Mix", owner.ID, now)
		if err := playlists.Create(ctx, playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		song := mustSong(t, "Aurora", "Lumen", "Ambient", 180, now)
		if err := songs.Create(ctx, song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}
		if _, err := playlists.AddTrack(ctx, playlist.ID, song.ID); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}

		if err := users.Delete(ctx, owner.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := playlists.GetByID(ctx, playlist.ID); !errors.Is(err, domain.ErrPlaylistNotFound) {
			t.Errorf("expected playlist to be cascade-deleted, got %v", err)
		}

		var junctionRows int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM playlist_songs`).Scan(&junctionRows); err != nil {
			t.Fatalf("failed to count junction rows: %v", err)
		}
		if junctionRows != 0 {
			t.Errorf("expected 0 junction rows after cascade, got %d", junctionRows)
		}

		// The song itself is untouched.
		if _, err := songs.GetByID(ctx, song.ID); err != nil {
			t.Errorf("song should survive the cascade: %v", err)
		}
	})
}

func TestUserRepository_Exists(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := mustUser(t, "alice", "alice@example.com", time.Now().UTC())
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	cases := []struct {
		name string
		fn   func() (bool, error)
		want bool
	}{
		{"by id present", func() (bool, error) { return repo.Exists(ctx, user.ID) }, true},
		{"by id absent", func() (bool, error) { return repo.Exists(ctx, "missing") }, false},
		{"by username present", func() (bool, error) { return repo.ExistsByUsername(ctx, "alice") }, true},
		{"by username absent", func() (bool, error) { return repo.ExistsByUsername(ctx, "bob") }, false},
		{"by email present", func() (bool, error) { return repo.ExistsByEmail(ctx, "alice@example.com") }, true},
		{"by email absent", func() (bool, error) { return repo.ExistsByEmail(ctx, "bob@example.com") }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
