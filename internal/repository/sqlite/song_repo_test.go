package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mk-hx/cadence/internal/domain"
)

func TestSongRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and reads back a song", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSongRepository(db)

		song := mustSong(t, "Aurora", "Lumen", "Ambient", 245, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
		if err := repo.Create(ctx, song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		got, err := repo.GetByID(ctx, song.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Title != "Aurora" {
			t.Errorf("expected title Aurora, got %q", got.Title)
		}
		if got.Artist != "Lumen" {
			t.Errorf("expected artist Lumen, got %q", got.Artist)
		}
		if got.Genre != "Ambient" {
			t.Errorf("expected genre Ambient, got %q", got.Genre)
		}
		if got.Duration != 245 {
			t.Errorf("expected duration 245, got %d", got.Duration)
		}
		if !got.CreatedAt.Equal(song.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", song.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("rejects invalid duration", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSongRepository(db)

		song := &domain.Song{
			ID:        "s1",
			Title:     "Broken",
			Artist:    "Nobody",
			Genre:     "None",
			Duration:  0,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, song); !errors.Is(err, domain.ErrInvalidSong) {
			t.Errorf("expected ErrInvalidSong, got %v", err)
		}
	})
}

func TestSongRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSongRepository(db)

	t.Run("empty", func(t *testing.T) {
		songs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	seed := []*domain.Song{
		mustSong(t, "Zenith", "Beta Waves", "Ambient", 200, base),
		mustSong(t, "Afterglow", "Beta Waves", "Ambient", 180, base.Add(time.Minute)),
		mustSong(t, "Cascade", "Alpha State", "Ambient", 220, base.Add(2*time.Minute)),
		mustSong(t, "Drift", "Alpha State", "Techno", 300, base.Add(3*time.Minute)),
	}
	for _, s := range seed {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("failed to create song %s: %v", s.Title, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		songs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 4 {
			t.Fatalf("expected 4 songs, got %d", len(songs))
		}
		for i, want := range []string{"Drift", "Cascade", "Afterglow", "Zenith"} {
			if songs[i].Title != want {
				t.Errorf("position %d: expected %q, got %q", i, want, songs[i].Title)
			}
		}
	})

	t.Run("by artist ordered by title", func(t *testing.T) {
		songs, err := repo.ListByArtist(ctx, "Beta Waves")
		if err != nil {
			t.Fatalf("failed to list by artist: %v", err)
		}
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Title != "Afterglow" || songs[1].Title != "Zenith" {
			t.Errorf("expected [Afterglow Zenith], got [%s %s]", songs[0].Title, songs[1].Title)
		}
	})

	t.Run("by genre ordered by artist then title", func(t *testing.T) {
		songs, err := repo.ListByGenre(ctx, "Ambient")
		if err != nil {
			t.Fatalf("failed to list by genre: %v", err)
		}
		if len(songs) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(songs))
		}
		want := []string{"Cascade", "Afterglow", "Zenith"}
		for i, title := range want {
			if songs[i].Title != title {
				t.Errorf("position %d: expected %q, got %q", i, title, songs[i].Title)
			}
		}
	})

	t.Run("no match", func(t *testing.T) {
		songs, err := repo.ListByArtist(ctx, "Unknown Artist")
		if err != nil {
			t.Fatalf("failed to list by artist: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})
}

func TestSongRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces all fields", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSongRepository(db)

		song := mustSong(t, "Aurora", "Lumen", "Ambient", 245, time.Now().UTC())
		if err := repo.Create(ctx, song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		updated, err := song.Replace("Aurora (Remix)", "Lumen", "Techno", 310)
		if err != nil {
			t.Fatalf("failed to build replacement: %v", err)
		}
		if err := repo.Update(ctx, updated); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}

		got, err := repo.GetByID(ctx, song.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Title != "Aurora (Remix)" || got.Genre != "Techno" || got.Duration != 310 {
			t.Errorf("update not applied: %+v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSongRepository(db)

		ghost := mustSong(t, "Ghost", "Nobody", "None", 100, time.Now().UTC())
		if err := repo.Update(ctx, ghost); !errors.Is(err, domain.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})
}

func TestSongRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing song", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSongRepository(db)

		song := mustSong(t, "Aurora", "Lumen", "Ambient", 245, time.Now().UTC())
		if err := repo.Create(ctx, song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(ctx, song.ID); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		if _, err := repo.GetByID(ctx, song.ID); !errors.Is(err, domain.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound after delete, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSongRepository(db)

		if err := repo.Delete(ctx, "no-such-id"); !errors.Is(err, domain.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("detaches from playlists", func(t *testing.T) {
		db := newTestDB(t)
		users := NewUserRepository(db)
		songs := NewSongRepository(db)
		playlists := NewPlaylistRepository(db)

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

		if err := songs.Delete(ctx, song.ID); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		tracks, err := playlists.GetTracks(ctx, playlist.ID)
		if err != nil {
			t.Fatalf("failed to get tracks: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected song to be detached from playlist, got %d tracks", len(tracks))
		}
	})
}

func TestSongRepository_Exists(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSongRepository(db)

	song := mustSong(t, "Aurora", "Lumen", "Ambient", 245, time.Now().UTC())
	if err := repo.Create(ctx, song); err != nil {
		t.Fatalf("failed to create song: %v", err)
	}

	exists, err := repo.Exists(ctx, song.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected song to exist")
	}

	exists, err = repo.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected song to be absent")
	}
}
