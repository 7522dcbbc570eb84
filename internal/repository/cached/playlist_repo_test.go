package cached

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mk-hx/cadence/internal/cache/memory"
	"github.com/mk-hx/cadence/internal/domain"
)

// MockPlaylistRepository is a map-backed mock that counts duration reads so
// tests can tell whether a call was served from the cache.
type MockPlaylistRepository struct {
	playlists     map[string]*domain.Playlist
	tracks        map[string][]*domain.Song
	durationCalls int
}

func NewMockPlaylistRepository() *MockPlaylistRepository {
	return &MockPlaylistRepository{
		playlists: make(map[string]*domain.Playlist),
		tracks:    make(map[string][]*domain.Song),
	}
}

func (m *MockPlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	m.playlists[playlist.ID] = playlist
	return nil
}

func (m *MockPlaylistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	if p, ok := m.playlists[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPlaylistNotFound
}

func (m *MockPlaylistRepository) List(ctx context.Context) ([]*domain.Playlist, error) {
	var result []*domain.Playlist
	for _, p := range m.playlists {
		result = append(result, p)
	}
	return result, nil
}

func (m *MockPlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	var result []*domain.Playlist
	for _, p := range m.playlists {
		if p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockPlaylistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	if _, ok := m.playlists[playlist.ID]; !ok {
		return domain.ErrPlaylistNotFound
	}
	m.playlists[playlist.ID] = playlist
	return nil
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.playlists[id]; !ok {
		return domain.ErrPlaylistNotFound
	}
	delete(m.playlists, id)
	delete(m.tracks, id)
	return nil
}

func (m *MockPlaylistRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.playlists[id]
	return ok, nil
}

func (m *MockPlaylistRepository) AddTrack(ctx context.Context, playlistID, songID string) (*domain.PlaylistTrack, error) {
	if _, ok := m.playlists[playlistID]; !ok {
		return nil, domain.ErrPlaylistNotFound
	}
	song := &domain.Song{ID: songID, Title: songID, Artist: "x", Genre: "x", Duration: 100}
	m.tracks[playlistID] = append(m.tracks[playlistID], song)
	return domain.NewPlaylistTrack(playlistID, songID, len(m.tracks[playlistID]))
}

func (m *MockPlaylistRepository) RemoveTrack(ctx context.Context, playlistID, songID string) error {
	kept := m.tracks[playlistID][:0]
	removed := false
	for _, s := range m.tracks[playlistID] {
		if s.ID == songID {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return domain.ErrTrackNotFound
	}
	m.tracks[playlistID] = kept
	return nil
}

func (m *MockPlaylistRepository) GetTracks(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	return m.tracks[playlistID], nil
}

func (m *MockPlaylistRepository) TotalDuration(ctx context.Context, playlistID string) (int, error) {
	m.durationCalls++
	total := 0
	for _, s := range m.tracks[playlistID] {
		total += s.Duration
	}
	return total, nil
}

func newCachedPlaylistFixture(t *testing.T) (*MockPlaylistRepository, *domain.Playlist, *playlistRepository) {
	t.Helper()

	inner := NewMockPlaylistRepository()
	cache := memory.NewCache(time.Minute)
	t.Cleanup(cache.Stop)

	repo := NewPlaylistRepository(inner, cache, time.Minute, zerolog.Nop()).(*playlistRepository)

	playlist, err := domain.NewPlaylist("Morning Mix", "owner-1")
	if err != nil {
		t.Fatalf("failed to build playlist: %v", err)
	}
	if err := repo.Create(context.Background(), playlist); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	return inner, playlist, repo
}

func TestCachedPlaylistRepository_TotalDuration(t *testing.T) {
	ctx := context.Background()

	t.Run("second read served from cache", func(t *testing.T) {
		inner, playlist, repo := newCachedPlaylistFixture(t)

		if _, err := repo.AddTrack(ctx, playlist.ID, "song-1"); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}

		for i := 0; i < 3; i++ {
			total, err := repo.TotalDuration(ctx, playlist.ID)
			if err != nil {
				t.Fatalf("failed to total duration: %v", err)
			}
			if total != 100 {
				t.Errorf("expected 100, got %d", total)
			}
		}

		if inner.durationCalls != 1 {
			t.Errorf("expected 1 inner read, got %d", inner.durationCalls)
		}
	})

	t.Run("add track invalidates the aggregate", func(t *testing.T) {
		_, playlist, repo := newCachedPlaylistFixture(t)

		if _, err := repo.AddTrack(ctx, playlist.ID, "song-1"); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}
		if _, err := repo.TotalDuration(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to total duration: %v", err)
		}

		if _, err := repo.AddTrack(ctx, playlist.ID, "song-2"); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}

		total, err := repo.TotalDuration(ctx, playlist.ID)
		if err != nil {
			t.Fatalf("failed to total duration: %v", err)
		}
		if total != 200 {
			t.Errorf("expected 200 after second track, got %d", total)
		}
	})

	t.Run("remove track invalidates the aggregate", func(t *testing.T) {
		_, playlist, repo := newCachedPlaylistFixture(t)

		if _, err := repo.AddTrack(ctx, playlist.ID, "song-1"); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}
		if _, err := repo.AddTrack(ctx, playlist.ID, "song-2"); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}
		if _, err := repo.TotalDuration(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to total duration: %v", err)
		}

		if err := repo.RemoveTrack(ctx, playlist.ID, "song-1"); err != nil {
			t.Fatalf("failed to remove track: %v", err)
		}

		total, err := repo.TotalDuration(ctx, playlist.ID)
		if err != nil {
			t.Fatalf("failed to total duration: %v", err)
		}
		if total != 100 {
			t.Errorf("expected 100 after removal, got %d", total)
		}
	})
}

func TestCachedPlaylistRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("rename through the decorator serves fresh data", func(t *testing.T) {
		_, playlist, repo := newCachedPlaylistFixture(t)

		if _, err := repo.GetByID(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}

		renamed := *playlist
		renamed.Name = "Evening Mix"
		if err := repo.Update(ctx, &renamed); err != nil {
			t.Fatalf("failed to update playlist: %v", err)
		}

		got, err := repo.GetByID(ctx, playlist.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if got.Name != "Evening Mix" {
			t.Errorf("expected fresh name after invalidation, got %q", got.Name)
		}
	})

	t.Run("delete drops both entries", func(t *testing.T) {
		_, playlist, repo := newCachedPlaylistFixture(t)

		if _, err := repo.GetByID(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if _, err := repo.TotalDuration(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to total duration: %v", err)
		}

		if err := repo.Delete(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		if _, err := repo.GetByID(ctx, playlist.ID); err == nil {
			t.Error("expected not-found after delete")
		}
	})
}
