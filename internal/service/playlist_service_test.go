package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/lock"
)

// =============================================================================
// Mock Repository Types for PlaylistService
// =============================================================================

type mockPlaylistRepository struct {
	mock.Mock
}

func (m *mockPlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *mockPlaylistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Playlist), args.Error(1)
}

func (m *mockPlaylistRepository) List(ctx context.Context) ([]*domain.Playlist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Playlist), args.Error(1)
}

func (m *mockPlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Playlist), args.Error(1)
}

func (m *mockPlaylistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *mockPlaylistRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPlaylistRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPlaylistRepository) AddTrack(ctx context.Context, playlistID, songID string) (*domain.PlaylistTrack, error) {
	args := m.Called(ctx, playlistID, songID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaylistTrack), args.Error(1)
}

func (m *mockPlaylistRepository) RemoveTrack(ctx context.Context, playlistID, songID string) error {
	args := m.Called(ctx, playlistID, songID)
	return args.Error(0)
}

func (m *mockPlaylistRepository) GetTracks(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Song), args.Error(1)
}

func (m *mockPlaylistRepository) TotalDuration(ctx context.Context, playlistID string) (int, error) {
	args := m.Called(ctx, playlistID)
	return args.Int(0), args.Error(1)
}

// =============================================================================
// Helper Functions
// =============================================================================

func newTestPlaylistService() (*PlaylistService, *mockPlaylistRepository, *MockUserRepository, *mockSongRepository) {
	playlistRepo := new(mockPlaylistRepository)
	userRepo := NewMockUserRepository()
	songRepo := new(mockSongRepository)
	locker := lock.NewNoOpLocker()
	svc := NewPlaylistService(playlistRepo, userRepo, songRepo, locker, NewNormalizer(false), zerolog.Nop())
	return svc, playlistRepo, userRepo, songRepo
}

func ownedPlaylist(id, name, ownerID string) *domain.Playlist {
	return &domain.Playlist{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

// =============================================================================
// Test Cases
// =============================================================================

func TestPlaylistService_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   CreatePlaylistInput
		setup   func(*mockPlaylistRepository, *MockUserRepository)
		wantErr error
	}{
		{
			name:  "success",
			input: CreatePlaylistInput{Name: "Rock Classics", OwnerID: "u1"},
			setup: func(playlistRepo *mockPlaylistRepository, userRepo *MockUserRepository) {
				userRepo.AddUser("u1", "alice", "alice@example.com")
				playlistRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Playlist")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:    "owner does not exist",
			input:   CreatePlaylistInput{Name: "Rock Classics", OwnerID: "ghost"},
			setup:   func(playlistRepo *mockPlaylistRepository, userRepo *MockUserRepository) {},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "empty name",
			input:   CreatePlaylistInput{Name: "  ", OwnerID: "u1"},
			setup:   func(playlistRepo *mockPlaylistRepository, userRepo *MockUserRepository) {},
			wantErr: ErrInvalidPlaylistName,
		},
		{
			name:    "name too long",
			input:   CreatePlaylistInput{Name: strings.Repeat("n", MaxPlaylistNameLength+1), OwnerID: "u1"},
			setup:   func(playlistRepo *mockPlaylistRepository, userRepo *MockUserRepository) {},
			wantErr: ErrInvalidPlaylistName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, playlistRepo, userRepo, _ := newTestPlaylistService()
			tt.setup(playlistRepo, userRepo)

			output, err := svc.Create(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotEmpty(t, output.Playlist.ID)
				require.Equal(t, tt.input.Name, output.Playlist.Name)
				require.Equal(t, tt.input.OwnerID, output.Playlist.OwnerID)
			}

			mock.AssertExpectationsForObjects(t, playlistRepo)
		})
	}
}

func TestPlaylistService_Rename(t *testing.T) {
	tests := []struct {
		name    string
		input   RenamePlaylistInput
		setup   func(*mockPlaylistRepository)
		wantErr error
	}{
		{
			name:  "owner renames",
			input: RenamePlaylistInput{ID: "p1", Name: "Evening Mix", RequestingUserID: "u1"},
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
				repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Playlist")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:  "non-owner rejected",
			input: RenamePlaylistInput{ID: "p1", Name: "Evening Mix", RequestingUserID: "u2"},
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
			},
			wantErr: domain.ErrNotPlaylistOwner,
		},
		{
			name:  "trusted caller skips ownership check",
			input: RenamePlaylistInput{ID: "p1", Name: "Evening Mix", RequestingUserID: ""},
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
				repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Playlist")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:  "not found",
			input: RenamePlaylistInput{ID: "ghost", Name: "Evening Mix", RequestingUserID: "u1"},
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrPlaylistNotFound)
			},
			wantErr: domain.ErrPlaylistNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, playlistRepo, _, _ := newTestPlaylistService()
			tt.setup(playlistRepo)

			output, err := svc.Rename(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.input.Name, output.Playlist.Name)
			}

			mock.AssertExpectationsForObjects(t, playlistRepo)
		})
	}
}

func TestPlaylistService_Delete(t *testing.T) {
	tests := []struct {
		name             string
		playlistID       string
		requestingUserID string
		setup            func(*mockPlaylistRepository)
		wantErr          error
	}{
		{
			name:             "owner deletes",
			playlistID:       "p1",
			requestingUserID: "u1",
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
				repo.On("Delete", mock.Anything, "p1").Return(nil)
			},
			wantErr: nil,
		},
		{
			name:             "non-owner rejected",
			playlistID:       "p1",
			requestingUserID: "u2",
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
			},
			wantErr: domain.ErrNotPlaylistOwner,
		},
		{
			name:             "not found",
			playlistID:       "ghost",
			requestingUserID: "u1",
			setup: func(repo *mockPlaylistRepository) {
				repo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrPlaylistNotFound)
			},
			wantErr: domain.ErrPlaylistNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, playlistRepo, _, _ := newTestPlaylistService()
			tt.setup(playlistRepo)

			err := svc.Delete(context.Background(), tt.playlistID, tt.requestingUserID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			mock.AssertExpectationsForObjects(t, playlistRepo)
		})
	}
}

func TestPlaylistService_AddTrack(t *testing.T) {
	tests := []struct {
		name    string
		input   AddTrackInput
		setup   func(*mockPlaylistRepository, *mockSongRepository)
		wantErr error
	}{
		{
			name:  "success",
			input: AddTrackInput{PlaylistID: "p1", SongID: "s1", RequestingUserID: "u1"},
			setup: func(playlistRepo *mockPlaylistRepository, songRepo *mockSongRepository) {
				playlistRepo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
				songRepo.On("Exists", mock.Anything, "s1").Return(true, nil)
				track := &domain.PlaylistTrack{
					ID:         "t1",
					PlaylistID: "p1",
					SongID:     "s1",
					Position:   3,
					AddedAt:    time.Now().UTC(),
				}
				playlistRepo.On("AddTrack", mock.Anything, "p1", "s1").Return(track, nil)
			},
			wantErr: nil,
		},
		{
			name:  "song does not exist",
			input: AddTrackInput{PlaylistID: "p1", SongID: "ghost", RequestingUserID: "u1"},
			setup: func(playlistRepo *mockPlaylistRepository, songRepo *mockSongRepository) {
				playlistRepo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
				songRepo.On("Exists", mock.Anything, "ghost").Return(false, nil)
			},
			wantErr: domain.ErrSongNotFound,
		},
		{
			name:  "non-owner rejected before song lookup",
			input: AddTrackInput{PlaylistID: "p1", SongID: "s1", RequestingUserID: "u2"},
			setup: func(playlistRepo *mockPlaylistRepository, songRepo *mockSongRepository) {
				playlistRepo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
			},
			wantErr: domain.ErrNotPlaylistOwner,
		},
		{
			name:  "playlist does not exist",
			input: AddTrackInput{PlaylistID: "ghost", SongID: "s1", RequestingUserID: "u1"},
			setup: func(playlistRepo *mockPlaylistRepository, songRepo *mockSongRepository) {
				playlistRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrPlaylistNotFound)
			},
			wantErr: domain.ErrPlaylistNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, playlistRepo, _, songRepo := newTestPlaylistService()
			tt.setup(playlistRepo, songRepo)

			output, err := svc.AddTrack(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, 3, output.Track.Position)
			}

			mock.AssertExpectationsForObjects(t, playlistRepo, songRepo)
		})
	}
}

func TestPlaylistService_RemoveTrack(t *testing.T) {
	svc, playlistRepo, _, _ := newTestPlaylistService()
	playlistRepo.On("GetByID", mock.Anything, "p1").Return(ownedPlaylist("p1", "Rock Classics", "u1"), nil)
	playlistRepo.On("RemoveTrack", mock.Anything, "p1", "s1").Return(nil)
	playlistRepo.On("RemoveTrack", mock.Anything, "p1", "absent").Return(domain.ErrTrackNotFound)

	err := svc.RemoveTrack(context.Background(), RemoveTrackInput{
		PlaylistID: "p1", SongID: "s1", RequestingUserID: "u1",
	})
	require.NoError(t, err)

	err = svc.RemoveTrack(context.Background(), RemoveTrackInput{
		PlaylistID: "p1", SongID: "absent", RequestingUserID: "u1",
	})
	require.ErrorIs(t, err, domain.ErrTrackNotFound)

	mock.AssertExpectationsForObjects(t, playlistRepo)
}

func TestPlaylistService_GetTracks(t *testing.T) {
	svc, playlistRepo, _, _ := newTestPlaylistService()
	tracks := []*domain.Song{
		catalogSong("s1", "Aurora", "Beta Waves", "Ambient", 183),
		catalogSong("s2", "Cascade", "Alpha State", "Ambient", 220),
	}
	playlistRepo.On("Exists", mock.Anything, "p1").Return(true, nil)
	playlistRepo.On("GetTracks", mock.Anything, "p1").Return(tracks, nil)
	playlistRepo.On("Exists", mock.Anything, "ghost").Return(false, nil)

	got, err := svc.GetTracks(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Aurora", got[0].Title)

	_, err = svc.GetTracks(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrPlaylistNotFound)

	mock.AssertExpectationsForObjects(t, playlistRepo)
}

func TestPlaylistService_TotalDuration(t *testing.T) {
	svc, playlistRepo, _, _ := newTestPlaylistService()
	playlistRepo.On("Exists", mock.Anything, "p1").Return(true, nil)
	playlistRepo.On("TotalDuration", mock.Anything, "p1").Return(403, nil)
	playlistRepo.On("Exists", mock.Anything, "ghost").Return(false, nil)

	total, err := svc.TotalDuration(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 403, total)

	_, err = svc.TotalDuration(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrPlaylistNotFound)

	mock.AssertExpectationsForObjects(t, playlistRepo)
}
