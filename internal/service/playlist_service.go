package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/lock"
	"github.com/mk-hx/cadence/internal/repository"
)

// MaxPlaylistNameLength bounds playlist display names.
const MaxPlaylistNameLength = 100

// Track mutations serialize per playlist; positions are assigned as
// max(position)+1 and concurrent appends would race it.
const (
	trackLockTTL        = 10 * time.Second
	trackLockRetries    = 3
	trackLockRetryDelay = 100 * time.Millisecond
)

// PlaylistService handles playlist operations, including ownership checks
// on every mutation.
type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	userRepo     repository.UserRepository
	songRepo     repository.SongRepository
	locker       lock.Locker
	normalize    *Normalizer
	logger       zerolog.Logger
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	locker lock.Locker,
	normalize *Normalizer,
	logger zerolog.Logger,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		userRepo:     userRepo,
		songRepo:     songRepo,
		locker:       locker,
		normalize:    normalize,
		logger:       logger.With().Str("service", "playlist").Logger(),
	}
}

// CreatePlaylistInput contains the data needed to create a playlist.
type CreatePlaylistInput struct {
	Name    string
	OwnerID string
}

// CreatePlaylistOutput contains the result of creating a playlist.
type CreatePlaylistOutput struct {
	Playlist *domain.Playlist
}

// RenamePlaylistInput contains the data needed to rename a playlist.
// RequestingUserID identifies the caller for the ownership check; empty
// means a trusted caller and skips the check.
type RenamePlaylistInput struct {
	ID               string
	Name             string
	RequestingUserID string
}

// RenamePlaylistOutput contains the result of renaming a playlist.
type RenamePlaylistOutput struct {
	Playlist *domain.Playlist
}

// AddTrackInput contains the data needed to append a song to a playlist.
type AddTrackInput struct {
	PlaylistID       string
	SongID           string
	RequestingUserID string
}

// AddTrackOutput contains the created junction row, including the
// assigned position.
type AddTrackOutput struct {
	Track *domain.PlaylistTrack
}

// RemoveTrackInput contains the data needed to remove a song from a
// playlist. Every occurrence of the song is removed.
type RemoveTrackInput struct {
	PlaylistID       string
	SongID           string
	RequestingUserID string
}

// Create creates a new playlist owned by the given user.
func (s *PlaylistService) Create(ctx context.Context, input CreatePlaylistInput) (*CreatePlaylistOutput, error) {
	name := s.normalize.Name(input.Name)
	if name == "" || len(name) > MaxPlaylistNameLength {
		return nil, ErrInvalidPlaylistName
	}

	// The owner must exist before we hand the id to the storage layer.
	exists, err := s.userRepo.Exists(ctx, input.OwnerID)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to check owner existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: owner '%s'", domain.ErrUserNotFound, input.OwnerID)
	}

	playlist, err := domain.NewPlaylist(name, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create playlist")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("playlist_id", playlist.ID).
		Str("name", playlist.Name).
		Str("owner_id", playlist.OwnerID).
		Msg("playlist created")

	return &CreatePlaylistOutput{Playlist: playlist}, nil
}

// Get retrieves a playlist by ID. Tracks are not loaded; use GetTracks.
func (s *PlaylistService) Get(ctx context.Context, id string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return nil, domain.ErrPlaylistNotFound
		}
		s.logger.Error().Err(err).Str("playlist_id", id).Msg("failed to get playlist")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return playlist, nil
}

// List returns all playlists, newest first.
func (s *PlaylistService) List(ctx context.Context) ([]*domain.Playlist, error) {
	playlists, err := s.playlistRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list playlists")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return playlists, nil
}

// ListByOwner returns the playlists owned by a user, newest first.
func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	playlists, err := s.playlistRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list playlists by owner")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return playlists, nil
}

// Rename changes a playlist's name. Only the owner may rename it.
func (s *PlaylistService) Rename(ctx context.Context, input RenamePlaylistInput) (*RenamePlaylistOutput, error) {
	name := s.normalize.Name(input.Name)
	if name == "" || len(name) > MaxPlaylistNameLength {
		return nil, ErrInvalidPlaylistName
	}

	playlist, err := s.getForMutation(ctx, input.ID, input.RequestingUserID)
	if err != nil {
		return nil, err
	}

	playlist.Name = name

	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return nil, domain.ErrPlaylistNotFound
		}
		s.logger.Error().Err(err).Str("playlist_id", playlist.ID).Msg("failed to rename playlist")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("playlist_id", playlist.ID).
		Str("name", playlist.Name).
		Msg("playlist renamed")

	return &RenamePlaylistOutput{Playlist: playlist}, nil
}

// Delete removes a playlist and all of its track associations. Only the
// owner may delete it.
func (s *PlaylistService) Delete(ctx context.Context, id, requestingUserID string) error {
	if _, err := s.getForMutation(ctx, id, requestingUserID); err != nil {
		return err
	}

	if err := s.playlistRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return domain.ErrPlaylistNotFound
		}
		s.logger.Error().Err(err).Str("playlist_id", id).Msg("failed to delete playlist")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("playlist_id", id).Msg("playlist deleted")
	return nil
}

// AddTrack appends a song to the end of a playlist. Only the owner may
// modify the playlist. The same song may be added more than once.
func (s *PlaylistService) AddTrack(ctx context.Context, input AddTrackInput) (*AddTrackOutput, error) {
	lockKey := lock.Keys.PlaylistWrite(input.PlaylistID)
	acquired, err := s.locker.AcquireWithRetry(ctx, lockKey, trackLockTTL, trackLockRetries, trackLockRetryDelay)
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", input.PlaylistID).Msg("failed to acquire playlist lock")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: playlist '%s' is locked by another writer", ErrInternalError, input.PlaylistID)
	}
	defer func() {
		if _, err := s.locker.Release(ctx, lockKey); err != nil {
			s.logger.Error().Err(err).Str("playlist_id", input.PlaylistID).Msg("failed to release playlist lock")
		}
	}()

	if _, err := s.getForMutation(ctx, input.PlaylistID, input.RequestingUserID); err != nil {
		return nil, err
	}

	exists, err := s.songRepo.Exists(ctx, input.SongID)
	if err != nil {
		s.logger.Error().Err(err).Str("song_id", input.SongID).Msg("failed to check song existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: song '%s'", domain.ErrSongNotFound, input.SongID)
	}

	track, err := s.playlistRepo.AddTrack(ctx, input.PlaylistID, input.SongID)
	if err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) || errors.Is(err, domain.ErrSongNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).
			Str("playlist_id", input.PlaylistID).
			Str("song_id", input.SongID).
			Msg("failed to add track")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("playlist_id", track.PlaylistID).
		Str("song_id", track.SongID).
		Int("position", track.Position).
		Msg("track added")

	return &AddTrackOutput{Track: track}, nil
}

// RemoveTrack removes every occurrence of a song from a playlist. Only
// the owner may modify the playlist.
func (s *PlaylistService) RemoveTrack(ctx context.Context, input RemoveTrackInput) error {
	lockKey := lock.Keys.PlaylistWrite(input.PlaylistID)
	acquired, err := s.locker.AcquireWithRetry(ctx, lockKey, trackLockTTL, trackLockRetries, trackLockRetryDelay)
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", input.PlaylistID).Msg("failed to acquire playlist lock")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return fmt.Errorf("%w: playlist '%s' is locked by another writer", ErrInternalError, input.PlaylistID)
	}
	defer func() {
		if _, err := s.locker.Release(ctx, lockKey); err != nil {
			s.logger.Error().Err(err).Str("playlist_id", input.PlaylistID).Msg("failed to release playlist lock")
		}
	}()

	if _, err := s.getForMutation(ctx, input.PlaylistID, input.RequestingUserID); err != nil {
		return err
	}

	if err := s.playlistRepo.RemoveTrack(ctx, input.PlaylistID, input.SongID); err != nil {
		if errors.Is(err, domain.ErrTrackNotFound) {
			return fmt.Errorf("%w: song '%s' is not on playlist '%s'", domain.ErrTrackNotFound, input.SongID, input.PlaylistID)
		}
		s.logger.Error().Err(err).
			Str("playlist_id", input.PlaylistID).
			Str("song_id", input.SongID).
			Msg("failed to remove track")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("playlist_id", input.PlaylistID).
		Str("song_id", input.SongID).
		Msg("track removed")

	return nil
}

// GetTracks returns the playlist's songs in position order.
func (s *PlaylistService) GetTracks(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	// Distinguish a missing playlist from an empty one.
	exists, err := s.playlistRepo.Exists(ctx, playlistID)
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", playlistID).Msg("failed to check playlist existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !exists {
		return nil, domain.ErrPlaylistNotFound
	}

	tracks, err := s.playlistRepo.GetTracks(ctx, playlistID)
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", playlistID).Msg("failed to get tracks")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return tracks, nil
}

// TotalDuration returns the summed duration in seconds of all songs on
// the playlist.
func (s *PlaylistService) TotalDuration(ctx context.Context, playlistID string) (int, error) {
	exists, err := s.playlistRepo.Exists(ctx, playlistID)
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", playlistID).Msg("failed to check playlist existence")
		return 0, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !exists {
		return 0, domain.ErrPlaylistNotFound
	}

	total, err := s.playlistRepo.TotalDuration(ctx, playlistID)
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", playlistID).Msg("failed to total duration")
		return 0, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return total, nil
}

// getForMutation loads the playlist and enforces the ownership rule: a
// non-empty requestingUserID must match the playlist's owner. An empty
// requestingUserID is a trusted caller and skips the check.
func (s *PlaylistService) getForMutation(ctx context.Context, playlistID, requestingUserID string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return nil, domain.ErrPlaylistNotFound
		}
		s.logger.Error().Err(err).Str("playlist_id", playlistID).Msg("failed to get playlist")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if requestingUserID != "" && playlist.OwnerID != requestingUserID {
		return nil, fmt.Errorf("%w: user '%s' does not own playlist '%s'",
			domain.ErrNotPlaylistOwner, requestingUserID, playlistID)
	}

	return playlist, nil
}
