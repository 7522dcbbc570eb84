package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/repository"
)

// Song field constraints.
const (
	MaxTitleLength = 200
	MinDuration    = 1     // seconds
	MaxDuration    = 36000 // 10 hours
)

// SongService handles song catalog operations.
type SongService struct {
	songRepo  repository.SongRepository
	normalize *Normalizer
	logger    zerolog.Logger
}

// NewSongService creates a new SongService.
func NewSongService(songRepo repository.SongRepository, normalize *Normalizer, logger zerolog.Logger) *SongService {
	return &SongService{
		songRepo:  songRepo,
		normalize: normalize,
		logger:    logger.With().Str("service", "song").Logger(),
	}
}

// CreateSongInput contains the data needed to add a song to the catalog.
type CreateSongInput struct {
	Title    string
	Artist   string
	Genre    string
	Duration int
}

// CreateSongOutput contains the result of adding a song.
type CreateSongOutput struct {
	Song *domain.Song
}

// UpdateSongInput contains the data needed to update a song. All fields
// replace the stored values.
type UpdateSongInput struct {
	ID       string
	Title    string
	Artist   string
	Genre    string
	Duration int
}

// UpdateSongOutput contains the result of updating a song.
type UpdateSongOutput struct {
	Song *domain.Song
}

// Create adds a new song to the catalog.
func (s *SongService) Create(ctx context.Context, input CreateSongInput) (*CreateSongOutput, error) {
	title := s.normalize.Name(input.Title)
	artist := s.normalize.Name(input.Artist)
	genre := s.normalize.Name(input.Genre)

	if err := s.validateSong(title, artist, genre, input.Duration); err != nil {
		return nil, err
	}

	song, err := domain.NewSong(title, artist, genre, input.Duration)
	if err != nil {
		return nil, err
	}

	if err := s.songRepo.Create(ctx, song); err != nil {
		s.logger.Error().Err(err).Str("title", title).Msg("failed to create song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("song_id", song.ID).
		Str("title", song.Title).
		Str("artist", song.Artist).
		Msg("song created")

	return &CreateSongOutput{Song: song}, nil
}

// Get retrieves a song by ID.
func (s *SongService) Get(ctx context.Context, id string) (*domain.Song, error) {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", id).Msg("failed to get song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return song, nil
}

// List returns all songs in the catalog, newest first.
func (s *SongService) List(ctx context.Context) ([]*domain.Song, error) {
	songs, err := s.songRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list songs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return songs, nil
}

// ListByArtist returns all songs by the given artist, ordered by title.
// The artist name goes through the same normalization as stored songs,
// so lookups match regardless of input casing.
func (s *SongService) ListByArtist(ctx context.Context, artist string) ([]*domain.Song, error) {
	songs, err := s.songRepo.ListByArtist(ctx, s.normalize.Name(artist))
	if err != nil {
		s.logger.Error().Err(err).Str("artist", artist).Msg("failed to list songs by artist")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return songs, nil
}

// ListByGenre returns all songs in the given genre, ordered by artist
// then title.
func (s *SongService) ListByGenre(ctx context.Context, genre string) ([]*domain.Song, error) {
	songs, err := s.songRepo.ListByGenre(ctx, s.normalize.Name(genre))
	if err != nil {
		s.logger.Error().Err(err).Str("genre", genre).Msg("failed to list songs by genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return songs, nil
}

// Search returns songs whose title or artist contains the query,
// case-insensitively. The match runs over the full catalog in memory;
// the catalog is small enough that pushing this into SQL buys nothing.
func (s *SongService) Search(ctx context.Context, query string) ([]*domain.Song, error) {
	songs, err := s.songRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list songs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return songs, nil
	}

	matched := make([]*domain.Song, 0)
	for _, song := range songs {
		if strings.Contains(strings.ToLower(song.Title), needle) ||
			strings.Contains(strings.ToLower(song.Artist), needle) {
			matched = append(matched, song)
		}
	}
	return matched, nil
}

// Update replaces a song's fields.
func (s *SongService) Update(ctx context.Context, input UpdateSongInput) (*UpdateSongOutput, error) {
	title := s.normalize.Name(input.Title)
	artist := s.normalize.Name(input.Artist)
	genre := s.normalize.Name(input.Genre)

	if err := s.validateSong(title, artist, genre, input.Duration); err != nil {
		return nil, err
	}

	song, err := s.songRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", input.ID).Msg("failed to get song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	updated, err := song.Replace(title, artist, genre, input.Duration)
	if err != nil {
		return nil, err
	}

	if err := s.songRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", updated.ID).Msg("failed to update song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("song_id", updated.ID).
		Str("title", updated.Title).
		Msg("song updated")

	return &UpdateSongOutput{Song: updated}, nil
}

// Delete removes a song from the catalog and from every playlist
// containing it.
func (s *SongService) Delete(ctx context.Context, id string) error {
	if err := s.songRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", id).Msg("failed to delete song")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("song_id", id).Msg("song deleted")
	return nil
}

// validateSong checks the normalized song fields against the catalog
// constraints.
func (s *SongService) validateSong(title, artist, genre string, duration int) error {
	if title == "" || len(title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	if artist == "" {
		return ErrInvalidArtist
	}
	if genre == "" {
		return ErrInvalidGenre
	}
	if duration < MinDuration || duration > MaxDuration {
		return ErrInvalidDuration
	}
	return nil
}
