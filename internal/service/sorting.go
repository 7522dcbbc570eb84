package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mk-hx/cadence/internal/domain"
)

// SortBy selects the ordering applied to an already-fetched song list.
type SortBy string

const (
	// SortByTitle orders by title, case-insensitively.
	SortByTitle SortBy = "title"
	// SortByArtist orders by artist, then title.
	SortByArtist SortBy = "artist"
	// SortByDuration orders shortest first.
	SortByDuration SortBy = "duration"
	// SortByGenre orders by genre, then artist, then title.
	SortByGenre SortBy = "genre"
	// SortByNewest orders by creation time, most recent first.
	SortByNewest SortBy = "newest"
)

// ParseSortBy maps a user-supplied sort key to a SortBy value.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortByTitle:
		return SortByTitle, nil
	case SortByArtist:
		return SortByArtist, nil
	case SortByDuration:
		return SortByDuration, nil
	case SortByGenre:
		return SortByGenre, nil
	case SortByNewest:
		return SortByNewest, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (valid: title, artist, duration, genre, newest)", s)
	}
}

// SortSongs returns a new slice with the songs ordered by the given key.
// String comparisons are case-insensitive; reverse flips the order. The
// input slice is left untouched.
func SortSongs(songs []*domain.Song, by SortBy, reverse bool) []*domain.Song {
	sorted := make([]*domain.Song, len(songs))
	copy(sorted, songs)

	var less func(a, b *domain.Song) bool
	switch by {
	case SortByArtist:
		less = func(a, b *domain.Song) bool {
			ka := strings.ToLower(a.Artist)
			kb := strings.ToLower(b.Artist)
			if ka != kb {
				return ka < kb
			}
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByDuration:
		less = func(a, b *domain.Song) bool {
			return a.Duration < b.Duration
		}
	case SortByGenre:
		less = func(a, b *domain.Song) bool {
			ka := strings.ToLower(a.Genre)
			kb := strings.ToLower(b.Genre)
			if ka != kb {
				return ka < kb
			}
			if aa, ba := strings.ToLower(a.Artist), strings.ToLower(b.Artist); aa != ba {
				return aa < ba
			}
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByNewest:
		less = func(a, b *domain.Song) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	default: // SortByTitle
		less = func(a, b *domain.Song) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if reverse {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// FilterSongs returns the songs for which keep returns true, preserving
// order.
func FilterSongs(songs []*domain.Song, keep func(*domain.Song) bool) []*domain.Song {
	filtered := make([]*domain.Song, 0, len(songs))
	for _, song := range songs {
		if keep(song) {
			filtered = append(filtered, song)
		}
	}
	return filtered
}

// FormatDuration renders a duration in seconds as M:SS, or H:MM:SS from
// one hour up.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
