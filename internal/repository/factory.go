package repository

import "context"

// Repositories holds all repository instances for one storage backend.
type Repositories struct {
	Users     UserRepository
	Songs     SongRepository
	Playlists PlaylistRepository
}

// DatabaseHealth is an interface for database lifecycle checks.
// Both the sqlite and postgres stores satisfy it; cmd wiring uses it to
// ping and close whichever backend the configuration selected.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}
