package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/service"
)

// songCommand manages the song catalog.
func songCommand() *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Manage the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Song title", Required: true},
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Genre", Required: true},
					&cli.IntFlag{Name: "duration", Aliases: []string{"d"}, Usage: "Duration in seconds", Required: true},
				},
				Action: withRunner(songAdd),
			},
			{
				Name:      "get",
				Usage:     "Show a song",
				ArgsUsage: "<song-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(songGet),
			},
			{
				Name:  "list",
				Usage: "List songs, optionally filtered and sorted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Only songs by this artist"},
					&cli.StringFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Only songs in this genre"},
					&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Sort by: title, artist, duration, genre, newest"},
					&cli.BoolFlag{Name: "reverse", Aliases: []string{"r"}, Usage: "Reverse the sort order"},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(songList),
			},
			{
				Name:      "search",
				Usage:     "Find songs whose title or artist contains the query",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(songSearch),
			},
			{
				Name:      "update",
				Usage:     "Change a song's fields",
				ArgsUsage: "<song-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "New artist"},
					&cli.StringFlag{Name: "genre", Aliases: []string{"g"}, Usage: "New genre"},
					&cli.IntFlag{Name: "duration", Aliases: []string{"d"}, Usage: "New duration in seconds"},
				},
				Action: withRunner(songUpdate),
			},
			{
				Name:      "rm",
				Usage:     "Delete a song and remove it from every playlist",
				ArgsUsage: "<song-id>",
				Action:    withRunner(songRemove),
			},
		},
	}
}

func songAdd(ctx context.Context, cmd *cli.Command, r *Runner) error {
	output, err := r.songs.Create(ctx, service.CreateSongInput{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Genre:    cmd.String("genre"),
		Duration: cmd.Int("duration"),
	})
	if err != nil {
		return err
	}

	r.printf("Song created.\n\n")
	r.printSong(output.Song)
	return nil
}

func songGet(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a song ID argument")
	}

	song, err := r.songs.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song)
	}
	r.printSong(song)
	return nil
}

func songList(ctx context.Context, cmd *cli.Command, r *Runner) error {
	var (
		songs []*domain.Song
		err   error
	)
	switch {
	case cmd.IsSet("artist"):
		songs, err = r.songs.ListByArtist(ctx, cmd.String("artist"))
	case cmd.IsSet("genre"):
		songs, err = r.songs.ListByGenre(ctx, cmd.String("genre"))
	default:
		songs, err = r.songs.List(ctx)
	}
	if err != nil {
		return err
	}

	// Combining --artist with --genre narrows the artist's songs in memory.
	if cmd.IsSet("artist") && cmd.IsSet("genre") {
		want := strings.ToLower(cmd.String("genre"))
		songs = service.FilterSongs(songs, func(s *domain.Song) bool {
			return strings.ToLower(s.Genre) == want
		})
	}

	if cmd.IsSet("sort") {
		by, err := service.ParseSortBy(cmd.String("sort"))
		if err != nil {
			return err
		}
		songs = service.SortSongs(songs, by, cmd.Bool("reverse"))
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs)
	}
	r.printSongList(songs)
	return nil
}

func songSearch(ctx context.Context, cmd *cli.Command, r *Runner) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("expected a search query argument")
	}

	songs, err := r.songs.Search(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs)
	}
	r.printSongList(songs)
	return nil
}

func songUpdate(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a song ID argument")
	}

	// Flags not given keep the stored values.
	current, err := r.songs.Get(ctx, id)
	if err != nil {
		return err
	}
	input := service.UpdateSongInput{
		ID:       id,
		Title:    current.Title,
		Artist:   current.Artist,
		Genre:    current.Genre,
		Duration: current.Duration,
	}
	if cmd.IsSet("title") {
		input.Title = cmd.String("title")
	}
	if cmd.IsSet("artist") {
		input.Artist = cmd.String("artist")
	}
	if cmd.IsSet("genre") {
		input.Genre = cmd.String("genre")
	}
	if cmd.IsSet("duration") {
		input.Duration = cmd.Int("duration")
	}

	output, err := r.songs.Update(ctx, input)
	if err != nil {
		return err
	}

	r.printf("Song updated.\n\n")
	r.printSong(output.Song)
	return nil
}

func songRemove(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a song ID argument")
	}

	if err := r.songs.Delete(ctx, id); err != nil {
		return err
	}

	r.printf("Song %s deleted.\n", id)
	return nil
}

func (r *Runner) printSong(s *domain.Song) {
	r.printf("ID:       %s\n", s.ID)
	r.printf("Title:    %s\n", s.Title)
	r.printf("Artist:   %s\n", s.Artist)
	r.printf("Genre:    %s\n", s.Genre)
	r.printf("Duration: %s\n", service.FormatDuration(s.Duration))
}

func (r *Runner) printSongList(songs []*domain.Song) {
	if len(songs) == 0 {
		r.printf("No songs.\n")
		return
	}

	r.printf("Found %d songs:\n\n", len(songs))
	for i, s := range songs {
		r.printf("%d. %s by %s (%s)\n", i+1, s.Title, s.Artist, service.FormatDuration(s.Duration))
		r.printf("   ID: %s\n", s.ID)
		r.printf("   Genre: %s\n", s.Genre)
		r.printf("\n")
	}
}
