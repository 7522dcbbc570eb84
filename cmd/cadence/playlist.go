package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/service"
)

// asFlag identifies the requesting user for ownership-checked mutations.
// Omitting it runs the command as a trusted administrative caller.
func asFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "as",
		Usage: "Run as this user ID; the command fails unless that user owns the playlist",
	}
}

// playlistCommand manages playlists and their tracks.
func playlistCommand() *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Playlist name", Required: true},
					&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Usage: "Owner user ID", Required: true},
				},
				Action: withRunner(playlistCreate),
			},
			{
				Name:  "list",
				Usage: "List playlists, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Usage: "Only playlists owned by this user ID"},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(playlistList),
			},
			{
				Name:      "show",
				Usage:     "Show a playlist with its tracks and total running time",
				ArgsUsage: "<playlist-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(playlistShow),
			},
			{
				Name:      "rename",
				Usage:     "Rename a playlist",
				ArgsUsage: "<playlist-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name", Required: true},
					asFlag(),
				},
				Action: withRunner(playlistRename),
			},
			{
				Name:      "rm",
				Usage:     "Delete a playlist and its track associations",
				ArgsUsage: "<playlist-id>",
				Flags:     []cli.Flag{asFlag()},
				Action:    withRunner(playlistRemove),
			},
			{
				Name:  "track",
				Usage: "Manage a playlist's tracks",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Append a song to the end of a playlist",
						ArgsUsage: "<playlist-id> <song-id>",
						Flags:     []cli.Flag{asFlag()},
						Action:    withRunner(trackAdd),
					},
					{
						Name:      "rm",
						Usage:     "Remove every occurrence of a song from a playlist",
						ArgsUsage: "<playlist-id> <song-id>",
						Flags:     []cli.Flag{asFlag()},
						Action:    withRunner(trackRemove),
					},
				},
			},
		},
	}
}

func playlistCreate(ctx context.Context, cmd *cli.Command, r *Runner) error {
	output, err := r.playlists.Create(ctx, service.CreatePlaylistInput{
		Name:    cmd.String("name"),
		OwnerID: cmd.String("owner"),
	})
	if err != nil {
		return err
	}

	r.printf("Playlist created.\n\n")
	r.printPlaylist(output.Playlist)
	return nil
}

func playlistList(ctx context.Context, cmd *cli.Command, r *Runner) error {
	var (
		playlists []*domain.Playlist
		err       error
	)
	if owner := cmd.String("owner"); owner != "" {
		playlists, err = r.playlists.ListByOwner(ctx, owner)
	} else {
		playlists, err = r.playlists.List(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists)
	}

	if len(playlists) == 0 {
		r.printf("No playlists.\n")
		return nil
	}

	r.printf("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.printf("%d. %s\n", i+1, p.Name)
		r.printf("   ID: %s\n", p.ID)
		r.printf("   Owner: %s\n", p.OwnerID)
		r.printf("   Created: %s\n", p.CreatedAt.Format(time.RFC3339))
		r.printf("\n")
	}
	return nil
}

func playlistShow(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a playlist ID argument")
	}

	playlist, err := r.playlists.Get(ctx, id)
	if err != nil {
		return err
	}
	tracks, err := r.playlists.GetTracks(ctx, id)
	if err != nil {
		return err
	}
	total, err := r.playlists.TotalDuration(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		playlist.Tracks = tracks
		return r.writeJSON(playlist)
	}

	r.printPlaylist(playlist)
	if len(tracks) == 0 {
		r.printf("\nNo tracks.\n")
		return nil
	}

	r.printf("\nTracks:\n")
	for i, s := range tracks {
		r.printf("%d. %s by %s (%s)\n", i+1, s.Title, s.Artist, service.FormatDuration(s.Duration))
	}
	r.printf("\nTotal: %d tracks, %s\n", len(tracks), service.FormatDuration(total))
	return nil
}

func playlistRename(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a playlist ID argument")
	}

	output, err := r.playlists.Rename(ctx, service.RenamePlaylistInput{
		ID:               id,
		Name:             cmd.String("name"),
		RequestingUserID: cmd.String("as"),
	})
	if err != nil {
		return err
	}

	r.printf("Playlist renamed.\n\n")
	r.printPlaylist(output.Playlist)
	return nil
}

func playlistRemove(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a playlist ID argument")
	}

	if err := r.playlists.Delete(ctx, id, cmd.String("as")); err != nil {
		return err
	}

	r.printf("Playlist %s deleted.\n", id)
	return nil
}

func trackAdd(ctx context.Context, cmd *cli.Command, r *Runner) error {
	playlistID := cmd.Args().Get(0)
	songID := cmd.Args().Get(1)
	if playlistID == "" || songID == "" {
		return fmt.Errorf("expected <playlist-id> <song-id> arguments")
	}

	output, err := r.playlists.AddTrack(ctx, service.AddTrackInput{
		PlaylistID:       playlistID,
		SongID:           songID,
		RequestingUserID: cmd.String("as"),
	})
	if err != nil {
		return err
	}

	r.printf("Track added at position %d.\n", output.Track.Position)
	return nil
}

func trackRemove(ctx context.Context, cmd *cli.Command, r *Runner) error {
	playlistID := cmd.Args().Get(0)
	songID := cmd.Args().Get(1)
	if playlistID == "" || songID == "" {
		return fmt.Errorf("expected <playlist-id> <song-id> arguments")
	}

	err := r.playlists.RemoveTrack(ctx, service.RemoveTrackInput{
		PlaylistID:       playlistID,
		SongID:           songID,
		RequestingUserID: cmd.String("as"),
	})
	if err != nil {
		return err
	}

	r.printf("Track removed.\n")
	return nil
}

func (r *Runner) printPlaylist(p *domain.Playlist) {
	r.printf("ID:      %s\n", p.ID)
	r.printf("Name:    %s\n", p.Name)
	r.printf("Owner:   %s\n", p.OwnerID)
	r.printf("Created: %s\n", p.CreatedAt.Format(time.RFC3339))
}
