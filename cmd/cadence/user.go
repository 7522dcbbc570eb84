package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/service"
)

// userCommand manages user accounts.
func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a new user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username (3-30 chars)", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true},
				},
				Action: withRunner(userAdd),
			},
			{
				Name:      "get",
				Usage:     "Show a user by ID, or by --username",
				ArgsUsage: "[user-id]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Look up by username instead of ID"},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(userGet),
			},
			{
				Name:  "list",
				Usage: "List all users, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: withRunner(userList),
			},
			{
				Name:      "update",
				Usage:     "Change a user's username or email",
				ArgsUsage: "<user-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "New username"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New email address"},
				},
				Action: withRunner(userUpdate),
			},
			{
				Name:      "rm",
				Usage:     "Delete a user and the playlists it owns",
				ArgsUsage: "<user-id>",
				Action:    withRunner(userRemove),
			},
		},
	}
}

func userAdd(ctx context.Context, cmd *cli.Command, r *Runner) error {
	output, err := r.users.Create(ctx, service.CreateUserInput{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
	})
	if err != nil {
		return err
	}

	r.printf("User created.\n\n")
	r.printUser(output.User)
	return nil
}

func userGet(ctx context.Context, cmd *cli.Command, r *Runner) error {
	var (
		user *domain.User
		err  error
	)
	if username := cmd.String("username"); username != "" {
		user, err = r.users.GetByUsername(ctx, username)
	} else {
		id := cmd.Args().First()
		if id == "" {
			return fmt.Errorf("expected a user ID argument or --username")
		}
		user, err = r.users.Get(ctx, id)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user)
	}
	r.printUser(user)
	return nil
}

func userList(ctx context.Context, cmd *cli.Command, r *Runner) error {
	users, err := r.users.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users)
	}

	if len(users) == 0 {
		r.printf("No users.\n")
		return nil
	}

	r.printf("Found %d users:\n\n", len(users))
	for i, u := range users {
		r.printf("%d. %s\n", i+1, u.Username)
		r.printf("   ID: %s\n", u.ID)
		r.printf("   Email: %s\n", u.Email)
		r.printf("   Created: %s\n", u.CreatedAt.Format(time.RFC3339))
		r.printf("\n")
	}
	return nil
}

func userUpdate(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a user ID argument")
	}

	// Flags not given keep the stored values.
	current, err := r.users.Get(ctx, id)
	if err != nil {
		return err
	}
	username := current.Username
	email := current.Email
	if cmd.IsSet("username") {
		username = cmd.String("username")
	}
	if cmd.IsSet("email") {
		email = cmd.String("email")
	}

	output, err := r.users.Update(ctx, service.UpdateUserInput{
		ID:       id,
		Username: username,
		Email:    email,
	})
	if err != nil {
		return err
	}

	r.printf("User updated.\n\n")
	r.printUser(output.User)
	return nil
}

func userRemove(ctx context.Context, cmd *cli.Command, r *Runner) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("expected a user ID argument")
	}

	if err := r.users.Delete(ctx, id); err != nil {
		return err
	}

	r.printf("User %s deleted.\n", id)
	return nil
}

func (r *Runner) printUser(u *domain.User) {
	r.printf("ID:       %s\n", u.ID)
	r.printf("Username: %s\n", u.Username)
	r.printf("Email:    %s\n", u.Email)
	r.printf("Created:  %s\n", u.CreatedAt.Format(time.RFC3339))
}
