package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserList lists the accounts known to the service.
func (r *Runner) UserList(ctx context.Context, cmd *cli.Command) error {
	users, err := r.catalog.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}

	var current int64
	if id, err := r.currentUser(ctx); err == nil {
		current = id
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		marker := " "
		if u.ID == current {
			marker = "*"
		}
		r.writePlain("%s %4d  %-20s %s\n", marker, u.ID, u.Username, u.Email)
	}
	return nil
}

// UserCreate registers a new account, optionally selecting it.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	newUser := models.NewUser{
		Email:    cmd.String("email"),
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	}

	user, err := r.catalog.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return fmt.Errorf("a user with that email or username already exists: %w", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "id", user.ID, "username", user.Username)
	r.writePlain("✓ Created user %d (%s)\n", user.ID, user.Username)

	if cmd.Bool("use") {
		return r.selectUser(ctx, user.ID, user.Username)
	}
	return nil
}

// UserUse stores the given id as the current user. The id is trusted as-is; the username is
// looked up only for display.
func (r *Runner) UserUse(ctx context.Context, cmd *cli.Command) error {
	userID, err := parseID("user id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	var username string
	if users, err := r.catalog.ListUsers(ctx); err == nil {
		for _, u := range users {
			if u.ID == userID {
				username = u.Username
				break
			}
		}
		if username == "" {
			r.logger.Warn("user id not known to the service", "id", userID)
		}
	} else {
		r.logger.Warn("could not verify user", "id", userID, "error", err)
	}

	return r.selectUser(ctx, userID, username)
}

func (r *Runner) selectUser(ctx context.Context, userID int64, username string) error {
	if err := r.requireDB(); err != nil {
		return err
	}
	if err := r.sessions.Use(ctx, userID, username); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if username == "" {
		r.writePlain("✓ Now acting as user %d\n", userID)
	} else {
		r.writePlain("✓ Now acting as user %d (%s)\n", userID, username)
	}
	return nil
}

// UserWhoami prints the selected user.
func (r *Runner) UserWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.config.UserID > 0 {
		r.writePlain("user %d (from %s)\n", r.config.UserID, shared.EnvUserID)
		return nil
	}
	if err := r.requireDB(); err != nil {
		return err
	}

	session, err := r.sessions.Current(ctx)
	if err != nil {
		return err
	}

	if session.Username == "" {
		r.writePlain("user %d\n", session.UserID)
	} else {
		r.writePlain("user %d (%s)\n", session.UserID, session.Username)
	}
	return nil
}

// UserLogout forgets the selected user.
func (r *Runner) UserLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}
	if err := r.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	r.writePlain("✓ Logged out\n")
	return nil
}
