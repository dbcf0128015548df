// Package cli holds the non-server subcommands of the binary.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcharkviani/library/internal/auth"
	"github.com/mcharkviani/library/internal/config"
	"github.com/mcharkviani/library/internal/database"
	"github.com/mcharkviani/library/internal/database/users"
)

// CreateUserCommand creates a user account from the command line, for
// bootstrapping a deployment without going through the HTTP register
// endpoint.
type CreateUserCommand struct {
	DatabasePath string
	FirstName    string
	LastName     string
	Email        string
	Password     string
}

// NewCreateUserCommand creates a new CreateUserCommand.
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.FirstName, "first-name", "", "First name of the user")
	fs.StringVar(&cmd.LastName, "last-name", "", "Last name of the user")
	fs.StringVar(&cmd.Email, "email", "", "Email address (used for login)")
	fs.StringVar(&cmd.Password, "password", "", "Password (min 8 characters)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -email reader@example.com -password secret123 -first-name Jane -last-name Doe\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// Run executes the create-user command.
func (cmd *CreateUserCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

	user, err := service.Register(cmd.FirstName, cmd.LastName, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
	return nil
}
