package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/internal/users"
)

var userCreate users.CreateCommand

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage site users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Connection().Close()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		sys := users.New(db.Connection(), registry.New(&cfg.Registry), nil, logger)

		generated := userCreate.Password == ""
		if generated {
			if userCreate.Password, err = users.GeneratePassword(24); err != nil {
				return err
			}
		}

		u, err := sys.Create(cmd.Context(), userCreate)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s) with role %s\n", u.ID, u.Username, userCreate.Role)
		if generated {
			fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", userCreate.Password)
		}
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userCreate.Username, "username", "", "Login name")
	f.StringVar(&userCreate.Email, "email", "", "Email address")
	f.StringVar(&userCreate.Password, "password", "", "Password; generated when empty")
	f.StringVar(&userCreate.Role, "role", "administrator", "Role slug")
	userCreateCmd.MarkFlagRequired("username")
	userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
