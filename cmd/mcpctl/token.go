package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/mcp-endpoints/internal/auth"
	"github.com/JaimeStill/mcp-endpoints/internal/config"
)

var (
	tokenUser int64
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())

		token, expires, err := tokens.Issue(tokenUser, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUser, "user", 0, "User ID the token authenticates as")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime; defaults to auth.token_ttl")
	tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
