package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"admin-dashboard/internal/auth/credentials"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/db"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage password accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a password account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseDSN == "" {
				return errors.New("DATABASE_DSN is required")
			}

			conn, err := db.Open(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			account, err := credentials.NewService(conn).Register(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", account.Email, account.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
