package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/poc3/api-backend/internal/config"
	"github.com/poc3/api-backend/internal/crypto"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "generate_keys",
		Short:         "POC3 dashboard admin key tool",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newSecretCmd(), newTokenCmd())
	return root
}

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a new ADMIN_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := crypto.GenerateSecret()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Add this to your .env file:")
			fmt.Fprintln(out, "----------------------------")
			fmt.Fprintf(out, "ADMIN_JWT_SECRET=%s\n", secret)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "SECURITY WARNING:")
			fmt.Fprintln(out, "   - Keep this secret out of version control")
			fmt.Fprintln(out, "   - Anyone holding it can mint admin tokens")
			fmt.Fprintln(out, "   - Rotating it invalidates every issued token")

			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token signed with ADMIN_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}

			secret := os.Getenv("ADMIN_JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("ADMIN_JWT_SECRET is not set; run the secret command first")
			}

			token, expiresAt, err := crypto.GenerateAdminJWT(subject, secret, ttl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Token for %q, valid until %s:\n\n", subject, expiresAt.Format(time.RFC3339))
			fmt.Fprintln(out, token)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use it as: Authorization: Bearer <token>")

			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "who the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", crypto.AdminJWTExpiration, "token lifetime")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to read ADMIN_JWT_SECRET from")

	return cmd
}
