package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/ariefcatur/ricemart-orders/internal/config"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		uid   string
		admin bool
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Sign a bearer token with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if uid == "" {
				uid = args[0]
			}
			v := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, nil)
			tok, err := v.Sign(auth.Identity{Email: args[0], UID: uid, Admin: admin}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "Subject claim (defaults to the email)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the admin claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
