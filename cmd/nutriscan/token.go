package main

import (
	"errors"
	"fmt"
	"time"

	"nutriscan-backend/internal/utils"
	"nutriscan-backend/pkg/jwt"

	"github.com/spf13/cobra"
)

var (
	tokenUID   string
	tokenEmail string
	tokenName  string
	tokenTTL   time.Duration
)

// tokenCmd mints identity tokens for AUTH_MODE=local.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a local identity token for development",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := utils.GetConfig("JWT_SECRET")
		if secret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		if tokenUID == "" {
			return errors.New("--uid is required")
		}

		token, err := jwt.NewLocalJWTService(secret).GenerateTokenUser(jwt.Identity{
			UID:   tokenUID,
			Email: tokenEmail,
			Name:  tokenName,
		}, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUID, "uid", "", "Subject of the token")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Name claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
