package main

import (
	"errors"
	"fmt"

	"github.com/Ayash-Bera/mentor/backend/internal/auth"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// tokenCmd stands in for account management: it ensures the user exists and
// prints a bearer token for it.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for a user, creating the user if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return errors.New("--email is required")
		}

		cfg, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateAuth(); err != nil {
			return err
		}

		dbManager, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		defer dbManager.Close()

		users := repository.NewUserRepository(dbManager.DB)
		ctx := cmd.Context()

		user, err := users.GetByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = &models.User{Email: email}
			err = users.Create(ctx, user)
		}
		if err != nil {
			return fmt.Errorf("loading user %s: %w", email, err)
		}

		token, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("email", "", "User email")
}
