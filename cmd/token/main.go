package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	subject  string
	userType string
	ttl      time.Duration
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed caller token for local testing",
	Long:  `Mint an HS256 caller token signed with JWT_SECRET_KEY, ready to send as "Authorization: Bearer <token>".`,
	Example: `  # Token for a company user, valid for one hour
  token --sub 3f0c2d8e-company-admin

  # Token that the gateway will reject with 403
  token --sub someone --user-type customer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filenames []string
		if envFile != "" {
			filenames = append(filenames, envFile)
		}

		env, err := configs.LoadEnv(filenames...)
		if err != nil {
			return err
		}

		if subject == "" {
			subject = uuid.NewString()
		}

		now := time.Now()
		claims := services.AccessTokenClaims{
			UserType: userType,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   subject,
				Issuer:    env.OriginURL,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}

		token, err := services.NewAuthService(configs.NewConfigs(env)).CreateAccessToken(claims)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&subject, "sub", "", "token subject (defaults to a random UUID)")
	rootCmd.Flags().StringVar(&userType, "user-type", services.UserTypeCompany, "caller user_type claim")
	rootCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load instead of .env")
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
	logger := log.With().Caller().Logger()

	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("failed to mint token")
		os.Exit(1)
	}
}
