package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-faucet/cmd/env"
	"github/chapool/go-faucet/cmd/probe"
	"github/chapool/go-faucet/cmd/server"
	"github/chapool/go-faucet/cmd/wallet"
	"github/chapool/go-faucet/internal/config"
)

const (
	envFileFlag string = "env-file"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

An ERC-20 token faucet: POST /<token>/<address> sends a fixed amount of tokens.
Requires configuration through ENV.`, config.ModuleName),
}

func init() {
	rootCmd.PersistentFlags().StringP(envFileFlag, "e", "", "Apply ENV variables from this dotenv file, overriding the current ENV (or ENV_FILE)")

	if err := viper.BindPFlag(envFileFlag, rootCmd.PersistentFlags().Lookup(envFileFlag)); err != nil {
		log.Fatal().Err(err).Str("flag", envFileFlag).Msg("Failed to bind flag")
	}
	viper.MustBindEnv(envFileFlag, "ENV_FILE")

	cobra.OnInitialize(loadEnvFile)
}

// loadEnvFile applies an explicitly requested dotenv file. Unlike .env.local, a missing or
// malformed file is fatal.
func loadEnvFile() {
	path := viper.GetString(envFileFlag)
	if path == "" {
		return
	}

	if err := config.DotEnvLoad(path, os.Setenv); err != nil {
		log.Fatal().Err(err).Str("envFile", path).Msg("Failed to apply env file")
	}

	log.Warn().Str("envFile", path).Msg(".env overrides ENV variables!")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		env.New(),
		probe.New(),
		server.New(),
		wallet.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
