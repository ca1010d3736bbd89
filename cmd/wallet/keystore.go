package wallet

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/util/command"
	"github/chapool/go-faucet/internal/wallet/keystore"
)

const (
	lightFlag string = "light"
)

func newKeystore() *cobra.Command {
	var light bool

	cmd := &cobra.Command{
		Use:   "keystore <file>",
		Short: "Encrypts the configured key into a keystore file",
		Long: `Loads the configured signing key (PRIVATE_KEY or MNEMONIC), asks for a password and writes
an encrypted keystore v3 file usable as KEYSTORE_FILE.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := runKeystore(args[0], light); err != nil {
				log.Fatal().Err(err).Msg("Failed to write keystore")
			}
		},
	}

	cmd.Flags().BoolVar(&light, lightFlag, false, "Use light scrypt parameters (faster, weaker).")

	return cmd
}

func runKeystore(path string, light bool) error {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%s already exists", path)
	}

	cfg, err := withKeystorePassword(cfg)
	if err != nil {
		return err
	}

	s, err := api.NewSigner(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to load signing key")
	}

	password, err := readPassword("New keystore password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	params := keystore.StandardScryptParams()
	if light {
		params = keystore.LightScryptParams()
	}

	raw, err := s.ExportKeystore(password, params)
	if err != nil {
		return errors.Wrap(err, "failed to encrypt key")
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrap(err, "failed to write keystore file")
	}

	log.Info().Str("address", s.Address().Hex()).Str("file", path).Msg("Keystore written")

	return nil
}
