package wallet

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/util/command"
	"golang.org/x/term"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("wallet",
		newAddress(),
		newBalance(),
		newKeystore(),
	)
}

var errNoTerminal = errors.New("stdin is not a terminal")

// readPassword prompts on stderr and reads a password from the terminal without echoing it.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	return string(password), nil
}

// withKeystorePassword asks for KEYSTORE_PASSWORD if a keystore is configured without one.
func withKeystorePassword(cfg config.Server) (config.Server, error) {
	if cfg.Key.KeystoreFile == "" || cfg.Key.KeystorePassword != "" {
		return cfg, nil
	}

	password, err := readPassword(fmt.Sprintf("Password for %s: ", cfg.Key.KeystoreFile))
	if err != nil {
		return cfg, errors.Wrap(err, "KEYSTORE_PASSWORD is not set")
	}
	cfg.Key.KeystorePassword = password

	return cfg, nil
}
