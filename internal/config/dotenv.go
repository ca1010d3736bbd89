package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad applies ENV variables from **a maybe available** .env file through setEnvFn.
//
// This function will always remain silent if a .env file does not exist!
// If we successfully apply an ENV file, we will log a warning.
// If there are any other errors, we will panic!
//
// This mechanism should only be used **locally** to easily inject (gitignored) secrets into your ENV.
func DotEnvTryLoad(absolutePathToEnvFile string, setEnvFn func(key string, value string) error) {
	err := DotEnvLoad(absolutePathToEnvFile, setEnvFn)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Panic().Err(err).Str("envFile", absolutePathToEnvFile).Msg(".env parse error!")
		}
	} else {
		log.Warn().Str("envFile", absolutePathToEnvFile).Msg(".env overrides ENV variables!")
	}
}

// DotEnvLoad parses the dotenv file and applies every entry through setEnvFn.
func DotEnvLoad(absolutePathToEnvFile string, setEnvFn func(key string, value string) error) error {
	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		return err
	}
	defer file.Close()

	envs, err := gotenv.StrictParse(file)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", absolutePathToEnvFile)
	}

	for key, value := range envs {
		if err := setEnvFn(key, value); err != nil {
			return errors.Wrapf(err, "failed to set env %s", key)
		}
	}

	return nil
}

// DotEnvSetEnvIfUnset only applies values for keys not already present in the process env.
func DotEnvSetEnvIfUnset(key string, value string) error {
	if _, ok := os.LookupEnv(key); ok {
		return nil
	}

	return os.Setenv(key, value)
}
