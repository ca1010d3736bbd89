package router

import (
	"strings"

	"github.com/rs/zerolog"
)

// echoLogger forwards echo's internal log output to zerolog.
type echoLogger struct {
	level zerolog.Level
	log   zerolog.Logger
}

func (l *echoLogger) Write(p []byte) (int, error) {
	l.log.WithLevel(l.level).Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}

func faucetPrefix(tokenSymbol string) string {
	return strings.ToLower(strings.Trim(tokenSymbol, "/ "))
}
