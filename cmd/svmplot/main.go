// Command svmplot draws support vector machine decision boundaries.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	root := newRootCmd(os.Stdout, func() bool { return term.IsTerminal(int(os.Stdout.Fd())) })
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("svmplot failed")
		os.Exit(1)
	}
}
