// Package logx supplies the package-level logger used by every plotcore
// component to report the out-of-band failures described in spec.md §7:
// out-of-range indices, resource exhaustion, and semantic violations never
// panic or abort, they log and the call becomes a no-op.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// Log is shared by every x/* and pkg/engine component.
var Log = logger.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
