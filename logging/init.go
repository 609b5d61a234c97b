package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// GlobalLogger discards every event until the CLI replaces it once the project configuration is known. Packages
// derive their own sub-logger from it.
var GlobalLogger = NewLogger(zerolog.Disabled)

func init() {
	// Errors wrapped by pkg/errors carry their stack into structured events
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
