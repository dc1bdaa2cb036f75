package testlog

import (
	"testing"

	"github.com/danmuck/smppctl/internal/logging"
	"github.com/rs/zerolog/log"
)

// Start configures test logging once and tags the log with the test name.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Msgf("test=%s", t.Name())
}
