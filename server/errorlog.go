package server

import (
	"log"

	"github.com/sirupsen/logrus"
)

// newErrorLog routes net/http's internal diagnostics (accept errors, TLS
// handshake noise from misdirected clients) to logger at warn level.
func newErrorLog(logger *logrus.Logger) *log.Logger {
	return log.New(logger.WriterLevel(logrus.WarnLevel), "", 0)
}
