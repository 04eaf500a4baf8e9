// config/logger.go
package config

import (
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func InitLogger() {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// SetLogLevel applies a textual level, keeping the current one when it does
// not parse.
func SetLogLevel(level string) {
	level = strings.TrimSpace(level)
	if level == "" {
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.Warnf("Unknown log level %q, keeping %s", level, Logger.GetLevel())
		return
	}
	Logger.SetLevel(parsed)
}
