package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// serviceHook tags every entry with the service name: as a "service" field
// for JSON output, as a "[name]" message prefix for human-readable text.
type serviceHook struct {
	name string
	json bool
}

func (h *serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *serviceHook) Fire(entry *logrus.Entry) error {
	if h.json {
		entry.Data["service"] = h.name
		return nil
	}
	entry.Message = "[" + h.name + "] " + entry.Message
	return nil
}

// InitLogger configures Logger from LOG_LEVEL, LOG_FORMAT and ENV.
// LOG_FORMAT is "text" or "json"; when unset, prod deployments log JSON
// for the collector and everything else logs text. Calling it again
// replaces the previous configuration.
func InitLogger(appName string) {
	Logger.SetOutput(os.Stdout)

	logLevelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		Logger.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", logLevelStr)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	useJSON := jsonLogging(os.Getenv("LOG_FORMAT"), os.Getenv("ENV"))
	if useJSON {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Logger.ReplaceHooks(make(logrus.LevelHooks))
	Logger.AddHook(&serviceHook{name: appName, json: useJSON})
}

func jsonLogging(format, env string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return true
	case "text":
		return false
	}
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return true
	}
	return false
}
