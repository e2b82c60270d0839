package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

// Logger returns the shared application logger.
func Logger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// LogFilePath returns the path of the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "jobsite-api.log")
}

// InitLogging attaches the log file to the shared logger so output goes to
// both stdout and disk. The returned file, when non-nil, should be closed on
// shutdown.
func InitLogging() *os.File {
	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err != nil {
		logg.Warnf("failed to create logs directory: %v", err)
		return nil
	}
	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logg.Warnf("failed to open log file: %v", err)
		return nil
	}
	logg.SetOutput(io.MultiWriter(os.Stdout, logFile))
	return logFile
}

// LogError records a failure with its module and function context.
func LogError(moduleName, funcName, context string, data interface{}, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logg.WithFields(fields).Error(err.Error())
}
