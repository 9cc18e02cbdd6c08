package utils

import "github.com/sirupsen/logrus" // Logrus for structured logging

// SetupLogger configures the global logrus logger for a service
func SetupLogger(service string, isProd bool) *logrus.Entry {
	if isProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logrus.WithField("service", service)
}
