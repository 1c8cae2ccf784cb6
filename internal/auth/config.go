package auth

import (
	"github.com/sirupsen/logrus"
)

var adminUsername string
var adminPassword string // Plain text, checked as-is

// SetCredentials installs the admin username and password the login handler
// checks against. Called once at startup from the loaded configuration; a
// warning is logged when either is empty since login is then impossible.
func SetCredentials(username, password string) {
	adminUsername = username
	adminPassword = password

	log := logrus.WithField("component", "auth")
	if adminUsername == "" {
		log.Warn("ADMIN_USERNAME not set; admin login is disabled")
	}
	if adminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set; admin login is disabled")
	}
}
