package utils

import (
	"github.com/paperstreet/paperbroker/env"
)

// Dev returns true if the broker is in development mode
func Dev() bool {
	return env.GetVar("BROKER_MODE") == "DEV"
}

// Prod returns true if the broker is in production mode
func Prod() bool {
	return env.GetVar("BROKER_MODE") == "PROD"
}

var (
	Sha1hash string
	Version  = "dev"
)
