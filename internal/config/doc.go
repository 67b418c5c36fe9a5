// Package config loads application settings from defaults, an optional
// config.yaml, an optional .env file and NLANG_ prefixed environment
// variables, in increasing order of precedence. The result is validated before
// it is handed to the rest of the application.
package config
