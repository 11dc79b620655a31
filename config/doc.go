// Package config loads the YAML configuration of the overlay.
package config
