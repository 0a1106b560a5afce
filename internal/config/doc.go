// Package config loads PrepMate settings from config.yaml, a .env file and
// PREPMATE_* environment variables, then validates them with struct tags.
package config
