// Package config loads and validates service configuration using viper and
// go-playground/validator.
package config
