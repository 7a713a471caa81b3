package constants

import "errors"

// Profile errors.
var (
	ErrNoURLConfigured      = errors.New("no API URL configured, run 'rossum configure' first")
	ErrNoUsernameConfigured = errors.New("no username configured, run 'rossum configure' first")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
)

// Validation errors.
var (
	ErrPasswordsDoNotMatch = errors.New("the two entered passwords do not match")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrNoSubjectForNATS    = errors.New("--nats-subject is required with --nats-url")
	ErrDeleteNotConfirmed  = errors.New("delete not confirmed, pass --yes to proceed")
)
