// Package logger wraps zerolog behind a small structured logging interface.
//
// The labeling loop owns the terminal, so the default configuration sends
// logs to a file. Each run is tagged with a run_id field by the caller:
//
//	log, err := logger.New(&cfg.Logging)
//	log = log.WithField("run_id", uuid.NewString())
//	log.InfoWithFields("Fetched catalog page", map[string]interface{}{"records": 3})
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard them.
package logger
