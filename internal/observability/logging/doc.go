// Package logging builds the application's slog logger and carries it
// through request contexts.
//
// Key features:
//   - JSON and text output formats
//   - Level from configuration (debug, info, warn, error)
//   - Optional log file written alongside stdout
//   - Request ID propagation
//
// Example usage:
//
//	logger, closer, err := logging.New(logging.Options{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//	slog.SetDefault(logger)
package logging
