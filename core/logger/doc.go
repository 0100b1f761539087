// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the trigger endpoints.
//
// # Context Awareness
//
// Two scoping helpers exist:
//   - WithRayID extracts the RayID from a Fiber context so request logs can be correlated.
//   - WithRun tags every entry of a sync run with its run_id and feed source.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithRun(log, runID, feedURL)
//	l.Warn("Record skipped", zap.Error(err))
package logger
