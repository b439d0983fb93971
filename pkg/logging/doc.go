// Package logging provides structured logging configuration for mockclient.
//
// This package wraps log/slog so every mockclient component logs the same way.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//	client, _ := mockclient.New(mockclient.WithLogger(logger))
//
// Inside tests, route engine logs through the test's own log so they only
// show up for failing or verbose runs:
//
//	logger := slog.New(logging.NewTestHandler(t, logging.LevelDebug))
//
// Components accept a *slog.Logger through an option. When none is given
// they use Nop().
package logging
