package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a text slog.Logger on stderr, keeping stdout for results.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
