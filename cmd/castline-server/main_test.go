// ABOUTME: Tests for the colorized slog handler used by castline-server
// ABOUTME: Covers level gating and group-qualified attribute rendering

package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorHandler_QualifiesKeysWithGroups(t *testing.T) {
	var buf bytes.Buffer
	h := &colorHandler{out: &buf, level: slog.LevelInfo}

	logger := slog.New(h).WithGroup("req").With("id", "42")
	logger.Info("served", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "served")
	assert.Contains(t, out, "req.id=")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "req.status=")
	assert.Contains(t, out, "200")
}

func TestColorHandler_UngroupedKeysAreBare(t *testing.T) {
	var buf bytes.Buffer
	h := &colorHandler{out: &buf, level: slog.LevelInfo}

	slog.New(h).Info("listening", "addr", ":8080")

	assert.Contains(t, buf.String(), "addr=")
	assert.NotContains(t, buf.String(), ".addr=")
}

func TestColorHandler_SuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	h := &colorHandler{out: &buf, level: slog.LevelInfo}

	slog.New(h).Debug("noisy")

	assert.Empty(t, buf.String())
}
