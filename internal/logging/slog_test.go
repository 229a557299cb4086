package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, level slog.Level) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "opening store", "dsn", "movies.db")
	log.Info(ctx, "movie added", "title", "Heat")
	log.Warn(ctx, "remembered login disabled", "owner", "bob")
	log.Error(ctx, "closing database", "code", 5)

	out := buf.String()
	for _, want := range []string{
		`level=DEBUG msg="opening store" dsn=movies.db`,
		`level=INFO msg="movie added" title=Heat`,
		`level=WARN msg="remembered login disabled" owner=bob`,
		`level=ERROR msg="closing database" code=5`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	log, buf := newTestLogger(t, slog.LevelWarn)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t, slog.LevelInfo)

	log.With("run", "abc", "owner", "alice").Info(context.Background(), "hello", "k", "v")

	for _, s := range []string{"msg=hello", "run=abc", "owner=alice", "k=v"} {
		assert.Contains(t, buf.String(), s)
	}
}

func TestSlogLogger_NilDiscards(t *testing.T) {
	log := NewSlogLogger(nil)
	require.NotPanics(t, func() {
		log.Info(context.TODO(), "nowhere")
		log.With("a", 1).Error(context.TODO(), "nowhere")
	})
}
