package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunTriggersOnChange(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan struct{}, 1)
	w := New([]string{dir}, 50*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte("x"), 0o600))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no rebuild triggered")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRunDebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	changed := make(chan struct{}, 16)
	w := New([]string{dir}, 200*time.Millisecond, func() {
		calls.Add(1)
		changed <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte{byte(i)}, 0o600))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no rebuild triggered")
	}

	// The burst must have collapsed into a single callback.
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRunMissingDirIsSkipped(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w := New([]string{filepath.Join(t.TempDir(), "missing")}, 0, func() {})
	require.ErrorIs(t, w.Run(ctx), context.DeadlineExceeded)
}
