// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles_RegeneratesOnWrite(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.py")
	other := filepath.Join(dir, "other.py")
	require.NoError(t, os.WriteFile(watched, []byte("def f():\n    pass\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, 20*time.Millisecond, func(path string) {
			changed <- path
		}, discardLogger())
	}()

	var got string
	require.Eventually(t, func() bool {
		// Writes to unwatched neighbours are ignored.
		_ = os.WriteFile(other, []byte("x = 1\n"), 0644)
		_ = os.WriteFile(watched, []byte("def f(x):\n    return x\n"), 0644)
		select {
		case got = <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, watched, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFiles did not return after cancel")
	}
}

func TestWatchFiles_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent", "file.py")

	err := watchFiles(context.Background(), []string{missing}, time.Millisecond, func(string) {}, discardLogger())
	assert.Error(t, err)
}

func TestDebouncer_BurstRunsOnce(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.trigger("a.py", func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_StaleTimerSkipped(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	fn := func() { calls.Add(1) }

	// The first timer fires while the lock is held and its callback
	// blocks; the next event lands before that callback runs.
	d.trigger("a.py", fn)
	d.mu.Lock()
	time.Sleep(30 * time.Millisecond)
	d.triggerLocked("a.py", fn)
	d.mu.Unlock()

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_SeparateKeys(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	d.trigger("a.py", func() { calls.Add(1) })
	d.trigger("b.py", func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}
