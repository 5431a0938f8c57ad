// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner_Defaults(t *testing.T) {
	spin := NewSpinner(&bytes.Buffer{}, "Loading...")
	if spin.Message() != "Loading..." {
		t.Errorf("expected message 'Loading...', got %q", spin.Message())
	}
}

func TestSpinner_Start_MachineMode(t *testing.T) {
	withLevel(t, PersonalityMachine)

	var out bytes.Buffer
	spin := NewSpinner(&out, "Processing...")
	spin.Start()
	spin.Start() // second start is a no-op
	spin.Stop()

	if out.String() != "PROGRESS: Processing...\n" {
		t.Errorf("expected one PROGRESS line, got %q", out.String())
	}
}

func TestSpinner_Stop_NotRunning(t *testing.T) {
	spin := NewSpinner(&bytes.Buffer{}, "Processing...")
	spin.Stop() // must not panic or block
}

func TestSpinner_Animates(t *testing.T) {
	withLevel(t, PersonalityStandard)

	out := &syncBuffer{}
	spin := NewSpinner(out, "Working")
	spin.Start()
	time.Sleep(3 * spinnerInterval)
	spin.Stop()

	got := out.String()
	if !strings.Contains(got, "Working") {
		t.Errorf("expected the message in the animation, got %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K") {
		t.Errorf("expected the line to be cleared on stop, got %q", got)
	}
}

func TestProgressSpinner_Increment(t *testing.T) {
	p := NewProgressSpinner(&bytes.Buffer{}, "Generating", 3)
	if p.Message() != "Generating [0/3]" {
		t.Fatalf("initial message = %q", p.Message())
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Increment()
		}()
	}
	wg.Wait()

	if p.Message() != "Generating [3/3]" {
		t.Errorf("message = %q, want Generating [3/3]", p.Message())
	}
}
