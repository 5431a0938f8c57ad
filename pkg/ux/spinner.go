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
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner is an animated progress line written to w, usually stderr.
//
// In machine mode it prints the message once on Start and nothing else.
type Spinner struct {
	w          io.Writer
	message    string
	stop       chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	isRunning  bool
	animated   bool
	frameIndex int
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation. A spinner cannot be restarted after Stop.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	if GetPersonalityLevel() == PersonalityMachine {
		fmt.Fprintf(s.w, "PROGRESS: %s\n", s.message)
		return
	}

	s.animated = true
	go s.animate()
}

func (s *Spinner) animate() {
	frames := spinnerFrames
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := Styles.Subtitle.Render(frames[s.frameIndex])
			fmt.Fprintf(s.w, "\r%s %s", frame, s.message)
			s.frameIndex = (s.frameIndex + 1) % len(frames)
			s.mu.Unlock()
		}
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	animated := s.animated
	s.mu.Unlock()

	if !animated {
		return
	}
	close(s.stop)
	<-s.done
}

// UpdateMessage changes the spinner message while running
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Message returns the current message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// ProgressSpinner is a Spinner that shows "[current/total]".
type ProgressSpinner struct {
	*Spinner
	countMu sync.Mutex
	base    string
	current int
	total   int
}

// NewProgressSpinner creates a spinner counting towards total.
func NewProgressSpinner(w io.Writer, message string, total int) *ProgressSpinner {
	p := &ProgressSpinner{
		Spinner: NewSpinner(w, message),
		base:    message,
		total:   total,
	}
	p.message = p.format()
	return p
}

// Increment advances the progress counter. Safe for concurrent use.
func (p *ProgressSpinner) Increment() {
	p.countMu.Lock()
	defer p.countMu.Unlock()
	p.current++
	p.UpdateMessage(p.format())
}

func (p *ProgressSpinner) format() string {
	return fmt.Sprintf("%s [%d/%d]", p.base, p.current, p.total)
}
