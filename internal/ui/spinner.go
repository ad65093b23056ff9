package ui

import (
	"time"

	"sensitivity-calc.klederson.com/internal/config"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Spinner animates while requests are outstanding.
type Spinner struct {
	Frame     int
	StartTime time.Time
}

func NewSpinner() *Spinner {
	return &Spinner{StartTime: time.Now()}
}

// Update advances the frame based on elapsed time.
func (s *Spinner) Update(now time.Time) {
	elapsed := now.Sub(s.StartTime)
	s.Frame = int(elapsed/config.SpinnerInterval) % len(spinnerFrames)
}

// Glyph returns the current frame, or a blank when idle.
func (s *Spinner) Glyph(busy bool) string {
	if !busy {
		return " "
	}
	return spinnerFrames[s.Frame]
}
