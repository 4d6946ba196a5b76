package ui

import (
	"time"
)

// ComboDetector watches the red+player1 long press that requests
// system shutdown. Kiosk has no power switch within customer reach.
type ComboDetector struct {
	hold     time.Duration
	redSince time.Time
	p1Since  time.Time
	redDown  bool
	p1Down   bool
	fired    bool
}

func NewComboDetector(hold time.Duration) *ComboDetector {
	return &ComboDetector{hold: hold}
}

func (self *ComboDetector) Press(c Color, at time.Time) {
	switch c {
	case ColorRed:
		if !self.redDown {
			self.redDown = true
			self.redSince = at
		}
	case ColorPlayer1:
		if !self.p1Down {
			self.p1Down = true
			self.p1Since = at
		}
	}
}

func (self *ComboDetector) Release(c Color, at time.Time) {
	switch c {
	case ColorRed:
		self.redDown = false
	case ColorPlayer1:
		self.p1Down = false
	}
	// re-arm only after both are up, holding one button down must not
	// allow rapid fire
	if !self.redDown && !self.p1Down {
		self.fired = false
	}
}

// Check returns true exactly once per armed combo when both buttons
// were held for the configured duration.
func (self *ComboDetector) Check(now time.Time) bool {
	if self.fired || !self.redDown || !self.p1Down {
		return false
	}
	since := self.redSince
	if self.p1Since.After(since) {
		since = self.p1Since
	}
	if now.Sub(since) >= self.hold {
		self.fired = true
		return true
	}
	return false
}
