// Package typewriter reveals text one rune at a time as time elapses.
package typewriter

import "time"

// DefaultSpeed is the delay between revealed runes.
const DefaultSpeed = 30 * time.Millisecond

// Typewriter reveals Text at one rune per Speed. It holds no timers; callers
// pass the elapsed time since typing began.
type Typewriter struct {
	Text  string
	Speed time.Duration
}

// New creates a Typewriter for text. A non-positive speed uses [DefaultSpeed].
func New(text string, speed time.Duration) Typewriter {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return Typewriter{Text: text, Speed: speed}
}

// Count returns how many runes are visible after elapsed.
func (t Typewriter) Count(elapsed time.Duration) int {
	total := len([]rune(t.Text))
	if elapsed < 0 {
		return 0
	}
	speed := t.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	n := int(elapsed/speed) + 1
	if n > total {
		return total
	}
	return n
}

// Visible returns the prefix of Text visible after elapsed. The first rune
// appears immediately, matching an interval that fires on its first tick.
func (t Typewriter) Visible(elapsed time.Duration) string {
	runes := []rune(t.Text)
	return string(runes[:t.Count(elapsed)])
}

// Done reports whether all of Text is visible after elapsed.
func (t Typewriter) Done(elapsed time.Duration) bool {
	return t.Count(elapsed) == len([]rune(t.Text))
}

// Duration returns the elapsed time at which typing completes.
func (t Typewriter) Duration() time.Duration {
	total := len([]rune(t.Text))
	if total == 0 {
		return 0
	}
	speed := t.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return time.Duration(total-1) * speed
}
