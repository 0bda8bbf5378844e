package skin

import (
	"time"

	"folio/internal/particle"
	"folio/internal/timeline"
)

// Cyber skin timing.
const (
	macbookReveal  = time.Second            // laptop slides in during the firewall stage
	payloadSpacing = 200 * time.Millisecond // launch gap between payloads
	payloadFlight  = 1500 * time.Millisecond
	payloadCount   = 30
	orbSpin        = 1.5 // radians per second
)

var payloadWords = []string{"0x1337", "0xFF00", "0xDEAD", "NULL", "DROP", "EXEC"}

var macbookArt = []string{
	`.-----------------------------------.`,
	`| $ sudo kali-linux                 |`,
	`| root@kali:~# nmap -sS -O target   |`,
	`| Starting Nmap scan...             |`,
	`| Vulnerability detected            |`,
	`| Launching payload...              |`,
	`'-----------------------------------'`,
	`  /_________________________________\`,
}

// cyber is a firewall orb ringed by binary particles on the left, a hacker's
// laptop on the right firing payloads at it, and a breach that shatters the
// ring into data fragments.
type cyber struct {
	base
	showMacbook bool
	attackAt    time.Duration // total time when the attack stage began
}

func newCyber(plan timeline.Plan, opts Options) Generator {
	c := &cyber{base: newBase(timeline.Cyber, plan, opts)}
	c.field.Orbit(c.opts.ParticleCount, c.orb(), c.orbRadius())
	return c
}

func (c *cyber) orb() particle.Point {
	w, h := c.field.Size()
	return particle.Point{X: float64(w) / 4, Y: float64(h) / 2}
}

func (c *cyber) orbRadius() float64 {
	_, h := c.field.Size()
	return max(float64(h)/6, 1)
}

func (c *cyber) laptop() particle.Point {
	w, h := c.field.Size()
	return particle.Point{X: float64(w) * 3 / 4, Y: float64(h) / 2}
}

func (c *cyber) Enter(index int, entry timeline.Entry) {
	c.enter(index, entry)

	switch entry.Stage {
	case timeline.StageMacbook:
		c.showMacbook = true
	case timeline.StageAttack:
		c.showMacbook = true
		c.attackAt = c.total
		// Defending: the ring tightens around the orb.
		c.field.Converge(c.orb())
	case timeline.StageBreach:
		c.field.Burst(c.opts.ParticleCount, c.orb())
	}
}

func (c *cyber) Tick(dt time.Duration) {
	c.tick(dt)
	if c.entry.Stage == timeline.StageFirewall && c.inStage >= macbookReveal {
		c.showMacbook = true
	}

	switch c.entry.Stage {
	case timeline.StageFirewall, timeline.StageMacbook:
		c.field.Spin(c.orb(), orbSpin*dt.Seconds())
	case timeline.StageAttack:
		c.field.Spin(c.orb(), 2*orbSpin*dt.Seconds())
		c.field.Seek()
	case timeline.StageBreach, timeline.StageComplete:
		c.field.Step()
		c.field.Fade(-0.5 * dt.Seconds())
	}
}

// payloads returns the in-flight payload labels at the current time.
func (c *cyber) payloads() []Glyph {
	if !c.reached(timeline.StageAttack) || c.reached(timeline.StageBreach) {
		return nil
	}
	from, to := c.laptop(), c.orb()
	since := c.total - c.attackAt

	var out []Glyph
	for i := 0; i < payloadCount; i++ {
		launched := since - time.Duration(i)*payloadSpacing
		if launched < 0 {
			break
		}
		// Payloads loop: each relaunches after landing.
		t := ramp(launched%payloadFlight, payloadFlight)
		out = append(out, Glyph{
			X:       int(from.X + (to.X-from.X)*t),
			Y:       int(from.Y + (to.Y-from.Y)*t + float64(i%5-2)),
			Text:    payloadWords[i%len(payloadWords)],
			Opacity: 1 - t*0.5,
			Tone:    ToneAlert,
		})
	}
	return out
}

func (c *cyber) Frame() Frame {
	f := c.frame()

	f.Glyphs = c.particleGlyphs(TonePrimary)
	if c.reached(timeline.StageBreach) {
		for i := range f.Glyphs {
			f.Glyphs[i].Tone = ToneAlert
		}
	}
	f.Glyphs = append(f.Glyphs, c.payloads()...)

	if c.showMacbook {
		f.Art = macbookArt
		f.ArtTone = ToneAccent
		f.ArtCenter = 0.75
	} else {
		f.ArtOpacity = 0
	}
	f.Status = []string{f.Caption}
	return clampFrame(f)
}
