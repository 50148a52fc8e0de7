package app

import "github.com/librescoot/ledshield/shield"

// idle glows every LED at the potentiometer level and waits for a key or a
// serial command to start a program
func (p *Program) idle() {
	level := p.readIntensity()
	for i := range p.leds {
		p.leds[i].Active = true
		p.leds[i].Value = level
	}
	p.writeAll(255)

	switch {
	case p.pressed(0):
		p.d.RequestTransition(StateCycleStart)
	case p.pressed(1):
		p.d.RequestTransition(StateRainbowStart)
	default:
		cmd, ok := p.hw.UART.Take()
		if !ok {
			return
		}
		next, known := Commands[cmd]
		if !known {
			p.logger.Warn("unknown serial command", "command", cmd)
			return
		}
		p.logger.Debug("serial command", "command", cmd, "state", next)
		p.d.RequestTransition(next)
	}
}

func (p *Program) cycleStart() {
	for i := range p.leds {
		p.leds[i].Active = false
	}
	p.writeAll(255)
	p.cycleIdx = 0
	p.cycleAt = p.hw.Clock.Millis()
	p.d.Release()
}

// cycle lights one LED at a time, each for the dwell time, and returns to
// idle after the last one or on any key press
func (p *Program) cycle() {
	if p.anyKeyPressed() {
		p.logger.Debug("cycle interrupted by key")
		return
	}

	if shield.Elapsed(p.hw.Clock, p.cycleAt, p.dwell) {
		p.cycleIdx++
		p.cycleAt = p.hw.Clock.Millis()
	}
	if p.cycleIdx >= len(p.leds) {
		for i := range p.leds {
			p.leds[i].Active = false
		}
		p.writeAll(255)
		return
	}

	level := p.readIntensity()
	for i := range p.leds {
		p.leds[i].Active = i == p.cycleIdx
		p.leds[i].Value = level
	}
	p.writeAll(255)
	p.d.Release()
}

// rainbowStart spreads the LEDs evenly over the fade range
func (p *Program) rainbowStart() {
	n := len(p.leds)
	for i := range p.leds {
		p.leds[i].Active = true
		p.leds[i].Value = uint8(i * 255 / n)
		p.leds[i].Direction = shield.FadeUp
	}
	p.d.Release()
}

// rainbow fades every LED one step per tick until a key is pressed
func (p *Program) rainbow() {
	if p.anyKeyPressed() {
		p.logger.Debug("rainbow stopped by key")
		return
	}

	now := p.hw.Clock.Millis()
	for i := range p.leds {
		shield.Fade(&p.leds[i])
		p.leds[i].LastUpdated = now
	}
	p.writeAll(p.readIntensity())
	p.d.Release()
}
