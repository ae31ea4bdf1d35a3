// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package knob is a driver for rotary encoder knobs with an
// integrated push-button.
//
// The driver is serviced from a periodic tick, nominally 1 kHz,
// usually supplied by a Poller. Each tick samples the encoder phase
// pins and the button pin, accumulating a signed step count and
// classifying button gestures (click, double-click, hold). Fast
// rotation is detected and reported as an acceleration multiplier
// so a knob can sweep a large range quickly and still settle
// precisely.
package knob

import (
	"sync"
	"time"
)

// Acceleration counter bounds, for 1 kHz service ticks.
// The reported multiplier is the counter >> accelShift, so the
// ceiling corresponds to a multiplier of 12.
const (
	accelTop   = 3072
	accelInc   = 25
	accelDec   = 2
	accelShift = 8
)

// Defaults for the button timing parameters.
const (
	defaultInterval    = 10 * time.Millisecond
	defaultHoldTime    = time.Second
	defaultDoubleClick = 600 * time.Millisecond
)

// Pin is the interface to read a digital input.
// *io.Gpio from github.com/aamcrae/gpio satisfies it directly;
// the pin package adapts other GPIO providers.
type Pin interface {
	Get() (int, error)
}

// Encoder converts raw samples from a rotary encoder and its
// push-button into step counts and button gestures.
// The Service method is driven from a tick context (typically a
// Poller goroutine), while GetValue and GetButton are polled from
// the application. The two sides share state under a mutex that is
// only held for a few field updates per tick.
type Encoder struct {
	pinA, pinB Pin // Quadrature phases, nil if not fitted
	pinBtn     Pin // Push-button, nil if not fitted
	active     int // Pin value when a contact is closed
	steps      int // Quadrature steps per detent notch

	ticks     int // Service ticks seen
	lastCheck int // Tick of last button evaluation
	dec       decoder

	mu           sync.Mutex
	delta        int // Accumulated steps, cleared by GetValue
	acceleration int
	accelOn      bool

	button           Button
	keyDownTicks     int
	doubleClickTicks int
	doubleClickOn    bool
	heldOn           bool
	interval         time.Duration // Button poll and debounce interval
	holdTime         time.Duration
	doubleClickTime  time.Duration
}

// New creates an Encoder for a quadrature knob, optionally with a
// push-button (btn may be nil). dec selects the decoding strategy.
// steps is the number of quadrature steps per detent notch, normally
// 4; values other than 1, 2 or 4 behave as 1. activeLow indicates
// the contacts pull the pins low when closed, which is the common
// wiring (pins pulled up, switch to ground).
// The current phase state is sampled so that the first service tick
// does not register a phantom step.
func New(a, b, btn Pin, dec Decode, steps int, activeLow bool) *Encoder {
	e := newEncoder(btn, steps, activeLow)
	if a != nil && b != nil {
		e.pinA = a
		e.pinB = b
		last := 0
		if v, err := a.Get(); err == nil && v == e.active {
			last = 3
		}
		if v, err := b.Get(); err == nil && v == e.active {
			last ^= 1
		}
		switch dec {
		case Flaky:
			e.dec = &tableDecoder{last: last, table: &flakyTable}
		case FlakyHalfStep:
			e.dec = &tableDecoder{last: last, table: &halfStepTable}
		default:
			e.dec = &quadDecoder{last: last}
		}
	}
	return e
}

// NewButton creates an Encoder servicing only a push-button, for
// plain buttons that want the same debounce and gesture handling.
func NewButton(btn Pin, activeLow bool) *Encoder {
	return newEncoder(btn, 1, activeLow)
}

func newEncoder(btn Pin, steps int, activeLow bool) *Encoder {
	e := new(Encoder)
	e.pinBtn = btn
	switch steps {
	case 1, 2, 4:
		e.steps = steps
	default:
		e.steps = 1
	}
	e.active = 1
	if activeLow {
		e.active = 0
	}
	e.accelOn = true
	e.doubleClickOn = true
	e.heldOn = true
	e.interval = defaultInterval
	e.holdTime = defaultHoldTime
	e.doubleClickTime = defaultDoubleClick
	return e
}

// Service advances the driver by one tick. It must be called at a
// steady rate, nominally once per millisecond; the Poller provides
// this. Every call is O(1) and never blocks. A pin read failure
// skips that subsystem for the tick; the next good sample recovers.
func (e *Encoder) Service() {
	e.ticks++
	var av, bv, btnv int
	phases := false
	if e.dec != nil {
		var aerr, berr error
		av, aerr = e.pinA.Get()
		bv, berr = e.pinB.Get()
		phases = aerr == nil && berr == nil
	}
	btn := false
	if e.pinBtn != nil {
		var err error
		btnv, err = e.pinBtn.Get()
		btn = err == nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if phases {
		// Acceleration decays every tick, before any movement
		// this tick is counted.
		if e.accelOn {
			if e.acceleration >= accelDec {
				e.acceleration -= accelDec
			} else {
				e.acceleration = 0
			}
		}
		if d := e.dec.pulse(av == e.active, bv == e.active); d != 0 {
			e.delta += d
			if e.accelOn && e.acceleration <= accelTop-accelInc {
				e.acceleration += accelInc
			}
		}
	}
	if btn && e.ticks-e.lastCheck >= e.intervalTicks() {
		e.lastCheck = e.ticks
		e.buttonTick(btnv == e.active)
	}
}

// GetValue returns the knob movement since the last call as a signed
// notch count with acceleration applied: 0 for no movement, otherwise
// +/-(1 + multiplier). At most one notch is consumed per call; the
// acceleration multiplier, not a larger count, is what reflects fast
// rotation. Sub-notch progress is retained for later calls.
// Safe to call concurrently with Service.
func (e *Encoder) GetValue() int {
	e.mu.Lock()
	val := e.delta
	switch e.steps {
	case 2:
		e.delta = val & 1
	case 4:
		e.delta = val & 3
	default:
		e.delta = 0
	}
	accel := 0
	if e.accelOn {
		accel = e.acceleration >> accelShift
	}
	e.mu.Unlock()

	switch e.steps {
	case 2:
		val >>= 1
	case 4:
		val >>= 2
	}
	r := 0
	if val < 0 {
		r = -(1 + accel)
	} else if val > 0 {
		r = 1 + accel
	}
	return r
}

// GetButton returns the pending button gesture and clears it, so
// each gesture is reported exactly once. The exception is Held,
// which is reported for as long as the button stays down; the
// release is what retires it (as Released).
// Safe to call concurrently with Service.
func (e *Encoder) GetButton() Button {
	e.mu.Lock()
	defer e.mu.Unlock()
	ret := e.button
	if e.button != Held && ret != Open {
		e.button = Open
	}
	return ret
}

// SetAcceleration enables or disables acceleration. While disabled
// the counter neither grows nor decays and the reported multiplier
// is 0.
func (e *Encoder) SetAcceleration(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.accelOn = on
}

// SetDoubleClick enables or disables double-click detection.
// While disabled a click resolves one evaluated tick after release
// instead of waiting out the double-click window.
func (e *Encoder) SetDoubleClick(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doubleClickOn = on
}

// SetHeld enables or disables detection of the Held gesture.
func (e *Encoder) SetHeld(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.heldOn = on
}

// SetButtonInterval sets the button poll interval, which is also the
// debounce window. Values under a millisecond are raised to one.
func (e *Encoder) SetButtonInterval(d time.Duration) {
	if d < time.Millisecond {
		d = time.Millisecond
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = d
}

// SetHoldTime sets how long the button must stay down to report Held.
func (e *Encoder) SetHoldTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holdTime = d
}

// SetDoubleClickTime sets the window within which a second press
// reports DoubleClicked.
func (e *Encoder) SetDoubleClickTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doubleClickTime = d
}

// intervalTicks is the button interval in service ticks, assuming
// the nominal 1 ms tick. Called with the mutex held.
func (e *Encoder) intervalTicks() int {
	t := int(e.interval / time.Millisecond)
	if t < 1 {
		t = 1
	}
	return t
}
