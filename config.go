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

package knob

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aamcrae/config"
	"github.com/aamcrae/gpio"
)

// KnobConfig is the configuration for one knob, read from a
// configuration file section. Pin numbers of -1 indicate the pin
// is not fitted.
type KnobConfig struct {
	Name        string
	A, B        int // Phase GPIOs
	Btn         int // Button GPIO
	Steps       int
	Decode      Decode
	ActiveHigh  bool
	NoAccel     bool
	Interval    time.Duration
	Hold        time.Duration
	DoubleClick time.Duration
	Min, Max    int
	Wrap        bool
}

// Config reads and validates a knob config from a config file section.
// Only the pin entries are required, and at least one of them.
// Sample config:
//  [volume]
//  encoder=17,27        # GPIOs for phase A and B
//  button=22            # GPIO for the push button
//  steps=4              # quadrature steps per notch (1, 2 or 4)
//  decode=flaky         # normal, flaky or halfstep
//  activehigh=false     # contacts read high when closed
//  noaccel=false        # disable acceleration
//  interval=10ms        # button poll/debounce interval
//  hold=1s              # hold gesture time
//  doubleclick=600ms    # double-click window
//  range=0,100          # dial range
//  wrap=false           # wrap at the range bounds
func Config(conf *config.Config, name string) (*KnobConfig, error) {
	s := conf.GetSection(name)
	if s == nil {
		return nil, fmt.Errorf("no config for %s", name)
	}
	k := &KnobConfig{
		Name:        name,
		A:           -1,
		B:           -1,
		Btn:         -1,
		Steps:       4,
		Interval:    defaultInterval,
		Hold:        defaultHoldTime,
		DoubleClick: defaultDoubleClick,
		Min:         0,
		Max:         100,
	}
	if arg, err := s.GetArg("encoder"); err == nil {
		n, cerr := fmt.Sscanf(arg, "%d,%d", &k.A, &k.B)
		if cerr != nil || n != 2 {
			return nil, fmt.Errorf("encoder: invalid phase pins")
		}
	}
	if arg, err := s.GetArg("button"); err == nil {
		n, cerr := fmt.Sscanf(arg, "%d", &k.Btn)
		if cerr != nil || n != 1 {
			return nil, fmt.Errorf("button: invalid pin")
		}
	}
	if k.A < 0 && k.Btn < 0 {
		return nil, fmt.Errorf("%s: no encoder or button configured", name)
	}
	if arg, err := s.GetArg("steps"); err == nil {
		n, cerr := fmt.Sscanf(arg, "%d", &k.Steps)
		if cerr != nil || n != 1 {
			return nil, fmt.Errorf("steps: %v", cerr)
		}
		if k.Steps != 1 && k.Steps != 2 && k.Steps != 4 {
			return nil, fmt.Errorf("steps: must be 1, 2 or 4")
		}
	}
	if arg, err := s.GetArg("decode"); err == nil {
		switch arg {
		case "normal":
			k.Decode = Normal
		case "flaky":
			k.Decode = Flaky
		case "halfstep":
			k.Decode = FlakyHalfStep
		default:
			return nil, fmt.Errorf("decode: unknown strategy %s", arg)
		}
	}
	var err error
	if k.ActiveHigh, err = boolArg(s, "activehigh"); err != nil {
		return nil, err
	}
	if k.NoAccel, err = boolArg(s, "noaccel"); err != nil {
		return nil, err
	}
	if k.Wrap, err = boolArg(s, "wrap"); err != nil {
		return nil, err
	}
	if k.Interval, err = durationArg(s, "interval", k.Interval); err != nil {
		return nil, err
	}
	if k.Hold, err = durationArg(s, "hold", k.Hold); err != nil {
		return nil, err
	}
	if k.DoubleClick, err = durationArg(s, "doubleclick", k.DoubleClick); err != nil {
		return nil, err
	}
	if arg, err := s.GetArg("range"); err == nil {
		n, cerr := fmt.Sscanf(arg, "%d,%d", &k.Min, &k.Max)
		if cerr != nil || n != 2 {
			return nil, fmt.Errorf("range: invalid bounds")
		}
		if k.Max <= k.Min {
			return nil, fmt.Errorf("range: empty range")
		}
	}
	return k, nil
}

// boolArg parses an optional boolean entry, defaulting to false.
func boolArg(s *config.Section, name string) (bool, error) {
	arg, err := s.GetArg(name)
	if err != nil {
		return false, nil
	}
	v, err := strconv.ParseBool(arg)
	if err != nil {
		return false, fmt.Errorf("%s: %v", name, err)
	}
	return v, nil
}

// durationArg parses an optional duration entry.
func durationArg(s *config.Section, name string, def time.Duration) (time.Duration, error) {
	arg, err := s.GetArg(name)
	if err != nil {
		return def, nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return def, fmt.Errorf("%s: %v", name, err)
	}
	return d, nil
}

// Knob combines the I/O, encoder, dial and poller for one physical
// knob built from a config file section. The GPIO pins are opened
// through the sysfs interface, and the encoder is serviced at the
// nominal 1 ms tick until the knob is closed.
type Knob struct {
	Encoder *Encoder
	Dial    *Dial
	Config  *KnobConfig
	poller  *Poller
	pins    []*io.Gpio
}

// NewKnob opens the GPIO pins and assembles a running knob.
func NewKnob(kc *KnobConfig) (*Knob, error) {
	k := new(Knob)
	k.Config = kc
	var a, b, btn Pin
	if kc.A >= 0 && kc.B >= 0 {
		ga, err := io.Pin(kc.A)
		if err != nil {
			return nil, fmt.Errorf("pin %d: %v", kc.A, err)
		}
		k.pins = append(k.pins, ga)
		gb, err := io.Pin(kc.B)
		if err != nil {
			k.Close()
			return nil, fmt.Errorf("pin %d: %v", kc.B, err)
		}
		k.pins = append(k.pins, gb)
		a, b = ga, gb
	}
	if kc.Btn >= 0 {
		g, err := io.Pin(kc.Btn)
		if err != nil {
			k.Close()
			return nil, fmt.Errorf("pin %d: %v", kc.Btn, err)
		}
		k.pins = append(k.pins, g)
		btn = g
	}
	if a != nil {
		k.Encoder = New(a, b, btn, kc.Decode, kc.Steps, !kc.ActiveHigh)
	} else {
		k.Encoder = NewButton(btn, !kc.ActiveHigh)
	}
	if kc.NoAccel {
		k.Encoder.SetAcceleration(false)
	}
	k.Encoder.SetButtonInterval(kc.Interval)
	k.Encoder.SetHoldTime(kc.Hold)
	k.Encoder.SetDoubleClickTime(kc.DoubleClick)
	k.Dial = NewDial(kc.Name, kc.Min, kc.Max, kc.Wrap)
	k.poller = NewPoller(k.Encoder, time.Millisecond)
	return k, nil
}

// Poll takes one application-side sample of the knob. Movement is
// applied to the dial and any gesture recorded on it; both are
// returned, Open meaning no gesture.
func (k *Knob) Poll() (int, Button) {
	v := k.Encoder.GetValue()
	if v != 0 {
		k.Dial.Add(v)
	}
	b := k.Encoder.GetButton()
	if b != Open {
		k.Dial.SetButton(b)
	}
	return v, b
}

// Close stops servicing the knob and releases the GPIO pins.
func (k *Knob) Close() {
	if k.poller != nil {
		k.poller.Close()
		k.poller = nil
	}
	for _, g := range k.pins {
		g.Close()
	}
	k.pins = nil
}
