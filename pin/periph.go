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

package pin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Periph is a knob input read through a periph.io pin.
type Periph struct {
	pin gpio.PinIO
}

// NewPeriph resolves a pin by name (e.g "GPIO17") and configures it
// as an input, with the internal pull-up when pullup is set. The
// caller must have initialised the host (host.Init) beforehand.
// No edge detection is requested; the driver polls.
func NewPeriph(name string, pullup bool) (*Periph, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%s: unknown pin", name)
	}
	pull := gpio.Float
	if pullup {
		pull = gpio.PullUp
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return &Periph{pin: p}, nil
}

// Get returns the pin level, 1 when high.
func (p *Periph) Get() (int, error) {
	if p.pin.Read() == gpio.High {
		return 1, nil
	}
	return 0, nil
}
