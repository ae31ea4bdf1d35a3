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
	"github.com/stianeikeland/go-rpio/v4"
)

// Rpio is a knob input read through go-rpio's memory mapped GPIO.
type Rpio struct {
	pin rpio.Pin
}

// NewRpio configures a BCM GPIO as an input. Setting pullup enables
// the internal pull-up, wanted for the usual wiring where the switch
// contacts short the pin to ground. The caller owns the library
// lifecycle (rpio.Open before use, rpio.Close when done).
func NewRpio(bcm int, pullup bool) *Rpio {
	p := rpio.Pin(bcm)
	p.Input()
	if pullup {
		p.PullUp()
	}
	return &Rpio{pin: p}
}

// Get returns the pin level, 1 when high.
func (r *Rpio) Get() (int, error) {
	return int(r.pin.Read()), nil
}
