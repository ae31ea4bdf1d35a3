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
	"sync"
)

// Dial accumulates knob movement into a position within a range,
// either clamping at the bounds or wrapping around them. It also
// records the last button gesture, so a Dial carries everything a
// display (such as the HTTP monitor) needs to show one knob.
type Dial struct {
	Name     string
	mu       sync.Mutex
	value    int
	min, max int
	wrap     bool
	button   Button
}

// NewDial creates a dial covering [min, max] inclusive, starting
// at min. With wrap set, movement past either bound continues from
// the other.
func NewDial(name string, min, max int, wrap bool) *Dial {
	if max < min {
		min, max = max, min
	}
	if max == min {
		max = min + 1
	}
	return &Dial{Name: name, value: min, min: min, max: max, wrap: wrap}
}

// Add applies a movement to the dial and returns the new position.
func (d *Dial) Add(delta int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.value + delta
	if d.wrap {
		span := d.max - d.min + 1
		v = (v - d.min) % span
		if v < 0 {
			v += span
		}
		v += d.min
	} else if v > d.max {
		v = d.max
	} else if v < d.min {
		v = d.min
	}
	d.value = v
	return v
}

// Value returns the current position.
func (d *Dial) Value() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Set moves the dial to a position, clamped to the range.
func (d *Dial) Set(v int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if v > d.max {
		v = d.max
	}
	if v < d.min {
		v = d.min
	}
	d.value = v
}

// Range returns the dial bounds.
func (d *Dial) Range() (int, int) {
	return d.min, d.max
}

// SetButton records a button gesture for display.
func (d *Dial) SetButton(b Button) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.button = b
}

// Button returns the last recorded gesture.
func (d *Dial) Button() Button {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.button
}
