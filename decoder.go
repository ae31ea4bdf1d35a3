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

// Quadrature decoding

package knob

// Decode selects the quadrature decoding strategy for an encoder.
// The zero value is Normal.
type Decode uint8

const (
	// Normal tracks the 2 bit phase code and detects movement from
	// single phase changes. Suitable for clean switches.
	Normal Decode = iota
	// Flaky uses a 4 bit history table lookup, tolerating switches
	// that bounce or skip phases.
	Flaky
	// FlakyHalfStep is the table lookup for hardware with detents
	// at half the phase resolution.
	FlakyHalfStep
)

// A decoder turns a pair of phase samples into a step movement.
// The rolling sample state is private to each decoder, so one
// decoder serves exactly one encoder.
type decoder interface {
	pulse(a, b bool) int
}

// Table for switches with a flaky notch, indexed by 4 bits of
// phase history (previous sample in the high bits).
var flakyTable = [16]int8{
	0, 1, -1, 0,
	-1, 0, 0, 1,
	1, 0, 0, -1,
	0, -1, 1, 0,
}

// Table for flaky switches with half resolution detents.
var halfStepTable = [16]int8{
	0, 0, -1, 0,
	0, 0, 0, 1,
	1, 0, 0, 0,
	0, -1, 0, 0,
}

// quadDecoder detects steps from changes in the 2 bit phase code.
// The phases are encoded so that a valid quarter cycle changes a
// single bit; the low bit of the difference from the previous code
// flags a step, and bit 1 gives the direction.
type quadDecoder struct {
	last int
}

func (d *quadDecoder) pulse(a, b bool) int {
	curr := 0
	if a {
		curr = 3
	}
	if b {
		curr ^= 1
	}
	diff := d.last - curr
	if diff&1 != 0 {
		d.last = curr
		return (diff & 2) - 1
	}
	return 0
}

// tableDecoder shifts each new 2 bit sample into a 4 bit history
// and looks the history up in a movement table.
type tableDecoder struct {
	last  int
	table *[16]int8
}

func (d *tableDecoder) pulse(a, b bool) int {
	d.last = (d.last << 2) & 0x0F
	if a {
		d.last |= 2
	}
	if b {
		d.last |= 1
	}
	return int(d.table[d.last])
}
