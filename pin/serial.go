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
	"sync/atomic"

	"go.bug.st/serial"
)

// Remote samples a knob wired to a remote microcontroller that
// streams its pin state over a serial port, one byte per sample:
// bit 0 is phase A, bit 1 phase B, bit 2 the button. A reader
// goroutine keeps the most recent sample, and the PhaseA, PhaseB
// and Button views hand out the individual bits, so a tethered
// knob plugs into the driver exactly like local GPIO.
//
// A failed or closed port stops the reader and freezes the last
// sample, which reads as a stationary knob.
type Remote struct {
	port   serial.Port
	sample uint32
}

// NewRemote opens the serial device and starts sampling.
func NewRemote(device string, baud int) (*Remote, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	r := &Remote{port: port}
	go r.reader()
	return r, nil
}

// Close closes the serial port, stopping the reader.
func (r *Remote) Close() error {
	return r.port.Close()
}

// PhaseA returns the phase A view of the sample stream.
func (r *Remote) PhaseA() Func {
	return r.bit(0)
}

// PhaseB returns the phase B view of the sample stream.
func (r *Remote) PhaseB() Func {
	return r.bit(1)
}

// Button returns the button view of the sample stream.
func (r *Remote) Button() Func {
	return r.bit(2)
}

func (r *Remote) bit(n uint) Func {
	return func() int {
		return int(atomic.LoadUint32(&r.sample)>>n) & 1
	}
}

func (r *Remote) reader() {
	buf := make([]byte, 64)
	for {
		n, err := r.port.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			// Only the latest sample matters.
			r.store(buf[n-1])
		}
	}
}

func (r *Remote) store(b byte) {
	atomic.StoreUint32(&r.sample, uint32(b))
}
