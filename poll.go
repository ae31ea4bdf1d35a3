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
	"time"
)

// Poller services an Encoder from a background goroutine at a fixed
// rate, standing in for the timer interrupt the driver is designed
// around. The encoder accessors are then polled at whatever rate
// suits the application.
type Poller struct {
	enc      *Encoder
	stopChan chan bool
}

// NewPoller starts servicing the encoder every interval.
// An interval of zero or less selects the nominal 1 ms tick.
func NewPoller(e *Encoder, interval time.Duration) *Poller {
	p := new(Poller)
	p.enc = e
	p.stopChan = make(chan bool)
	if interval <= 0 {
		interval = time.Millisecond
	}
	go p.run(interval)
	return p
}

// Close stops the polling goroutine.
func (p *Poller) Close() {
	close(p.stopChan)
}

func (p *Poller) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.enc.Service()
		}
	}
}
