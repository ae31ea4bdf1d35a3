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

// Simulated knob program.
// A virtual rotary encoder and push-button are driven from stdin
// commands, and the decoded movement and gestures are printed and
// served as a dial image on the monitor port. Useful for exercising
// the driver without hardware.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aamcrae/knob"
	"github.com/aamcrae/knob/pin"
)

var port = flag.Int("port", 8080, "Web server port number")

// Phase pin levels for each quadrature state, in clockwise order.
var phases = [4][2]uint32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// simKnob is the virtual hardware: two phase pins, one button pin.
// The stdin goroutine writes the pin state and the driver's Poller
// reads it, so the values are accessed atomically.
type simKnob struct {
	a, b, btn uint32
	phase     int
}

func main() {
	flag.Parse()
	s := new(simKnob)
	e := knob.New(pin.Func(s.phaseA), pin.Func(s.phaseB), pin.Func(s.button), knob.Normal, 4, false)
	p := knob.NewPoller(e, time.Millisecond)
	defer p.Close()
	d := knob.NewDial("sim", 0, 100, false)
	go knob.Server(*port, []*knob.Dial{d})
	go watch(e, d)
	fmt.Printf("Simulated knob on http://localhost:%d/knob.jpg ('help' for commands)\n", *port)
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("sim> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		var num int
		switch {
		case text == "":
		case text == "help":
			fmt.Println("  r N  - rotate clockwise N detents")
			fmt.Println("  l N  - rotate counter-clockwise N detents")
			fmt.Println("  p    - press and release the button")
			fmt.Println("  d    - double-click the button")
			fmt.Println("  h MS - hold the button for MS milliseconds")
			fmt.Println("  q    - quit")
		case text == "q":
			return
		case text == "p":
			s.press(80 * time.Millisecond)
		case text == "d":
			s.press(80 * time.Millisecond)
			time.Sleep(150 * time.Millisecond)
			s.press(80 * time.Millisecond)
		default:
			if n, err := fmt.Sscanf(text, "r %d", &num); err == nil && n == 1 {
				s.turn(num)
			} else if n, err := fmt.Sscanf(text, "l %d", &num); err == nil && n == 1 {
				s.turn(-num)
			} else if n, err := fmt.Sscanf(text, "h %d", &num); err == nil && n == 1 {
				s.press(time.Duration(num) * time.Millisecond)
			} else {
				fmt.Printf("Unrecognised input\n")
			}
		}
	}
}

// watch polls the encoder and reports movement and gestures.
func watch(e *knob.Encoder, d *knob.Dial) {
	for {
		time.Sleep(10 * time.Millisecond)
		if v := e.GetValue(); v != 0 {
			fmt.Printf("\n%s: %+d -> %d\n", d.Name, v, d.Add(v))
		}
		if b := e.GetButton(); b != knob.Open {
			d.SetButton(b)
			fmt.Printf("\n%s: %s\n", d.Name, b)
		}
	}
}

// turn rotates the knob by a number of detents, negative for
// counter-clockwise. Each quadrature state is held for a few
// service ticks so the decoder sees every transition.
func (s *simKnob) turn(detents int) {
	dir := 1
	if detents < 0 {
		dir = -1
		detents = -detents
	}
	for i := 0; i < detents*4; i++ {
		s.phase = (s.phase + dir + 4) & 3
		atomic.StoreUint32(&s.a, phases[s.phase][0])
		atomic.StoreUint32(&s.b, phases[s.phase][1])
		time.Sleep(3 * time.Millisecond)
	}
}

// press holds the button down for the duration.
func (s *simKnob) press(d time.Duration) {
	atomic.StoreUint32(&s.btn, 1)
	time.Sleep(d)
	atomic.StoreUint32(&s.btn, 0)
	// Let the release debounce before the next command.
	time.Sleep(50 * time.Millisecond)
}

func (s *simKnob) phaseA() int {
	return int(atomic.LoadUint32(&s.a))
}

func (s *simKnob) phaseB() int {
	return int(atomic.LoadUint32(&s.b))
}

func (s *simKnob) button() int {
	return int(atomic.LoadUint32(&s.btn))
}
