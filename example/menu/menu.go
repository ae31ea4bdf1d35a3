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

// Program to demonstrate menu selection with a knob, using the
// periph.io GPIO library. Turning moves the selection (wrapping at
// the ends), a click selects, a double-click returns to the top,
// and holding the button exits.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/knob"
	"github.com/aamcrae/knob/pin"
	"periph.io/x/host/v3"
)

var pinA = flag.String("a", "GPIO17", "Pin name for encoder phase A")
var pinB = flag.String("b", "GPIO27", "Pin name for encoder phase B")
var pinBtn = flag.String("btn", "GPIO22", "Pin name for the push button")

var items = []string{"Play", "Pause", "Next", "Previous", "Shuffle", "Repeat"}

func main() {
	flag.Parse()
	if _, err := host.Init(); err != nil {
		log.Fatalf("host init: %v", err)
	}
	a, err := pin.NewPeriph(*pinA, true)
	if err != nil {
		log.Fatalf("%s: %v", *pinA, err)
	}
	b, err := pin.NewPeriph(*pinB, true)
	if err != nil {
		log.Fatalf("%s: %v", *pinB, err)
	}
	btn, err := pin.NewPeriph(*pinBtn, true)
	if err != nil {
		log.Fatalf("%s: %v", *pinBtn, err)
	}
	e := knob.New(a, b, btn, knob.Normal, 4, true)
	// One menu entry per detent, however fast the knob is spun.
	e.SetAcceleration(false)
	p := knob.NewPoller(e, time.Millisecond)
	defer p.Close()
	d := knob.NewDial("menu", 0, len(items)-1, true)
	log.Printf("menu: %s", items[d.Value()])
	for {
		time.Sleep(10 * time.Millisecond)
		if v := e.GetValue(); v != 0 {
			log.Printf("menu: %s", items[d.Add(v)])
		}
		switch e.GetButton() {
		case knob.Clicked:
			log.Printf("selected %s", items[d.Value()])
		case knob.DoubleClicked:
			d.Set(0)
			log.Printf("menu: %s", items[d.Value()])
		case knob.Held:
			log.Printf("exiting")
			return
		}
	}
}
