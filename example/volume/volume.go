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

// Program to demonstrate a volume knob using the go-rpio GPIO library.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/knob"
	"github.com/aamcrae/knob/pin"
	"github.com/stianeikeland/go-rpio/v4"
)

var pinA = flag.Int("a", 17, "BCM GPIO for encoder phase A")
var pinB = flag.Int("b", 27, "BCM GPIO for encoder phase B")
var pinBtn = flag.Int("btn", 22, "BCM GPIO for the push button")

func main() {
	flag.Parse()
	if err := rpio.Open(); err != nil {
		log.Fatalf("rpio: %v", err)
	}
	defer rpio.Close()
	a := pin.NewRpio(*pinA, true)
	b := pin.NewRpio(*pinB, true)
	btn := pin.NewRpio(*pinBtn, true)
	e := knob.New(a, b, btn, knob.Flaky, 4, true)
	p := knob.NewPoller(e, time.Millisecond)
	defer p.Close()
	d := knob.NewDial("volume", 0, 100, false)
	d.Set(50)
	log.Printf("volume knob on GPIO %d/%d, button on GPIO %d", *pinA, *pinB, *pinBtn)
	last := knob.Open
	for {
		time.Sleep(10 * time.Millisecond)
		if v := e.GetValue(); v != 0 {
			log.Printf("volume %d", d.Add(v))
		}
		bt := e.GetButton()
		if bt != knob.Open && bt != last {
			switch bt {
			case knob.Clicked:
				log.Printf("mute")
			case knob.DoubleClicked:
				d.Set(50)
				log.Printf("volume reset to %d", d.Value())
			default:
				log.Printf("button %s", bt)
			}
		}
		last = bt
	}
}
