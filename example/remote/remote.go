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

// Program to demonstrate a knob tethered to a microcontroller that
// streams pin samples over a serial port.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/knob"
	"github.com/aamcrae/knob/pin"
)

var device = flag.String("device", "/dev/ttyACM0", "Serial device")
var baud = flag.Int("baud", 115200, "Baud rate")

func main() {
	flag.Parse()
	r, err := pin.NewRemote(*device, *baud)
	if err != nil {
		log.Fatalf("%s: %v", *device, err)
	}
	defer r.Close()
	e := knob.New(r.PhaseA(), r.PhaseB(), r.Button(), knob.Normal, 4, true)
	p := knob.NewPoller(e, time.Millisecond)
	defer p.Close()
	log.Printf("remote knob on %s at %d baud", *device, *baud)
	total := 0
	last := knob.Open
	for {
		time.Sleep(10 * time.Millisecond)
		if v := e.GetValue(); v != 0 {
			total += v
			log.Printf("moved %+d, total %d", v, total)
		}
		b := e.GetButton()
		if b != knob.Open && b != last {
			log.Printf("button %s", b)
		}
		last = b
	}
}
