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

// Tuning utility.
// Builds a knob from a config file, prints live events, and lets the
// timing thresholds and feature toggles be changed interactively so
// debounce, hold and double-click settings can be tuned against the
// real hardware before being written back to the config.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aamcrae/config"
	"github.com/aamcrae/knob"
)

var configFile = flag.String("config", "", "Configuration file")
var section = flag.String("knob", "volume", "Knob to tune")

func main() {
	flag.Parse()
	conf, err := config.ParseFile(*configFile)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	kc, err := knob.Config(conf, *section)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	k, err := knob.NewKnob(kc)
	if err != nil {
		log.Fatalf("%s: %v", *section, err)
	}
	defer k.Close()
	go watch(k)
	accel := !kc.NoAccel
	dclick := true
	held := true
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter command ('help' for help) ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		f := strings.Fields(text)
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "help":
			fmt.Println("  help  - print help")
			fmt.Println("  a     - toggle acceleration")
			fmt.Println("  c     - toggle double-click detection")
			fmt.Println("  H     - toggle held detection")
			fmt.Println("  i DUR - set button poll/debounce interval e.g i 20ms")
			fmt.Println("  h DUR - set hold time e.g h 1.5s")
			fmt.Println("  d DUR - set double-click window e.g d 400ms")
			fmt.Println("  q     - quit")
		case "q":
			return
		case "a":
			accel = !accel
			k.Encoder.SetAcceleration(accel)
			fmt.Printf("acceleration %s\n", onOff(accel))
		case "c":
			dclick = !dclick
			k.Encoder.SetDoubleClick(dclick)
			fmt.Printf("double-click %s\n", onOff(dclick))
		case "H":
			held = !held
			k.Encoder.SetHeld(held)
			fmt.Printf("held %s\n", onOff(held))
		case "i", "h", "d":
			if len(f) != 2 {
				fmt.Printf("Missing duration\n")
				break
			}
			dur, err := time.ParseDuration(f[1])
			if err != nil {
				fmt.Printf("%s: %v\n", f[1], err)
				break
			}
			switch f[0] {
			case "i":
				k.Encoder.SetButtonInterval(dur)
				fmt.Printf("interval %s\n", dur)
			case "h":
				k.Encoder.SetHoldTime(dur)
				fmt.Printf("hold %s\n", dur)
			case "d":
				k.Encoder.SetDoubleClickTime(dur)
				fmt.Printf("doubleclick %s\n", dur)
			}
		default:
			fmt.Printf("Unrecognised input\n")
		}
	}
}

// watch prints knob events as they arrive.
func watch(k *knob.Knob) {
	last := knob.Open
	for {
		time.Sleep(10 * time.Millisecond)
		v, b := k.Poll()
		if v != 0 {
			fmt.Printf("value %+d -> %d\n", v, k.Dial.Value())
		}
		if b != knob.Open && b != last {
			fmt.Printf("button %s\n", b)
		}
		last = b
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
