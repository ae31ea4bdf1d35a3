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

// knobd - volume control daemon.
// A rotary encoder knob adjusts the CamillaDSP playback volume:
// turning moves the volume dial, a click toggles mute, a
// double-click recentres the volume. An optional HTTP monitor
// serves an image of the dial.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aamcrae/config"
	"github.com/aamcrae/knob"
)

var configFile = flag.String("config", "/etc/knobd.conf", "Configuration file")
var section = flag.String("knob", "volume", "Knob configuration section")
var port = flag.Int("port", 0, "Monitor port number (0 to disable)")

// camillaConfig holds the [camilla] section of the config:
//  [camilla]
//  url=ws://127.0.0.1:1234
//  voldb=-60,0          # dB range the dial maps onto
type camillaConfig struct {
	URL          string
	MinDB, MaxDB float64
}

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
	cc, err := camillaConf(conf)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	k, err := knob.NewKnob(kc)
	if err != nil {
		log.Fatalf("%s: %v", kc.Name, err)
	}
	defer k.Close()
	c := NewCamilla(cc.URL)
	c.Connect()
	defer c.Close()
	// Start the dial at the player's current volume.
	if db, err := c.GetVolume(); err == nil {
		k.Dial.Set(fromDB(k.Dial, cc, db))
	} else {
		log.Printf("GetVolume: %v", err)
	}
	if *port > 0 {
		go knob.Server(*port, []*knob.Dial{k.Dial})
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	log.Printf("%s: knob ready, sending to %s", kc.Name, cc.URL)
	for {
		select {
		case <-sigc:
			log.Printf("shutting down")
			return
		case <-ticker.C:
			v, b := k.Poll()
			if v != 0 {
				db := toDB(k.Dial, cc)
				sendRetry(c, func() error { return c.SetVolume(db) })
			}
			switch b {
			case knob.Clicked:
				log.Printf("%s: toggle mute", kc.Name)
				sendRetry(c, func() error { return c.ToggleMute() })
			case knob.DoubleClicked:
				min, max := k.Dial.Range()
				k.Dial.Set((min + max) / 2)
				db := toDB(k.Dial, cc)
				log.Printf("%s: recentre to %.1f dB", kc.Name, db)
				sendRetry(c, func() error { return c.SetVolume(db) })
			}
		}
	}
}

// camillaConf reads the CamillaDSP connection parameters.
func camillaConf(conf *config.Config) (*camillaConfig, error) {
	s := conf.GetSection("camilla")
	if s == nil {
		return nil, fmt.Errorf("no camilla config")
	}
	cc := &camillaConfig{MinDB: -60, MaxDB: 0}
	url, err := s.GetArg("url")
	if err != nil {
		return nil, fmt.Errorf("url: %v", err)
	}
	cc.URL = url
	if arg, err := s.GetArg("voldb"); err == nil {
		n, cerr := fmt.Sscanf(arg, "%g,%g", &cc.MinDB, &cc.MaxDB)
		if cerr != nil || n != 2 {
			return nil, fmt.Errorf("voldb: invalid range")
		}
		if cc.MaxDB <= cc.MinDB {
			return nil, fmt.Errorf("voldb: empty range")
		}
	}
	return cc, nil
}

// toDB maps the dial position onto the configured dB range.
func toDB(d *knob.Dial, cc *camillaConfig) float64 {
	min, max := d.Range()
	f := float64(d.Value()-min) / float64(max-min)
	return cc.MinDB + f*(cc.MaxDB-cc.MinDB)
}

// fromDB maps a dB level onto the dial range.
func fromDB(d *knob.Dial, cc *camillaConfig, db float64) int {
	min, max := d.Range()
	f := (db - cc.MinDB) / (cc.MaxDB - cc.MinDB)
	return min + int(f*float64(max-min)+0.5)
}
