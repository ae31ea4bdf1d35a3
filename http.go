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

// HTTP server for knob dial images
package knob

import (
	"fmt"
	"image/jpeg"
	"log"
	"math"
	"net/http"

	"github.com/fogleman/gg"
)

const cell = 240
const faceRadius = 100

// Server serves a rendered image of the dials on /knob.jpg.
// It blocks, so it is usually run on its own goroutine.
func Server(port int, dials []*Dial) {
	http.Handle("/knob.jpg", http.HandlerFunc(handler(dials)))
	url := fmt.Sprintf(":%d", port)
	log.Printf("Starting monitor on %s", url)
	server := &http.Server{Addr: url}
	log.Fatal(server.ListenAndServe())
}

func handler(dials []*Dial) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		c := gg.NewContext(cell*len(dials), cell)
		c.SetRGB(1, 1, 1)
		c.Clear()
		for i, d := range dials {
			drawDial(c, d, float64(i*cell+cell/2), cell/2)
		}
		err := jpeg.Encode(w, c.Image(), nil)
		if err != nil {
			log.Printf("Error writing image: %v\n", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

// drawDial renders one dial as a gauge: the face, tick marks, a
// needle at the current position, and a center dot colored by the
// last button gesture.
func drawDial(c *gg.Context, d *Dial, midX, midY float64) {
	c.SetRGB(0.2, 0.2, 0.2)
	c.SetLineWidth(3)
	c.DrawCircle(midX, midY, faceRadius)
	c.Stroke()
	c.SetLineWidth(1)
	for i := 0; i <= 10; i++ {
		x1, y1 := gaugePoint(midX, midY, faceRadius-12, float64(i)/10)
		x2, y2 := gaugePoint(midX, midY, faceRadius-2, float64(i)/10)
		c.DrawLine(x1, y1, x2, y2)
	}
	c.Stroke()
	min, max := d.Range()
	f := float64(d.Value()-min) / float64(max-min)
	c.SetRGB(0, 0, 1)
	c.SetLineWidth(4)
	x, y := gaugePoint(midX, midY, faceRadius-18, f)
	c.DrawLine(midX, midY, x, y)
	c.Stroke()
	setButtonColor(c, d.Button())
	c.DrawCircle(midX, midY, 8)
	c.Fill()
}

// gaugePoint maps a fraction of the dial range onto the gauge arc,
// a 270 degree clockwise sweep starting at the lower left.
func gaugePoint(midX, midY, length, f float64) (float64, float64) {
	radians := (1.75 - 1.5*f) * math.Pi
	return length*math.Sin(radians) + midX, length*math.Cos(radians) + midY
}

func setButtonColor(c *gg.Context, b Button) {
	switch b {
	case Clicked:
		c.SetRGB(0, 0.7, 0)
	case DoubleClicked:
		c.SetRGB(0, 0, 1)
	case Held:
		c.SetRGB(1, 0, 0)
	case Released:
		c.SetRGB(1, 0.6, 0)
	default:
		c.SetRGB(0.6, 0.6, 0.6)
	}
}
