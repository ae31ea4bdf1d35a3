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
	"image/jpeg"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestHandler checks the monitor handler returns a JPEG sized for the
// number of dials.
func TestHandler(t *testing.T) {
	for _, n := range []int{1, 3} {
		var dials []*Dial
		for i := 0; i < n; i++ {
			d := NewDial("volume", 0, 100, false)
			d.Set(42)
			d.SetButton(Held)
			dials = append(dials, d)
		}
		h := handler(dials)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest("GET", "/knob.jpg", nil))
		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%d dials: expected status 200, got %d", n, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("%d dials: expected image/jpeg, got %s", n, ct)
		}
		img, err := jpeg.Decode(resp.Body)
		if err != nil {
			t.Fatalf("%d dials: decode failed: %v", n, err)
		}
		b := img.Bounds()
		if b.Dx() != cell*n || b.Dy() != cell {
			t.Errorf("%d dials: expected %dx%d image, got %dx%d", n, cell*n, cell, b.Dx(), b.Dy())
		}
	}
}

// TestGaugePoint checks the needle sweep: minimum at the lower left,
// midpoint straight up, maximum at the lower right.
func TestGaugePoint(t *testing.T) {
	const r = 10.0
	pts := []struct {
		f    float64
		x, y float64
	}{
		{0, -r * math.Sqrt2 / 2, r * math.Sqrt2 / 2},
		{0.5, 0, -r},
		{1, r * math.Sqrt2 / 2, r * math.Sqrt2 / 2},
	}
	for _, p := range pts {
		x, y := gaugePoint(0, 0, r, p.f)
		if math.Abs(x-p.x) > 1e-9 || math.Abs(y-p.y) > 1e-9 {
			t.Errorf("f=%g: expected (%g,%g), got (%g,%g)", p.f, p.x, p.y, x, y)
		}
	}
}
