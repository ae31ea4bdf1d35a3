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
	"testing"
	"time"
)

// testButton drives a button-only encoder through a simulated pin,
// active high. One tick stands for one millisecond of service.
type testButton struct {
	e   *Encoder
	pin testPin
}

func newTestButton() *testButton {
	b := new(testButton)
	b.e = NewButton(&b.pin, false)
	return b
}

func (b *testButton) press()   { b.pin.v = 1 }
func (b *testButton) release() { b.pin.v = 0 }

func (b *testButton) tick(n int) {
	for i := 0; i < n; i++ {
		b.e.Service()
	}
}

// nextGesture services the encoder until a gesture is reported,
// returning Open if none appears within limit ticks.
func (b *testButton) nextGesture(limit int) Button {
	for i := 0; i < limit; i++ {
		b.tick(1)
		if g := b.e.GetButton(); g != Open {
			return g
		}
	}
	return Open
}

// TestButton_ShortPressIgnored checks a press shorter than one full
// poll interval is treated as switch noise.
func TestButton_ShortPressIgnored(t *testing.T) {
	b := newTestButton()
	b.press()
	b.tick(10)
	b.release()
	if g := b.nextGesture(800); g != Open {
		t.Errorf("expected transient press to be ignored, got %v", g)
	}
}

// TestButton_Click checks a press and release reports Clicked once
// the double-click window has lapsed, and only once.
func TestButton_Click(t *testing.T) {
	b := newTestButton()
	b.press()
	b.tick(25)
	b.release()
	if g := b.nextGesture(700); g != Clicked {
		t.Errorf("expected Clicked, got %v", g)
	}
	if g := b.e.GetButton(); g != Open {
		t.Errorf("expected gesture to be consumed, got %v", g)
	}
	if g := b.nextGesture(700); g != Open {
		t.Errorf("expected no further gesture, got %v", g)
	}
}

// TestButton_DoubleClick checks a second press inside the window
// reports DoubleClicked on its release, and the pending single click
// is dropped.
func TestButton_DoubleClick(t *testing.T) {
	b := newTestButton()
	b.press()
	b.tick(25)
	b.release()
	b.tick(100)
	b.press()
	b.tick(25)
	b.release()
	if g := b.nextGesture(50); g != DoubleClicked {
		t.Errorf("expected DoubleClicked, got %v", g)
	}
	if g := b.nextGesture(700); g != Open {
		t.Errorf("expected no trailing click, got %v", g)
	}
}

// TestButton_TwoSlowClicks checks presses further apart than the
// double-click window report two independent clicks.
func TestButton_TwoSlowClicks(t *testing.T) {
	b := newTestButton()
	for i := 0; i < 2; i++ {
		b.press()
		b.tick(25)
		b.release()
		if g := b.nextGesture(700); g != Clicked {
			t.Errorf("click %d: expected Clicked, got %v", i, g)
		}
	}
}

// TestButton_Hold checks a long press reports Held for as long as the
// button stays down, then Released exactly once.
func TestButton_Hold(t *testing.T) {
	b := newTestButton()
	b.press()
	if g := b.nextGesture(1200); g != Held {
		t.Fatalf("expected Held, got %v", g)
	}
	// Held persists across reads while the button stays down.
	b.tick(50)
	if g := b.e.GetButton(); g != Held {
		t.Errorf("expected Held to persist, got %v", g)
	}
	b.release()
	var g Button
	for i := 0; i < 50; i++ {
		b.tick(1)
		if g = b.e.GetButton(); g != Held {
			break
		}
	}
	if g != Released {
		t.Errorf("expected Released after hold, got %v", g)
	}
	if g := b.nextGesture(700); g != Open {
		t.Errorf("expected no gesture after release, got %v", g)
	}
}

// TestButton_DoubleClickDisabled checks that with double-click off a
// click is reported on the release evaluation itself.
func TestButton_DoubleClickDisabled(t *testing.T) {
	b := newTestButton()
	b.e.SetDoubleClick(false)
	b.press()
	b.tick(25)
	b.release()
	if g := b.nextGesture(15); g != Clicked {
		t.Errorf("expected immediate Clicked, got %v", g)
	}
}

// TestButton_HeldDisabled checks that with hold detection off a long
// press still resolves as a click.
func TestButton_HeldDisabled(t *testing.T) {
	b := newTestButton()
	b.e.SetHeld(false)
	b.press()
	for i := 0; i < 1500; i++ {
		b.tick(1)
		if g := b.e.GetButton(); g != Open {
			t.Fatalf("tick %d: expected no gesture while held, got %v", i, g)
		}
	}
	b.release()
	if g := b.nextGesture(700); g != Clicked {
		t.Errorf("expected Clicked after long press, got %v", g)
	}
}

// TestButton_LatePressNotPaired checks a second press arriving after
// the window has been shortened under it neither pairs into a
// double-click nor interrupts the pending single click.
func TestButton_LatePressNotPaired(t *testing.T) {
	b := newTestButton()
	b.press()
	b.tick(25)
	b.release()
	b.tick(25)
	b.e.SetDoubleClickTime(100 * time.Millisecond)
	b.press()
	b.tick(25)
	b.release()
	if g := b.nextGesture(700); g != Clicked {
		t.Errorf("expected pending Clicked, got %v", g)
	}
	if g := b.nextGesture(700); g != Open {
		t.Errorf("expected dropped press to leave no gesture, got %v", g)
	}
}

// TestButton_Interval checks the poll interval retimes the debounce:
// a press that counts as a click at the default interval is noise at
// a longer one.
func TestButton_Interval(t *testing.T) {
	b := newTestButton()
	b.e.SetButtonInterval(20 * time.Millisecond)
	b.press()
	b.tick(25)
	b.release()
	if g := b.nextGesture(700); g != Open {
		t.Errorf("expected 25ms press to be noise at 20ms interval, got %v", g)
	}
	b.press()
	b.tick(45)
	b.release()
	if g := b.nextGesture(700); g != Clicked {
		t.Errorf("expected Clicked, got %v", g)
	}
}

// TestButton_NoPin checks encoders without a button pin never report
// a gesture.
func TestButton_NoPin(t *testing.T) {
	a := &testPin{}
	bp := &testPin{}
	for _, e := range []*Encoder{NewButton(nil, false), New(a, bp, nil, Normal, 4, false)} {
		for i := 0; i < 1000; i++ {
			e.Service()
		}
		if g := e.GetButton(); g != Open {
			t.Errorf("expected Open without a button pin, got %v", g)
		}
	}
}

// TestButton_ActiveLow checks gesture detection against pins that
// idle high and read 0 when pressed.
func TestButton_ActiveLow(t *testing.T) {
	b := newTestButton()
	b.e = NewButton(&b.pin, true)
	b.pin.v = 1 // idle
	b.tick(50)
	b.pin.v = 0 // pressed
	b.tick(25)
	b.pin.v = 1
	if g := b.nextGesture(700); g != Clicked {
		t.Errorf("expected Clicked from active low button, got %v", g)
	}
}
