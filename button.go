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

// Push-button gesture classification

package knob

import "fmt"

// Button is the gesture classified from the push-button.
type Button uint8

const (
	// Open - button is up, no pending gesture.
	Open Button = iota
	// Closed - reserved intermediate state.
	Closed
	// Pressed - reserved intermediate state.
	Pressed
	// Held - button has been down for longer than the hold time.
	// Held is reported repeatedly until the button is released.
	Held
	// Released - button came up after being held.
	Released
	// Clicked - a single press and release.
	Clicked
	// DoubleClicked - two presses inside the double-click window.
	DoubleClicked
)

var buttonNames = []string{
	"Open", "Closed", "Pressed", "Held", "Released", "Clicked", "DoubleClicked",
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", b)
}

// Minimum double-click countdown, used as the window when double-click
// detection is off so a click resolves on the next evaluated tick.
const singleClick = 1

// buttonTick runs one evaluation of the button state machine.
// Called with the mutex held, at most once per button interval,
// with the debounced sample from the current service tick.
// A press that never lasts a full interval is treated as switch
// noise and ignored.
func (e *Encoder) buttonTick(pressed bool) {
	if pressed {
		e.keyDownTicks++
		if e.heldOn && e.keyDownTicks > int(e.holdTime/e.interval) {
			e.button = Held
		}
	} else {
		if e.keyDownTicks > 1 {
			if e.button == Held {
				e.button = Released
				e.doubleClickTicks = 0
			} else if e.doubleClickTicks > singleClick {
				if e.doubleClickTicks < int(e.doubleClickTime/e.interval) {
					e.button = DoubleClicked
					e.doubleClickTicks = 0
				}
			} else {
				if e.doubleClickOn {
					e.doubleClickTicks = int(e.doubleClickTime / e.interval)
				} else {
					e.doubleClickTicks = singleClick
				}
			}
		}
		e.keyDownTicks = 0
	}
	if e.doubleClickTicks > 0 {
		e.doubleClickTicks--
		if e.doubleClickTicks == 0 {
			e.button = Clicked
		}
	}
}
