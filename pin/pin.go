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

// Package pin adapts common GPIO providers to the knob driver's
// input interface. Pins opened through github.com/aamcrae/gpio
// already satisfy the interface and need no adapter here.
package pin

// Func adapts a plain function to a knob input pin, for simulated
// hardware and tests.
type Func func() int

// Get returns the current value of the function.
func (f Func) Get() (int, error) {
	return f(), nil
}
