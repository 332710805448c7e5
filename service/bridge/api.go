//    Copyright 2024 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package bridge

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	maskAny = errors.WithStack
)

// API of the bridge, the hardware used to connect the worker board to
// the synthesizer timer (attached on a buffered I2C bus) and the
// status leds.
type API interface {
	// Turn Green status led on/off
	SetGreenLED(on bool) error
	// Turn Red status led on/off
	SetRedLED(on bool) error
	// Blink Green status led with given duration between on/off
	BlinkGreenLED(delay time.Duration) error
	// Blink Red status led with given duration between on/off
	BlinkRedLED(delay time.Duration) error
	// SynthTimer returns the synthesizer timer peripheral.
	SynthTimer() (SynthTimer, error)
	// Close the bridge and release its resources.
	Close() error
}

// SynthTimer is the divider timer peripheral of the synthesizer board.
type SynthTimer interface {
	// SetReload commits the given divider and prescaler to the timer
	// as a single update. The hardware must never observe an old
	// divider combined with a new prescaler.
	SetReload(ctx context.Context, divider, prescaler uint32) error
	// Start the output compare/toggle action of the timer.
	Start(ctx context.Context) error
	// Stop the output compare/toggle action of the timer.
	Stop(ctx context.Context) error
}
