// Copyright 2024 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package bridge

import (
	"context"
	"fmt"
	"time"
)

// NewStub creates a bridge that only prints what it is asked to do.
// Used for development on machines without the synthesizer board.
func NewStub() API {
	return &stubAPI{}
}

type stubAPI struct {
	stubTimer stubSynthTimer
}

// Turn Green status led on/off
func (s *stubAPI) SetGreenLED(on bool) error {
	if on {
		fmt.Println("Green on")
	} else {
		fmt.Println("Green off")
	}
	return nil
}

// Turn Red status led on/off
func (s *stubAPI) SetRedLED(on bool) error {
	if on {
		fmt.Println("Red on")
	} else {
		fmt.Println("Red off")
	}
	return nil
}

// Blink Green status led with given duration between on/off
func (s *stubAPI) BlinkGreenLED(delay time.Duration) error {
	fmt.Println("Blink Green")
	<-time.After(delay)
	return nil
}

// Blink Red status led with given duration between on/off
func (s *stubAPI) BlinkRedLED(delay time.Duration) error {
	fmt.Println("Blink Red")
	<-time.After(delay)
	return nil
}

// SynthTimer returns the synthesizer timer peripheral.
func (s *stubAPI) SynthTimer() (SynthTimer, error) {
	return &s.stubTimer, nil
}

// Close the bridge and release its resources.
func (s *stubAPI) Close() error {
	return nil
}

type stubSynthTimer struct {
	divider   uint32
	prescaler uint32
	running   bool
}

func (t *stubSynthTimer) SetReload(ctx context.Context, divider, prescaler uint32) error {
	t.divider = divider
	t.prescaler = prescaler
	fmt.Printf("SynthTimer reload %d prescaler %d\n", divider, prescaler)
	return nil
}

func (t *stubSynthTimer) Start(ctx context.Context) error {
	t.running = true
	fmt.Println("SynthTimer start")
	return nil
}

func (t *stubSynthTimer) Stop(ctx context.Context) error {
	t.running = false
	fmt.Println("SynthTimer stop")
	return nil
}
