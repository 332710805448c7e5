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
	"sync"

	"github.com/pkg/errors"
)

// Register map of the synthesizer timer controller.
// Reload and prescaler are written into shadow registers; setting the
// COMMIT bit latches both into the running timer in one update.
const (
	synthCTRLReg     = 0x00
	synthRELOAD0Reg  = 0x04
	synthRELOAD1Reg  = 0x05
	synthRELOAD2Reg  = 0x06
	synthRELOAD3Reg  = 0x07
	synthPSCReg      = 0x08
	synthCTRLEnable  = 0x01
	synthCTRLCommit  = 0x02
	synthMaxPrescale = 0x10000
)

type synthTimer struct {
	mutex   sync.Mutex
	bus     I2CBus
	address byte
	enabled bool
}

// newSynthTimer creates a SynthTimer accessing the controller at the
// given bus address.
func newSynthTimer(bus I2CBus, address byte) SynthTimer {
	return &synthTimer{
		bus:     bus,
		address: address,
	}
}

// SetReload commits the given divider and prescaler to the timer as a
// single update.
func (t *synthTimer) SetReload(ctx context.Context, divider, prescaler uint32) error {
	if prescaler < 1 || prescaler > synthMaxPrescale {
		return errors.Errorf("Prescaler must be in 1..%d range, got %d", synthMaxPrescale, prescaler)
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if err := t.bus.WriteByteReg(t.address, synthRELOAD0Reg, uint8(divider&0xFF)); err != nil {
		return maskAny(err)
	}
	if err := t.bus.WriteByteReg(t.address, synthRELOAD1Reg, uint8((divider>>8)&0xFF)); err != nil {
		return maskAny(err)
	}
	if err := t.bus.WriteByteReg(t.address, synthRELOAD2Reg, uint8((divider>>16)&0xFF)); err != nil {
		return maskAny(err)
	}
	if err := t.bus.WriteByteReg(t.address, synthRELOAD3Reg, uint8((divider>>24)&0xFF)); err != nil {
		return maskAny(err)
	}
	// The PSC register holds prescaler-1, following the timer hardware.
	if err := t.bus.WriteWordReg(t.address, synthPSCReg, uint16(prescaler-1)); err != nil {
		return maskAny(err)
	}
	// Latch shadow registers, preserving the enable state.
	return maskAny(t.writeControl(synthCTRLCommit))
}

// Start the output compare/toggle action of the timer.
func (t *synthTimer) Start(ctx context.Context) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.enabled = true
	return maskAny(t.writeControl(0))
}

// Stop the output compare/toggle action of the timer.
func (t *synthTimer) Stop(ctx context.Context) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.enabled = false
	return maskAny(t.writeControl(0))
}

// writeControl writes the control register with the current enable
// state and the given extra bits. Caller must hold the mutex.
func (t *synthTimer) writeControl(bits uint8) error {
	ctrl := bits
	if t.enabled {
		ctrl |= synthCTRLEnable
	}
	return t.bus.WriteByteReg(t.address, synthCTRLReg, ctrl)
}
