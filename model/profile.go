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

package model

import (
	"math"

	"github.com/pkg/errors"
)

// HardwareProfile describes the synthesizer timer hardware this worker
// drives.
type HardwareProfile struct {
	// TimerClockHz is the input clock of the synthesizer timer.
	TimerClockHz uint32 `yaml:"timerClockHz" json:"timerClockHz"`
	// RegisterBits is the width of the timer reload register.
	// A 16 bit register needs the prescaler search, a 32 bit
	// capture/compare register holds the full divider natively.
	RegisterBits uint `yaml:"registerBits" json:"registerBits"`
	// SliderMax is the length of the display frequency slider.
	// The slider spans 3 decades.
	SliderMax int `yaml:"sliderMax" json:"sliderMax"`
	// I2CBusPath is the device path of the I2C bus the synthesizer
	// board is attached to.
	I2CBusPath string `yaml:"i2cBusPath" json:"i2cBusPath"`
	// SynthTimerAddress is the I2C address of the synthesizer timer.
	SynthTimerAddress uint8 `yaml:"synthTimerAddress" json:"synthTimerAddress"`
}

// DefaultHardwareProfile returns the profile of the standard
// synthesizer board: 36 MHz timer clock behind a 16 bit reload
// register, 300 pixel slider.
func DefaultHardwareProfile() HardwareProfile {
	return HardwareProfile{
		TimerClockHz:      36000000,
		RegisterBits:      16,
		SliderMax:         300,
		I2CBusPath:        "/dev/i2c-1",
		SynthTimerAddress: 0x40,
	}
}

// Validate the given profile, returning nil on ok,
// or an error upon validation issues.
func (p HardwareProfile) Validate() error {
	if p.TimerClockHz == 0 {
		return errors.Wrap(ValidationError, "timerClockHz is zero")
	}
	if p.RegisterBits != 16 && p.RegisterBits != 32 {
		return errors.Wrapf(ValidationError, "registerBits must be 16 or 32, got %d", p.RegisterBits)
	}
	if p.SliderMax <= 0 {
		return errors.Wrapf(ValidationError, "sliderMax must be positive, got %d", p.SliderMax)
	}
	return nil
}

// ClockConstant returns the timer clock scaled by 1000, cancelling the
// milli-units scaled multiplier of UnitScale.
func (p HardwareProfile) ClockConstant() float64 {
	return float64(p.TimerClockHz) * 1000
}

// RegisterMax returns the highest reload value the register holds.
func (p HardwareProfile) RegisterMax() uint32 {
	if p.RegisterBits >= 32 {
		return math.MaxUint32
	}
	return (1 << p.RegisterBits) - 1
}

// TicksPerMicro returns the number of timer ticks per microsecond.
func (p HardwareProfile) TicksPerMicro() float64 {
	return float64(p.TimerClockHz) / 1000000
}
