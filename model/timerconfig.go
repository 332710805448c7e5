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

// ControlMode identifies how the synthesizer interprets the control
// value of a timer configuration.
type ControlMode uint8

const (
	// ControlModeDivider: the control value is the reload divider of
	// the square wave timer.
	ControlModeDivider ControlMode = iota
	// ControlModeShiftFactor: the control value is a base frequency
	// factor (shifted left 16 bits) consumed by the waveform table
	// player. Not produced by the quantizer.
	ControlModeShiftFactor
)

// TimerConfig is the integer hardware timer configuration computed
// from a requested frequency. It is fully recomputed on every request
// and committed to the timer peripheral as a single atomic update.
type TimerConfig struct {
	// Mode selects which control value below is meaningful.
	Mode ControlMode `json:"mode"`
	// Divider is the reload value written to the timer register.
	Divider uint32 `json:"divider"`
	// Prescaler is the clock prescaler applied before the counter (>= 1).
	Prescaler uint32 `json:"prescaler"`
	// ShiftFactor is the control value in ControlModeShiftFactor.
	ShiftFactor uint32 `json:"shiftFactor,omitempty"`
	// PeriodTicks is Divider*Prescaler expressed in timer input clock
	// ticks. This reintroduces the rounding lost when the divider is
	// floored to fit the register, keeping the display round trip honest.
	PeriodTicks uint32 `json:"periodTicks"`
	// Clipped is set when the requested frequency exceeded the hardware
	// range and the divider was clamped to its minimum.
	Clipped bool `json:"clipped"`
	// RangeExceeded is set when the re-divided reload value still does
	// not fit the register. The prescaler estimate assumes a fit but
	// does not guarantee one; this is reported, never silently fixed.
	RangeExceeded bool `json:"rangeExceeded,omitempty"`
}
