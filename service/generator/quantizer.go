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

package generator

import (
	"math"

	"github.com/pkg/errors"

	"github.com/simpledso/SignalGenerator/model"
)

// minDivider is the smallest representable period in timer ticks.
const minDivider = 2

// ComputeTimerConfig quantizes a requested frequency, interpreted
// under the given unit scale, into an integer timer configuration.
//
// Only the square waveform is driven by the divider timer; any other
// waveform yields model.UnsupportedWaveformError and the caller must
// leave its committed configuration untouched.
//
// A request above the highest representable frequency is clamped to
// the minimum period and reported via TimerConfig.Clipped; this never
// fails the caller.
func ComputeTimerConfig(profile model.HardwareProfile, frequency float64, scale model.UnitScale, waveform model.Waveform) (model.TimerConfig, error) {
	if waveform != model.WaveformSquare {
		return model.TimerConfig{}, maskAny(model.UnsupportedWaveformError)
	}
	if frequency <= 0 || math.IsNaN(frequency) {
		return model.TimerConfig{}, errors.Wrapf(model.ValidationError, "frequency must be positive, got %v", frequency)
	}

	period := (profile.ClockConstant() / float64(scale.Multiplier())) / frequency
	wide := uint64(period)
	if wide > math.MaxUint32 {
		wide = math.MaxUint32
	}
	divider := uint32(wide)
	clipped := false
	if divider < minDivider {
		divider = minDivider
		clipped = true
	}

	prescaler := uint32(1)
	if profile.RegisterBits < 32 {
		// +1 since we divide by at least 1
		prescaler = (divider >> profile.RegisterBits) + 1
		if prescaler > 1 {
			// Adjust reload value so it fits the register.
			divider /= prescaler
		}
	}

	cfg := model.TimerConfig{
		Mode:        model.ControlModeDivider,
		Divider:     divider,
		Prescaler:   prescaler,
		PeriodTicks: divider * prescaler,
		Clipped:     clipped,
	}
	// The prescaler estimate assumes the re-divided value fits, but
	// does not guarantee it. Report a violation, never adjust it.
	if divider > profile.RegisterMax() {
		cfg.RangeExceeded = true
	}
	return cfg, nil
}
