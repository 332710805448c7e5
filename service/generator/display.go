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
	"fmt"
	"math"

	"github.com/simpledso/SignalGenerator/model"
)

// PeriodUnit is the unit character of a formatted period.
type PeriodUnit rune

const (
	PeriodUnitMicro PeriodUnit = 'µ'
	PeriodUnitMilli PeriodUnit = 'm'

	// periodPromoteLimit is the magnitude above which the period
	// display switches from µs to ms. This is a fixed two tier
	// display; ms never promotes to seconds.
	periodPromoteLimit = 10000
)

// ActualFrequency recomputes the frequency actually produced by the
// committed timer configuration. The integer quantization means the
// hardware frequency is never exactly the requested one; the display
// always reports this recomputed value.
func ActualFrequency(profile model.HardwareProfile, cfg model.TimerConfig, scale model.UnitScale) float64 {
	return (profile.ClockConstant() / float64(scale.Multiplier())) / float64(cfg.PeriodTicks)
}

// PeriodFromConfig converts the committed period into a display
// magnitude and unit.
func PeriodFromConfig(profile model.HardwareProfile, cfg model.TimerConfig) (float64, PeriodUnit) {
	micros := float64(cfg.PeriodTicks) / profile.TicksPerMicro()
	if micros > periodPromoteLimit {
		return micros / 1000, PeriodUnitMilli
	}
	return micros, PeriodUnitMicro
}

// FormatFrequency renders a frequency magnitude with its unit scale
// character.
func FormatFrequency(frequency float64, scale model.UnitScale) string {
	return fmt.Sprintf("%9.3f%cHz", frequency, scale.FrequencyChar())
}

// FormatPeriod renders a period magnitude with its unit character.
func FormatPeriod(magnitude float64, unit PeriodUnit) string {
	return fmt.Sprintf("%10.3f%cs", magnitude, rune(unit))
}

// SliderPositionFromFrequency maps a frequency onto the logarithmic
// display slider. The slider spans 3 decades; the tens-decade submode
// shifts the mapping down by one decade.
func SliderPositionFromFrequency(profile model.HardwareProfile, frequency float64, tensDecade bool) int {
	perDecade := float64(profile.SliderMax) / 3
	position := int(math.Log10(frequency) * perDecade)
	if tensDecade {
		position -= int(perDecade)
	}
	if position < 0 {
		position = 0
	}
	if position > profile.SliderMax {
		position = profile.SliderMax
	}
	return position
}

// FrequencyFromSliderPosition is the inverse slider mapping.
func FrequencyFromSliderPosition(profile model.HardwareProfile, position int, tensDecade bool) float64 {
	t := float64(position) / (float64(profile.SliderMax) / 3)
	if tensDecade {
		t += 1
	}
	return math.Pow(10, t)
}
