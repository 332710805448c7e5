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
	"github.com/simpledso/SignalGenerator/model"
)

// Actual is the generator state snapshot published after every
// committed change. The frequency it carries is the one the hardware
// actually produces, recomputed from the integer timer configuration,
// not the requested one.
type Actual struct {
	// RequestedFrequency is the magnitude the user asked for,
	// interpreted under Scale.
	RequestedFrequency float64 `json:"requestedFrequency"`
	// Frequency is the magnitude actually produced, under Scale.
	Frequency float64 `json:"frequency"`
	// Scale of both frequency magnitudes.
	Scale model.UnitScale `json:"scale"`
	// TensDecade is set while the 10Hz display submode is active.
	TensDecade bool `json:"tensDecade"`
	// RangeIndex is the active range button (0=mHz 1=Hz 2=10Hz 3=kHz 4=MHz).
	RangeIndex int `json:"rangeIndex"`
	// Waveform currently selected.
	Waveform model.Waveform `json:"waveform"`
	// WaveformCaption for display.
	WaveformCaption string `json:"waveformCaption"`
	// OutputEnabled is set while the timer output is running.
	OutputEnabled bool `json:"outputEnabled"`
	// FrequencyText is the formatted frequency display string.
	FrequencyText string `json:"frequencyText"`
	// PeriodText is the formatted period display string.
	PeriodText string `json:"periodText,omitempty"`
	// SliderPosition of the logarithmic frequency slider.
	SliderPosition int `json:"sliderPosition"`
	// Config is the committed timer configuration.
	Config model.TimerConfig `json:"config"`
}
