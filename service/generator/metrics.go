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
	"github.com/simpledso/SignalGenerator/pkg/metrics"
)

const (
	subSystem = "generator"
)

var (
	// Number of timer configurations committed to hardware
	commitsTotal = metrics.MustRegisterCounter(subSystem,
		"commits_total",
		"Number of timer configurations committed to hardware")

	// Number of commits where the request was clamped
	clippedTotal = metrics.MustRegisterCounter(subSystem,
		"clipped_total",
		"Number of commits where the requested frequency was clamped to hardware range")

	// Number of quantization requests for waveforms not driven by the divider timer
	unsupportedWaveformTotal = metrics.MustRegisterCounter(subSystem,
		"unsupported_waveform_total",
		"Number of quantization requests for waveforms not driven by the divider timer")

	// Frequency change request metrics
	frequencyRequestsTotal = metrics.MustRegisterCounterVec(subSystem,
		"frequency_requests_total",
		"Number of frequency change requests",
		"source")

	// Committed hardware state
	dividerGauge = metrics.MustRegisterGauge(subSystem,
		"divider",
		"Committed timer reload divider")
	prescalerGauge = metrics.MustRegisterGauge(subSystem,
		"prescaler",
		"Committed timer prescaler")
	actualFrequencyGauge = metrics.MustRegisterGauge(subSystem,
		"actual_frequency_hz",
		"Frequency actually produced by the committed configuration (Hz)")
	outputEnabledGauge = metrics.MustRegisterGauge(subSystem,
		"output_enabled",
		"Output state of the synthesizer timer (0=OFF, 1=ON)")
)
