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

package worker

import (
	"strings"

	"github.com/simpledso/SignalGenerator/model"
)

// Topic builders for the MQTT API of the worker.
// All topics live under the configured topic prefix.
func TopicActual(prefix string) string          { return joinTopic(prefix, "actual") }
func TopicLog(prefix string) string             { return joinTopic(prefix, "log") }
func TopicFrequency(prefix string) string       { return joinTopic(prefix, "frequency/set") }
func TopicFrequencyEntry(prefix string) string  { return joinTopic(prefix, "frequency/entry") }
func TopicFrequencySlider(prefix string) string { return joinTopic(prefix, "frequency/slider") }
func TopicFrequencyPreset(prefix string) string { return joinTopic(prefix, "frequency/preset") }
func TopicRange(prefix string) string           { return joinTopic(prefix, "range") }
func TopicWaveform(prefix string) string        { return joinTopic(prefix, "waveform") }
func TopicOutput(prefix string) string          { return joinTopic(prefix, "output") }

func joinTopic(prefix, suffix string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + suffix
}

// FrequencyRequest sets the frequency under an explicit unit scale.
type FrequencyRequest struct {
	Value float64         `json:"value"`
	Scale model.UnitScale `json:"scale"`
}

// EntryRequest sets the frequency from direct numeric entry.
// A nil value means the entry was cancelled.
type EntryRequest struct {
	Value *float64 `json:"value"`
}

// SliderRequest sets the frequency from a slider position.
type SliderRequest struct {
	Position int `json:"position"`
}

// PresetRequest sets the frequency from a preset button.
type PresetRequest struct {
	Value float64 `json:"value"`
}

// RangeRequest selects a range button.
type RangeRequest struct {
	Index int `json:"index"`
}

// WaveformRequest selects a waveform, or cycles to the next one.
type WaveformRequest struct {
	Waveform string `json:"waveform,omitempty"`
	Cycle    bool   `json:"cycle,omitempty"`
}

// OutputRequest starts/stops the generator output.
type OutputRequest struct {
	Enabled bool `json:"enabled"`
}
