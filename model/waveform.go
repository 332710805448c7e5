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

import "github.com/pkg/errors"

// Waveform identifies the kind of signal produced by the generator.
// Only WaveformSquare is driven by the divider timer; the other kinds
// are produced by the waveform table player.
type Waveform uint8

const (
	WaveformSquare Waveform = iota
	WaveformSine
	WaveformTriangle
	WaveformSawtooth

	waveformCount = 4
)

var waveformCaptions = [waveformCount]string{
	WaveformSquare:   "Square",
	WaveformSine:     "Sine",
	WaveformTriangle: "Triangle",
	WaveformSawtooth: "Sawtooth",
}

// String returns the caption of the waveform.
func (w Waveform) String() string {
	if int(w) < len(waveformCaptions) {
		return waveformCaptions[w]
	}
	return "Square"
}

// Next returns the waveform that follows the given one, wrapping
// around after the last kind.
func (w Waveform) Next() Waveform {
	return (w + 1) % waveformCount
}

// Validate the given waveform, returning nil on ok,
// or an error upon validation issues.
func (w Waveform) Validate() error {
	if w >= waveformCount {
		return errors.Wrapf(ValidationError, "invalid waveform %d", uint8(w))
	}
	return nil
}

// ParseWaveform parses a waveform from its caption.
func ParseWaveform(s string) (Waveform, error) {
	for i, caption := range waveformCaptions {
		if s == caption {
			return Waveform(i), nil
		}
	}
	return WaveformSquare, errors.Wrapf(ValidationError, "unknown waveform '%s'", s)
}
