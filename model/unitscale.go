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

// UnitScale identifies the mHz/Hz/kHz/MHz scale applied to a raw
// frequency magnitude.
type UnitScale uint8

const (
	UnitScaleMilli UnitScale = iota
	UnitScaleUnit
	UnitScaleKilo
	UnitScaleMega

	unitScaleCount = 4
)

// Multiplier returns the scale factor in milli-units per unit.
// 1 -> 1 mHz, 1000 -> 1 Hz, 1000000 -> 1 kHz, 1000000000 -> 1 MHz.
// Computed by repeated multiplication to keep this path free of
// floating point.
func (s UnitScale) Multiplier() uint64 {
	factor := uint64(1)
	for i := UnitScale(0); i < s; i++ {
		factor *= 1000
	}
	return factor
}

// FrequencyChar returns the unit character used in frequency display
// strings ('m', ' ', 'k' or 'M').
func (s UnitScale) FrequencyChar() rune {
	switch s {
	case UnitScaleMilli:
		return 'm'
	case UnitScaleKilo:
		return 'k'
	case UnitScaleMega:
		return 'M'
	default:
		return ' '
	}
}

// Validate the given scale, returning nil on ok,
// or an error upon validation issues.
func (s UnitScale) Validate() error {
	if s >= unitScaleCount {
		return errors.Wrapf(ValidationError, "invalid unit scale %d", uint8(s))
	}
	return nil
}

// AutoSelectUnitScale normalizes a raw frequency magnitude the way a
// user enters it: "1500" means 1.5 kHz. The value is divided by 1000
// while it exceeds 1000 (clamped at MHz); a value that ends up below 1
// is promoted once into the mHz scale.
func AutoSelectUnitScale(raw float64) (float64, UnitScale) {
	scale := UnitScaleUnit
	for raw > 1000 && scale < UnitScaleMega {
		raw /= 1000
		scale++
	}
	if raw < 1 {
		raw *= 1000
		scale = UnitScaleMilli
	}
	return raw, scale
}
