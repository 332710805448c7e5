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
	"github.com/pkg/errors"
)

var (
	ValidationError = errors.New("validation failed")
	// UnsupportedWaveformError is returned when a timer configuration is
	// requested for a waveform that is not driven by the divider timer.
	UnsupportedWaveformError = errors.New("unsupported waveform")
	maskAny                  = errors.WithStack
)

// IsValidation returns true if the given error is caused by a ValidationError.
func IsValidation(err error) bool {
	return errors.Cause(err) == ValidationError
}

// IsUnsupportedWaveform returns true if the given error is caused by an
// UnsupportedWaveformError.
func IsUnsupportedWaveform(err error) bool {
	return errors.Cause(err) == UnsupportedWaveformError
}
