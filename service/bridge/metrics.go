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

package bridge

import (
	"github.com/simpledso/SignalGenerator/pkg/metrics"
)

const (
	subSystem = "bridge"
)

var (
	// Total number of register writes per device address
	i2cWriteCounters = metrics.MustRegisterCounterVec(subSystem,
		"i2c_write_total",
		"Total number of I2C register writes",
		"address")
	// Total number of failed register writes per device address
	i2cWriteErrorCounters = metrics.MustRegisterCounterVec(subSystem,
		"i2c_write_error_total",
		"Total number of failed I2C register writes",
		"address")
)
