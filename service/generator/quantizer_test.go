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
	"testing"

	"github.com/simpledso/SignalGenerator/model"
)

func TestComputeTimerConfig(t *testing.T) {
	profile := model.DefaultHardwareProfile()
	tests := []struct {
		name      string
		frequency float64
		scale     model.UnitScale
		divider   uint32
		prescaler uint32
		clipped   bool
	}{
		{"200Hz", 200, model.UnitScaleUnit, 60000, 3, false},
		{"72kHz", 72, model.UnitScaleKilo, 500, 1, false},
		{"1Hz", 1, model.UnitScaleUnit, 36000000 / 550, 550, false},
		{"180Hz", 180, model.UnitScaleUnit, 50000, 4, false},
		{"18MHz", 18, model.UnitScaleMega, 2, 1, false},
		{"above range", 30, model.UnitScaleMega, 2, 1, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := ComputeTimerConfig(profile, test.frequency, test.scale, model.WaveformSquare)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if cfg.Divider != test.divider {
				t.Errorf("Expected divider %d, got %d", test.divider, cfg.Divider)
			}
			if cfg.Prescaler != test.prescaler {
				t.Errorf("Expected prescaler %d, got %d", test.prescaler, cfg.Prescaler)
			}
			if cfg.Clipped != test.clipped {
				t.Errorf("Expected clipped %v, got %v", test.clipped, cfg.Clipped)
			}
			if expected := test.divider * test.prescaler; cfg.PeriodTicks != expected {
				t.Errorf("Expected period ticks %d, got %d", expected, cfg.PeriodTicks)
			}
			if cfg.Mode != model.ControlModeDivider {
				t.Errorf("Expected divider mode, got %d", cfg.Mode)
			}
		})
	}
}

func TestComputeTimerConfigReloadFitsRegister(t *testing.T) {
	profile := model.DefaultHardwareProfile()
	for _, frequency := range []float64{0.01, 0.1, 1, 5, 50, 200, 1000, 44100, 1000000, 18000000} {
		cfg, err := ComputeTimerConfig(profile, frequency, model.UnitScaleUnit, model.WaveformSquare)
		if err != nil {
			t.Fatalf("Expected no error at %gHz, got %v", frequency, err)
		}
		if cfg.RangeExceeded {
			t.Errorf("Expected reload to fit at %gHz, got divider %d", frequency, cfg.Divider)
		}
		if cfg.Divider > profile.RegisterMax() {
			t.Errorf("Divider %d exceeds register at %gHz", cfg.Divider, frequency)
		}
	}
}

func TestComputeTimerConfigAccuracy(t *testing.T) {
	profile := model.DefaultHardwareProfile()
	for _, frequency := range []float64{1, 10, 200, 1000, 44100} {
		cfg, err := ComputeTimerConfig(profile, frequency, model.UnitScaleUnit, model.WaveformSquare)
		if err != nil {
			t.Fatalf("Expected no error at %gHz, got %v", frequency, err)
		}
		actual := ActualFrequency(profile, cfg, model.UnitScaleUnit)
		if relErr := math.Abs(actual-frequency) / frequency; relErr > 0.001 {
			t.Errorf("Expected %gHz within 0.1%%, got %gHz", frequency, actual)
		}
	}
}

func TestComputeTimerConfigWideRegister(t *testing.T) {
	profile := model.DefaultHardwareProfile()
	profile.RegisterBits = 32
	cfg, err := ComputeTimerConfig(profile, 1, model.UnitScaleUnit, model.WaveformSquare)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Prescaler != 1 {
		t.Errorf("Expected prescaler 1 on 32-bit register, got %d", cfg.Prescaler)
	}
	if cfg.Divider != 36000000 {
		t.Errorf("Expected divider 36000000, got %d", cfg.Divider)
	}
}

func TestComputeTimerConfigUnsupportedWaveform(t *testing.T) {
	profile := model.DefaultHardwareProfile()
	for _, waveform := range []model.Waveform{model.WaveformSine, model.WaveformTriangle, model.WaveformSawtooth} {
		if _, err := ComputeTimerConfig(profile, 200, model.UnitScaleUnit, waveform); !model.IsUnsupportedWaveform(err) {
			t.Errorf("Expected unsupported waveform error for %s, got %v", waveform, err)
		}
	}
}
