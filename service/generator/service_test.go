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
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simpledso/SignalGenerator/model"
)

type fakeSynthTimer struct {
	divider   uint32
	prescaler uint32
	reloads   int
	running   bool
}

func (f *fakeSynthTimer) SetReload(ctx context.Context, divider, prescaler uint32) error {
	f.divider = divider
	f.prescaler = prescaler
	f.reloads++
	return nil
}

func (f *fakeSynthTimer) Start(ctx context.Context) error {
	f.running = true
	return nil
}

func (f *fakeSynthTimer) Stop(ctx context.Context) error {
	f.running = false
	return nil
}

func newTestService(t *testing.T) (Service, *fakeSynthTimer) {
	timer := &fakeSynthTimer{}
	svc, err := NewService(Config{
		Profile: model.DefaultHardwareProfile(),
	}, Dependencies{
		Log:   zerolog.Nop(),
		Timer: timer,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return svc, timer
}

func TestServiceConfigure(t *testing.T) {
	ctx := context.Background()
	svc, timer := newTestService(t)
	if err := svc.Configure(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !timer.running {
		t.Error("Expected timer to be running after Configure")
	}
	if timer.divider != 60000 || timer.prescaler != 3 {
		t.Errorf("Expected reload 60000/3, got %d/%d", timer.divider, timer.prescaler)
	}
	actual := svc.Actual()
	if actual.Frequency != 200 {
		t.Errorf("Expected 200Hz, got %v", actual.Frequency)
	}
	if actual.Scale != model.UnitScaleUnit {
		t.Errorf("Expected unit scale, got %d", actual.Scale)
	}
	if !actual.TensDecade {
		t.Error("Expected tens decade submode active")
	}
	if actual.RangeIndex != 2 {
		t.Errorf("Expected range index 2, got %d", actual.RangeIndex)
	}
	if actual.Waveform != model.WaveformSquare {
		t.Errorf("Expected square waveform, got %s", actual.Waveform)
	}
	if !actual.OutputEnabled {
		t.Error("Expected output enabled")
	}
	if actual.FrequencyText != "  200.000 Hz" {
		t.Errorf("Unexpected frequency text %q", actual.FrequencyText)
	}
	if actual.PeriodText != "  5000.000µs" {
		t.Errorf("Unexpected period text %q", actual.PeriodText)
	}
	if actual.SliderPosition != 130 {
		t.Errorf("Expected slider position 130, got %d", actual.SliderPosition)
	}
}

func TestServiceSetFrequency(t *testing.T) {
	ctx := context.Background()
	svc, timer := newTestService(t)
	if err := svc.SetFrequency(ctx, 72, model.UnitScaleKilo); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if timer.divider != 500 || timer.prescaler != 1 {
		t.Errorf("Expected reload 500/1, got %d/%d", timer.divider, timer.prescaler)
	}
	actual := svc.Actual()
	if actual.Frequency != 72 || actual.Scale != model.UnitScaleKilo {
		t.Errorf("Expected 72kHz, got %v %d", actual.Frequency, actual.Scale)
	}

	if err := svc.SetFrequency(ctx, -1, model.UnitScaleUnit); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if err := svc.SetFrequency(ctx, 100, model.UnitScale(42)); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestServiceSetFrequencyFromEntry(t *testing.T) {
	ctx := context.Background()
	svc, timer := newTestService(t)
	if err := svc.SetFrequencyFromEntry(ctx, 1500); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	actual := svc.Actual()
	if actual.RequestedFrequency != 1.5 || actual.Scale != model.UnitScaleKilo {
		t.Errorf("Expected auto-selected 1.5kHz, got %v %d", actual.RequestedFrequency, actual.Scale)
	}

	// Cancelled entry leaves everything untouched.
	reloads := timer.reloads
	if err := svc.SetFrequencyFromEntry(ctx, math.NaN()); err != nil {
		t.Fatalf("Expected no error on cancelled entry, got %v", err)
	}
	if timer.reloads != reloads {
		t.Error("Expected no reload on cancelled entry")
	}
	if actual := svc.Actual(); actual.RequestedFrequency != 1.5 {
		t.Errorf("Expected frequency unchanged, got %v", actual.RequestedFrequency)
	}
}

func TestServiceSetFrequencyFromSlider(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if err := svc.SetFrequencyFromSlider(ctx, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Tens decade submode is active initially, so position 0 is 10Hz.
	if actual := svc.Actual(); math.Abs(actual.RequestedFrequency-10) > 1e-9 {
		t.Errorf("Expected 10Hz at position 0, got %v", actual.RequestedFrequency)
	}

	if err := svc.SetFrequencyFromSlider(ctx, -1); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if err := svc.SetFrequencyFromSlider(ctx, 301); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestServiceSetFixedFrequency(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	// Preset 20 becomes 200 while the tens decade submode is active.
	if err := svc.SetFixedFrequency(ctx, 20); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := svc.Actual(); actual.RequestedFrequency != 200 {
		t.Errorf("Expected 200Hz, got %v", actual.RequestedFrequency)
	}

	if err := svc.SetRangeIndex(ctx, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := svc.SetFixedFrequency(ctx, 20); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := svc.Actual(); actual.RequestedFrequency != 20 {
		t.Errorf("Expected 20Hz, got %v", actual.RequestedFrequency)
	}
}

func TestServiceSetRangeIndex(t *testing.T) {
	ctx := context.Background()
	svc, timer := newTestService(t)
	if err := svc.Configure(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	tests := []struct {
		index      int
		scale      model.UnitScale
		tensDecade bool
	}{
		{0, model.UnitScaleMilli, false},
		{1, model.UnitScaleUnit, false},
		{2, model.UnitScaleUnit, true},
		{3, model.UnitScaleKilo, false},
		{4, model.UnitScaleMega, false},
	}
	for _, test := range tests {
		if err := svc.SetRangeIndex(ctx, test.index); err != nil {
			t.Fatalf("Expected no error at index %d, got %v", test.index, err)
		}
		actual := svc.Actual()
		if actual.Scale != test.scale {
			t.Errorf("Expected scale %d at index %d, got %d", test.scale, test.index, actual.Scale)
		}
		if actual.TensDecade != test.tensDecade {
			t.Errorf("Expected tens decade %v at index %d", test.tensDecade, test.index)
		}
	}

	// Re-selecting the active button is a no-op.
	reloads := timer.reloads
	if err := svc.SetRangeIndex(ctx, 4); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if timer.reloads != reloads {
		t.Error("Expected no reload when re-selecting active range")
	}

	if err := svc.SetRangeIndex(ctx, 5); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestServiceSetWaveform(t *testing.T) {
	ctx := context.Background()
	svc, timer := newTestService(t)
	if err := svc.Configure(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Non-square waveforms leave the committed configuration untouched.
	reloads := timer.reloads
	if err := svc.SetWaveform(ctx, model.WaveformSine); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if timer.reloads != reloads {
		t.Error("Expected no reload for sine waveform")
	}
	actual := svc.Actual()
	if actual.Waveform != model.WaveformSine {
		t.Errorf("Expected sine waveform, got %s", actual.Waveform)
	}
	if actual.WaveformCaption != "Sine" {
		t.Errorf("Expected caption Sine, got %q", actual.WaveformCaption)
	}

	// Switching back to square recommits.
	if err := svc.SetWaveform(ctx, model.WaveformSquare); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if timer.reloads != reloads+1 {
		t.Error("Expected reload when returning to square waveform")
	}
}

func TestServiceCycleWaveform(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if err := svc.Configure(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expected := []model.Waveform{
		model.WaveformSine,
		model.WaveformTriangle,
		model.WaveformSawtooth,
		model.WaveformSquare,
	}
	for _, want := range expected {
		got, err := svc.CycleWaveform(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}
}

func TestServiceSetOutputEnabled(t *testing.T) {
	ctx := context.Background()
	svc, timer := newTestService(t)
	if err := svc.Configure(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.SetOutputEnabled(ctx, false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if timer.running {
		t.Error("Expected timer stopped")
	}
	if svc.Actual().OutputEnabled {
		t.Error("Expected output disabled in actual")
	}

	reloads := timer.reloads
	if err := svc.SetOutputEnabled(ctx, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !timer.running {
		t.Error("Expected timer running")
	}
	// Enabling the output recommits the configuration.
	if timer.reloads != reloads+1 {
		t.Error("Expected reload when enabling output")
	}
}

func TestServiceSubscribeActuals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	received := make(chan Actual, 16)
	cancel := svc.SubscribeActuals(func(a Actual) {
		received <- a
	})
	defer cancel()

	if err := svc.SetFrequency(ctx, 500, model.UnitScaleUnit); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	actual := <-received
	if actual.RequestedFrequency != 500 {
		t.Errorf("Expected 500Hz in published actual, got %v", actual.RequestedFrequency)
	}
}
