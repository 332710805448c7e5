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
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/bridge"
)

func newTestWorker(t *testing.T) *service {
	w, err := NewService(Config{
		Profile:     model.DefaultHardwareProfile(),
		HardwareID:  "test",
		TopicPrefix: "siggen/test",
	}, Dependencies{
		Log:    zerolog.Nop(),
		Bridge: bridge.NewStub(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return w.(*service)
}

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		actual   string
		expected string
	}{
		{TopicActual("siggen/abc"), "siggen/abc/actual"},
		{TopicActual("siggen/abc/"), "siggen/abc/actual"},
		{TopicLog("siggen/abc"), "siggen/abc/log"},
		{TopicFrequency("siggen/abc"), "siggen/abc/frequency/set"},
		{TopicFrequencyEntry("siggen/abc"), "siggen/abc/frequency/entry"},
		{TopicFrequencySlider("siggen/abc"), "siggen/abc/frequency/slider"},
		{TopicFrequencyPreset("siggen/abc"), "siggen/abc/frequency/preset"},
		{TopicRange("siggen/abc"), "siggen/abc/range"},
		{TopicWaveform("siggen/abc"), "siggen/abc/waveform"},
		{TopicOutput("siggen/abc"), "siggen/abc/output"},
	}
	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("Expected topic %q, got %q", test.expected, test.actual)
		}
	}
}

func TestHandleFrequency(t *testing.T) {
	ctx := context.Background()
	s := newTestWorker(t)
	if err := s.handleFrequency(ctx, []byte(`{"value": 72, "scale": 2}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	actual := s.Generator().Actual()
	if actual.RequestedFrequency != 72 || actual.Scale != model.UnitScaleKilo {
		t.Errorf("Expected 72kHz, got %v %d", actual.RequestedFrequency, actual.Scale)
	}

	if err := s.handleFrequency(ctx, []byte(`{"value": -5, "scale": 1}`)); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if err := s.handleFrequency(ctx, []byte(`not json`)); err == nil {
		t.Error("Expected error for invalid payload")
	}
}

func TestHandleEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestWorker(t)
	if err := s.handleEntry(ctx, []byte(`{"value": 1500}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	actual := s.Generator().Actual()
	if actual.RequestedFrequency != 1.5 || actual.Scale != model.UnitScaleKilo {
		t.Errorf("Expected auto-selected 1.5kHz, got %v %d", actual.RequestedFrequency, actual.Scale)
	}

	// A null value is a cancelled entry and must not change anything.
	if err := s.handleEntry(ctx, []byte(`{"value": null}`)); err != nil {
		t.Fatalf("Expected no error on cancelled entry, got %v", err)
	}
	if actual := s.Generator().Actual(); actual.RequestedFrequency != 1.5 {
		t.Errorf("Expected frequency unchanged, got %v", actual.RequestedFrequency)
	}
}

func TestHandleSliderAndRange(t *testing.T) {
	ctx := context.Background()
	s := newTestWorker(t)
	if err := s.handleRange(ctx, []byte(`{"index": 1}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.handleSlider(ctx, []byte(`{"position": 300}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	actual := s.Generator().Actual()
	if math.Abs(actual.RequestedFrequency-1000) > 1e-6 {
		t.Errorf("Expected 1000Hz at position 300, got %v", actual.RequestedFrequency)
	}
	if err := s.handleSlider(ctx, []byte(`{"position": 9999}`)); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestHandleWaveform(t *testing.T) {
	ctx := context.Background()
	s := newTestWorker(t)
	if err := s.handleWaveform(ctx, []byte(`{"waveform": "Sine"}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := s.Generator().Actual(); actual.Waveform != model.WaveformSine {
		t.Errorf("Expected sine waveform, got %s", actual.Waveform)
	}
	if err := s.handleWaveform(ctx, []byte(`{"cycle": true}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := s.Generator().Actual(); actual.Waveform != model.WaveformTriangle {
		t.Errorf("Expected triangle waveform, got %s", actual.Waveform)
	}
	if err := s.handleWaveform(ctx, []byte(`{"waveform": "Noise"}`)); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestHandleOutput(t *testing.T) {
	ctx := context.Background()
	s := newTestWorker(t)
	if err := s.Generator().Configure(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.handleOutput(ctx, []byte(`{"enabled": false}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := s.Generator().Actual(); actual.OutputEnabled {
		t.Error("Expected output disabled")
	}
	if err := s.handleOutput(ctx, []byte(`{"enabled": true}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := s.Generator().Actual(); !actual.OutputEnabled {
		t.Error("Expected output enabled")
	}
}

func TestHandlePreset(t *testing.T) {
	ctx := context.Background()
	s := newTestWorker(t)
	// Tens decade submode is active initially; presets are multiplied by 10.
	if err := s.handlePreset(ctx, []byte(`{"value": 100}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if actual := s.Generator().Actual(); actual.RequestedFrequency != 1000 {
		t.Errorf("Expected 1000Hz, got %v", actual.RequestedFrequency)
	}
}
