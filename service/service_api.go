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

package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/generator"
)

// NoWorkerError is returned when an API call arrives before a worker
// has been started.
var NoWorkerError = errors.New("no worker yet")

// Info describes this worker.
type Info struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Uptime  int64  `json:"uptime"`
}

// getGenerator returns the generator of the current worker.
func (s *service) getGenerator() (generator.Service, error) {
	w := s.workerRunner.GetWorker()
	if w == nil {
		return nil, maskAny(NoWorkerError)
	}
	return w.Generator(), nil
}

// GetInfo returns identifying information of this worker.
func (s *service) GetInfo(ctx context.Context) (Info, error) {
	return Info{
		ID:      s.hostID,
		Version: s.ProgramVersion,
		Uptime:  int64(time.Since(s.startedAt).Seconds()),
	}, nil
}

// GetActual returns the current generator state snapshot.
func (s *service) GetActual(ctx context.Context) (generator.Actual, error) {
	gen, err := s.getGenerator()
	if err != nil {
		return generator.Actual{}, maskAny(err)
	}
	return gen.Actual(), nil
}

// SetFrequency sets the requested frequency under an explicit unit scale.
func (s *service) SetFrequency(ctx context.Context, value float64, scale model.UnitScale) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetFrequency(ctx, value, scale)
}

// SetFrequencyFromEntry sets the frequency from direct numeric entry.
func (s *service) SetFrequencyFromEntry(ctx context.Context, value float64) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetFrequencyFromEntry(ctx, value)
}

// SetFrequencyFromSlider sets the frequency from a slider position.
func (s *service) SetFrequencyFromSlider(ctx context.Context, position int) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetFrequencyFromSlider(ctx, position)
}

// SetFixedFrequency sets the frequency from a preset button.
func (s *service) SetFixedFrequency(ctx context.Context, value float64) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetFixedFrequency(ctx, value)
}

// SetRangeIndex selects one of the range buttons.
func (s *service) SetRangeIndex(ctx context.Context, index int) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetRangeIndex(ctx, index)
}

// SetWaveform selects the given waveform.
func (s *service) SetWaveform(ctx context.Context, waveform model.Waveform) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetWaveform(ctx, waveform)
}

// CycleWaveform advances to the next waveform and returns it.
func (s *service) CycleWaveform(ctx context.Context) (model.Waveform, error) {
	gen, err := s.getGenerator()
	if err != nil {
		return 0, maskAny(err)
	}
	return gen.CycleWaveform(ctx)
}

// SetOutputEnabled starts/stops the generator output.
func (s *service) SetOutputEnabled(ctx context.Context, enabled bool) error {
	gen, err := s.getGenerator()
	if err != nil {
		return maskAny(err)
	}
	return gen.SetOutputEnabled(ctx, enabled)
}
