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
	"sync"

	"github.com/mattn/go-pubsub"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/bridge"
)

var (
	maskAny = errors.WithStack
)

const (
	// The 5 range buttons: mHz, Hz, 10Hz, kHz, MHz.
	rangeButtonCount = 5
	// Index of the 10Hz button, selecting the tens-decade submode of Hz.
	tensDecadeRangeIndex = 2
	// Range button selected at startup.
	initialRangeIndex = tensDecadeRangeIndex
	// Frequency committed at startup.
	initialFrequency = 200.0
)

// Service owns the generator state and drives the synthesizer timer.
// All frequency mutations recompute and commit the timer configuration
// before they return, so the committed state is never stale.
type Service interface {
	// Configure puts the generator in its initial state and commits it.
	Configure(ctx context.Context) error
	// SetFrequency sets the requested frequency under an explicit unit scale.
	SetFrequency(ctx context.Context, value float64, scale model.UnitScale) error
	// SetFrequencyFromEntry sets the frequency from direct numeric entry,
	// auto-selecting the unit scale. A NaN value means the entry was
	// cancelled and is a no-op.
	SetFrequencyFromEntry(ctx context.Context, value float64) error
	// SetFrequencyFromSlider sets the frequency from a slider position.
	SetFrequencyFromSlider(ctx context.Context, position int) error
	// SetFixedFrequency sets the frequency from a preset button.
	// The preset is multiplied by 10 while the tens-decade range is active.
	SetFixedFrequency(ctx context.Context, value float64) error
	// SetRangeIndex selects one of the 5 range buttons.
	SetRangeIndex(ctx context.Context, index int) error
	// SetWaveform selects the given waveform.
	SetWaveform(ctx context.Context, waveform model.Waveform) error
	// CycleWaveform advances to the next waveform and returns it.
	CycleWaveform(ctx context.Context) (model.Waveform, error)
	// SetOutputEnabled starts/stops the synthesizer output.
	SetOutputEnabled(ctx context.Context, enabled bool) error
	// Actual returns the current state snapshot.
	Actual() Actual
	// SubscribeActuals registers a callback invoked on every state
	// change. The returned function cancels the subscription.
	SubscribeActuals(cb func(Actual)) context.CancelFunc
}

type Config struct {
	Profile model.HardwareProfile
}

type Dependencies struct {
	Log   zerolog.Logger
	Timer bridge.SynthTimer
}

type service struct {
	Config
	Dependencies

	mutex         sync.Mutex
	waveform      model.Waveform
	frequency     float64
	scale         model.UnitScale
	tensDecade    bool
	rangeIndex    int
	outputEnabled bool
	config        model.TimerConfig
	hasConfig     bool

	actuals *pubsub.PubSub
}

// NewService creates a generator Service with the given hardware
// profile and timer peripheral.
func NewService(conf Config, deps Dependencies) (Service, error) {
	if err := conf.Profile.Validate(); err != nil {
		return nil, maskAny(err)
	}
	deps.Log = deps.Log.With().Str("component", "generator").Logger()
	return &service{
		Config:       conf,
		Dependencies: deps,
		waveform:     model.WaveformSquare,
		scale:        model.UnitScaleUnit,
		tensDecade:   true,
		rangeIndex:   initialRangeIndex,
		actuals:      pubsub.New(),
	}, nil
}

// Configure puts the generator in its initial state and commits it.
func (s *service) Configure(ctx context.Context) error {
	s.mutex.Lock()
	s.waveform = model.WaveformSquare
	s.frequency, s.scale = model.AutoSelectUnitScale(initialFrequency)
	s.tensDecade = true
	s.rangeIndex = initialRangeIndex
	s.outputEnabled = true
	actual, err := s.commitLocked(ctx)
	s.mutex.Unlock()
	if err != nil {
		return maskAny(err)
	}
	if err := s.Timer.Start(ctx); err != nil {
		return maskAny(err)
	}
	outputEnabledGauge.Set(1)
	s.actuals.Pub(actual)
	return nil
}

// SetFrequency sets the requested frequency under an explicit unit scale.
func (s *service) SetFrequency(ctx context.Context, value float64, scale model.UnitScale) error {
	if err := scale.Validate(); err != nil {
		return maskAny(err)
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Wrapf(model.ValidationError, "frequency must be positive, got %v", value)
	}
	frequencyRequestsTotal.WithLabelValues("direct").Inc()

	s.mutex.Lock()
	s.frequency = value
	s.scale = scale
	actual, err := s.commitLocked(ctx)
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return err
}

// SetFrequencyFromEntry sets the frequency from direct numeric entry.
func (s *service) SetFrequencyFromEntry(ctx context.Context, value float64) error {
	if math.IsNaN(value) {
		// Entry was cancelled; leave everything untouched.
		return nil
	}
	if value <= 0 || math.IsInf(value, 0) {
		return errors.Wrapf(model.ValidationError, "frequency must be positive, got %v", value)
	}
	frequencyRequestsTotal.WithLabelValues("entry").Inc()

	s.mutex.Lock()
	if s.waveform == model.WaveformSquare {
		s.frequency, s.scale = model.AutoSelectUnitScale(value)
	} else {
		s.frequency = value
	}
	actual, err := s.commitLocked(ctx)
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return err
}

// SetFrequencyFromSlider sets the frequency from a slider position.
func (s *service) SetFrequencyFromSlider(ctx context.Context, position int) error {
	if position < 0 || position > s.Profile.SliderMax {
		return errors.Wrapf(model.ValidationError, "slider position must be in 0..%d range, got %d", s.Profile.SliderMax, position)
	}
	frequencyRequestsTotal.WithLabelValues("slider").Inc()

	s.mutex.Lock()
	s.frequency = FrequencyFromSliderPosition(s.Profile, position, s.tensDecade)
	actual, err := s.commitLocked(ctx)
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return err
}

// SetFixedFrequency sets the frequency from a preset button.
func (s *service) SetFixedFrequency(ctx context.Context, value float64) error {
	if value <= 0 {
		return errors.Wrapf(model.ValidationError, "frequency must be positive, got %v", value)
	}
	frequencyRequestsTotal.WithLabelValues("preset").Inc()

	s.mutex.Lock()
	if s.tensDecade {
		value *= 10
	}
	s.frequency = value
	actual, err := s.commitLocked(ctx)
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return err
}

// SetRangeIndex selects one of the 5 range buttons.
func (s *service) SetRangeIndex(ctx context.Context, index int) error {
	if index < 0 || index >= rangeButtonCount {
		return errors.Wrapf(model.ValidationError, "range index must be in 0..%d range, got %d", rangeButtonCount-1, index)
	}

	s.mutex.Lock()
	if index == s.rangeIndex {
		// Button is already active.
		s.mutex.Unlock()
		return nil
	}
	s.rangeIndex = index
	s.tensDecade = index == tensDecadeRangeIndex
	scaleIndex := index
	if index >= tensDecadeRangeIndex {
		scaleIndex--
	}
	s.scale = model.UnitScale(scaleIndex)
	actual, err := s.commitLocked(ctx)
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return err
}

// SetWaveform selects the given waveform.
func (s *service) SetWaveform(ctx context.Context, waveform model.Waveform) error {
	if err := waveform.Validate(); err != nil {
		return maskAny(err)
	}
	s.mutex.Lock()
	s.waveform = waveform
	var actual Actual
	var err error
	if waveform == model.WaveformSquare {
		actual, err = s.commitLocked(ctx)
	} else {
		// Non-square waveforms are driven by the waveform table
		// player; the committed timer configuration stays untouched.
		actual = s.actualLocked()
	}
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return err
}

// CycleWaveform advances to the next waveform and returns it.
func (s *service) CycleWaveform(ctx context.Context) (model.Waveform, error) {
	s.mutex.Lock()
	next := s.waveform.Next()
	s.mutex.Unlock()
	return next, s.SetWaveform(ctx, next)
}

// SetOutputEnabled starts/stops the synthesizer output.
func (s *service) SetOutputEnabled(ctx context.Context, enabled bool) error {
	s.mutex.Lock()
	s.outputEnabled = enabled
	var actual Actual
	var err error
	if enabled {
		if err = s.Timer.Start(ctx); err == nil {
			actual, err = s.commitLocked(ctx)
		} else {
			actual = s.actualLocked()
		}
		outputEnabledGauge.Set(1)
	} else {
		err = s.Timer.Stop(ctx)
		actual = s.actualLocked()
		outputEnabledGauge.Set(0)
	}
	s.mutex.Unlock()
	s.actuals.Pub(actual)
	return maskAny(err)
}

// Actual returns the current state snapshot.
func (s *service) Actual() Actual {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.actualLocked()
}

// SubscribeActuals registers a callback invoked on every state change.
func (s *service) SubscribeActuals(cb func(Actual)) context.CancelFunc {
	s.actuals.Sub(cb)
	return func() {
		s.actuals.Leave(cb)
	}
}

// commitLocked recomputes the timer configuration from the current
// state and writes it to the timer peripheral.
// Caller must hold the mutex.
func (s *service) commitLocked(ctx context.Context) (Actual, error) {
	cfg, err := ComputeTimerConfig(s.Profile, s.frequency, s.scale, s.waveform)
	if err != nil {
		if model.IsUnsupportedWaveform(err) {
			unsupportedWaveformTotal.Inc()
		}
		return s.actualLocked(), maskAny(err)
	}
	if cfg.RangeExceeded {
		s.Log.Warn().
			Uint32("divider", cfg.Divider).
			Uint32("prescaler", cfg.Prescaler).
			Msg("Reload value exceeds register range after prescaler adjustment")
	}
	if err := s.Timer.SetReload(ctx, cfg.Divider, cfg.Prescaler); err != nil {
		return s.actualLocked(), maskAny(err)
	}
	s.config = cfg
	s.hasConfig = true

	commitsTotal.Inc()
	if cfg.Clipped {
		clippedTotal.Inc()
		s.Log.Debug().Float64("frequency", s.frequency).Msg("Requested frequency clamped to hardware range")
	}
	dividerGauge.Set(float64(cfg.Divider))
	prescalerGauge.Set(float64(cfg.Prescaler))
	actual := s.actualLocked()
	actualFrequencyGauge.Set(actual.Frequency * float64(s.scale.Multiplier()) / 1000)
	return actual, nil
}

// actualLocked builds the current state snapshot.
// Caller must hold the mutex.
func (s *service) actualLocked() Actual {
	a := Actual{
		RequestedFrequency: s.frequency,
		Frequency:          s.frequency,
		Scale:              s.scale,
		TensDecade:         s.tensDecade,
		RangeIndex:         s.rangeIndex,
		Waveform:           s.waveform,
		WaveformCaption:    s.waveform.String(),
		OutputEnabled:      s.outputEnabled,
		Config:             s.config,
	}
	if s.hasConfig && s.waveform == model.WaveformSquare {
		// Report the frequency the hardware actually produces.
		a.Frequency = ActualFrequency(s.Profile, s.config, s.scale)
		magnitude, unit := PeriodFromConfig(s.Profile, s.config)
		a.PeriodText = FormatPeriod(magnitude, unit)
	}
	a.FrequencyText = FormatFrequency(a.Frequency, s.scale)
	a.SliderPosition = SliderPositionFromFrequency(s.Profile, s.frequency, s.tensDecade)
	return a
}
