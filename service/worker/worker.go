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

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/bridge"
	"github.com/simpledso/SignalGenerator/service/generator"
	"github.com/simpledso/SignalGenerator/service/mqtt"
)

var (
	maskAny = errors.WithStack
)

// Service contains the API exposed by the worker service
type Service interface {
	// Run the worker service until the given context is cancelled.
	Run(ctx context.Context) error
	// Generator returns the generator controlled by this worker.
	Generator() generator.Service
}

type Config struct {
	// Profile of the hardware this worker drives.
	Profile model.HardwareProfile
	// HardwareID of this worker.
	HardwareID string
	// TopicPrefix for all MQTT topics of this worker.
	TopicPrefix string
}

type Dependencies struct {
	Log    zerolog.Logger
	Bridge bridge.API
	// MQTTService may be nil, in which case the worker only serves
	// local API calls.
	MQTTService mqtt.Service
}

// NewService instantiates a new Service.
func NewService(config Config, deps Dependencies) (Service, error) {
	timer, err := deps.Bridge.SynthTimer()
	if err != nil {
		return nil, maskAny(err)
	}
	genService, err := generator.NewService(generator.Config{
		Profile: config.Profile,
	}, generator.Dependencies{
		Log:   deps.Log,
		Timer: timer,
	})
	if err != nil {
		return nil, maskAny(err)
	}
	return &service{
		config:       config,
		Dependencies: deps,
		genService:   genService,
	}, nil
}

type service struct {
	config Config
	Dependencies
	genService generator.Service
}

// Generator returns the generator controlled by this worker.
func (s *service) Generator() generator.Service {
	return s.genService
}

// Run the worker service until the given context is cancelled.
func (s *service) Run(ctx context.Context) error {
	// Bring the generator into its initial state.
	if err := s.genService.Configure(ctx); err != nil {
		return maskAny(err)
	}
	s.Bridge.SetGreenLED(true)
	s.Bridge.SetRedLED(false)

	defer func() {
		s.Bridge.SetGreenLED(false)
		s.Bridge.SetRedLED(true)
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.runPublishActuals(ctx) })
	if s.MQTTService != nil {
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicFrequency(s.config.TopicPrefix), s.handleFrequency)
		})
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicFrequencyEntry(s.config.TopicPrefix), s.handleEntry)
		})
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicFrequencySlider(s.config.TopicPrefix), s.handleSlider)
		})
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicFrequencyPreset(s.config.TopicPrefix), s.handlePreset)
		})
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicRange(s.config.TopicPrefix), s.handleRange)
		})
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicWaveform(s.config.TopicPrefix), s.handleWaveform)
		})
		g.Go(func() error {
			return s.runCommandLoop(ctx, TopicOutput(s.config.TopicPrefix), s.handleOutput)
		})
	}
	return g.Wait()
}

// runPublishActuals publishes every generator state change and reflects
// it on the status leds.
func (s *service) runPublishActuals(ctx context.Context) error {
	log := s.Log.With().Str("component", "actual-publisher").Logger()
	actuals := make(chan generator.Actual, 16)
	cancel := s.genService.SubscribeActuals(func(a generator.Actual) {
		select {
		case actuals <- a:
			// Delivered
		default:
			// Drop when the publisher cannot keep up
		}
	})
	defer cancel()

	topic := TopicActual(s.config.TopicPrefix)
	for {
		select {
		case actual := <-actuals:
			s.Bridge.SetRedLED(actual.Config.Clipped || actual.Config.RangeExceeded)
			if s.MQTTService != nil {
				if err := s.MQTTService.Publish(ctx, actual, topic, mqtt.QosAtMostOnce); err != nil {
					log.Error().Err(err).Str("topic", topic).Msg("Failed to publish actual")
				}
			}
		case <-ctx.Done():
			// Context canceled
			return nil
		}
	}
}
