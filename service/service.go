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
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/bridge"
	"github.com/simpledso/SignalGenerator/service/generator"
	"github.com/simpledso/SignalGenerator/service/mqtt"
	"github.com/simpledso/SignalGenerator/service/util"
)

var (
	maskAny = errors.WithStack
)

type Service interface {
	// Run the worker until the given context is cancelled.
	Run(ctx context.Context) error
	Api
}

// Api contains the operations exposed to local control surfaces such
// as the HTTP server.
type Api interface {
	// GetInfo returns identifying information of this worker.
	GetInfo(ctx context.Context) (Info, error)
	// GetActual returns the current generator state snapshot.
	GetActual(ctx context.Context) (generator.Actual, error)
	// SetFrequency sets the requested frequency under an explicit unit scale.
	SetFrequency(ctx context.Context, value float64, scale model.UnitScale) error
	// SetFrequencyFromEntry sets the frequency from direct numeric entry.
	SetFrequencyFromEntry(ctx context.Context, value float64) error
	// SetFrequencyFromSlider sets the frequency from a slider position.
	SetFrequencyFromSlider(ctx context.Context, position int) error
	// SetFixedFrequency sets the frequency from a preset button.
	SetFixedFrequency(ctx context.Context, value float64) error
	// SetRangeIndex selects one of the range buttons.
	SetRangeIndex(ctx context.Context, index int) error
	// SetWaveform selects the given waveform.
	SetWaveform(ctx context.Context, waveform model.Waveform) error
	// CycleWaveform advances to the next waveform and returns it.
	CycleWaveform(ctx context.Context) (model.Waveform, error)
	// SetOutputEnabled starts/stops the generator output.
	SetOutputEnabled(ctx context.Context, enabled bool) error
}

type Config struct {
	ProgramVersion string
	// ProfilePath is the path of the hardware profile file.
	// Empty uses the default profile.
	ProfilePath string
	// TopicPrefix for all MQTT topics. The host ID is appended.
	TopicPrefix string
	// DiscoveryPort to announce this worker on. 0 disables announcements.
	DiscoveryPort int
	// ServerPort the HTTP server listens on, announced during discovery.
	ServerPort int
}

// MqttBuilder creates an MQTT service with the given client ID,
// or nil when no broker is configured.
type MqttBuilder func(clientID string) (mqtt.Service, error)

type Dependencies struct {
	Log         zerolog.Logger
	Bridge      bridge.API
	MqttBuilder MqttBuilder
}

type service struct {
	Config
	Dependencies

	hostID       string
	topicPrefix  string
	startedAt    time.Time
	mqttService  mqtt.Service
	workerRunner *workerRunner
}

// NewService creates a Service instance and returns it.
func NewService(conf Config, deps Dependencies) (Service, error) {
	deps.Log = deps.Log.With().Str("component", "service").Logger()
	// Create host ID
	hostID, err := createHostID()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create host ID")
	}
	s := &service{
		Config:       conf,
		Dependencies: deps,
		hostID:       hostID,
		topicPrefix:  conf.TopicPrefix + "/" + hostID,
		startedAt:    time.Now(),
	}
	if deps.MqttBuilder != nil {
		mqttService, err := deps.MqttBuilder(hostID)
		if err != nil {
			return nil, maskAny(err)
		}
		s.mqttService = mqttService
	}
	s.workerRunner = newWorkerRunner(hostID, s.topicPrefix, deps.Bridge, s.mqttService)
	return s, nil
}

// Run initializes the worker hardware and then continues to run
// workers, reloading the hardware profile when it changes.
func (s *service) Run(ctx context.Context) error {
	log := s.Log.With().Str("id", s.hostID).Logger()
	defer func() {
		var closeErr util.SyncError
		closeErr.Add(s.Bridge.Close())
		if s.mqttService != nil {
			closeErr.Add(s.mqttService.Close())
		}
		if err := closeErr.AsError(); err != nil {
			log.Warn().Err(err).Msg("Failed to close cleanly")
		}
	}()

	log.Info().Msg("Found host ID")

	// Show that we are initializing
	s.Bridge.BlinkGreenLED(time.Millisecond * 250)
	s.Bridge.BlinkRedLED(time.Millisecond * 250)

	configChanged := make(chan model.HardwareProfile)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.runLoadConfig(ctx, log, configChanged) })
	g.Go(func() error { return s.workerRunner.runWorkers(ctx, log, configChanged) })
	if s.DiscoveryPort > 0 {
		g.Go(func() error { return s.announceWorker(ctx, s.hostID, s.DiscoveryPort, s.ServerPort) })
	}
	return g.Wait()
}
