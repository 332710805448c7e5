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
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/bridge"
	"github.com/simpledso/SignalGenerator/service/mqtt"
	"github.com/simpledso/SignalGenerator/service/worker"
)

type workerRunner struct {
	hostID        string
	topicPrefix   string
	bridge        bridge.API
	mqttService   mqtt.Service
	lastWorkerID  uint32
	workerSem     *semaphore.Weighted
	currentWorker struct {
		worker.Service
		mutex sync.RWMutex
	}
}

// newWorkerRunner creates a new worker runner
func newWorkerRunner(hostID, topicPrefix string, bridge bridge.API, mqttService mqtt.Service) *workerRunner {
	return &workerRunner{
		hostID:      hostID,
		topicPrefix: topicPrefix,
		bridge:      bridge,
		mqttService: mqttService,
		workerSem:   semaphore.NewWeighted(1),
	}
}

// Gets the current worker (if any)
func (s *workerRunner) GetWorker() worker.Service {
	s.currentWorker.mutex.RLock()
	defer s.currentWorker.mutex.RUnlock()
	return s.currentWorker.Service
}

// runWorkers keeps creating and running workers until the given context is cancelled.
func (s *workerRunner) runWorkers(ctx context.Context,
	log zerolog.Logger,
	configChanged <-chan model.HardwareProfile) error {

	// Keep running a worker
	log = log.With().Str("component", "worker-runner").Logger()
	var profile *model.HardwareProfile
	var cancel context.CancelFunc
	for {
		select {
		case p := <-configChanged:
			// Start/restart worker
			profile = &p
			log.Debug().Msg("Configuration changed")
			if cancel != nil {
				cancel()
			}
		case <-ctx.Done():
			// Context canceled
			if cancel != nil {
				cancel()
			}
			return nil
		}

		// Prepare new worker
		if profile != nil {
			var lctx context.Context
			lctx, cancel = context.WithCancel(ctx)
			workerID := atomic.AddUint32(&s.lastWorkerID, 1)
			log := log.With().
				Uint32("worker-id", workerID).
				Logger()
			go func(ctx context.Context, log zerolog.Logger, profile model.HardwareProfile) {
				// Aqcuire the semaphore
				log.Debug().Msg("Acquiring worker semaphore...")
				if err := s.workerSem.Acquire(ctx, 1); err != nil {
					log.Warn().Err(err).Msg("Failed to acquire worker semaphore")
					return
				}
				// Release semaphore when worker is done.
				defer s.workerSem.Release(1)
				log.Debug().Msg("Acquired worker semaphore")

				// Check context cancelation
				if err := ctx.Err(); err != nil {
					log.Warn().Err(err).Msg("Worker context canceled before we started")
					return
				}

				// Run the worker
				s.runWorkerWithProfile(ctx, log, profile)
			}(lctx, log, *profile)
		}
	}
}

// runWorkerWithProfile runs a worker with given hardware profile until
// the given context is cancelled.
func (s *workerRunner) runWorkerWithProfile(ctx context.Context,
	log zerolog.Logger,
	profile model.HardwareProfile) {

	defer func() {
		s.currentWorker.mutex.Lock()
		s.currentWorker.Service = nil
		s.currentWorker.mutex.Unlock()

		if err := recover(); err != nil {
			log.Error().Interface("err", err).Msg("Recovered from panic")
		}
	}()
	for {
		log.Debug().Msg("Creating new worker service")
		w, err := worker.NewService(worker.Config{
			Profile:     profile,
			HardwareID:  s.hostID,
			TopicPrefix: s.topicPrefix,
		}, worker.Dependencies{
			Log:         log,
			Bridge:      s.bridge,
			MQTTService: s.mqttService,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to create worker")
			// Wait a bit and then retry
		} else {
			// Run worker
			log.Debug().Msg("start to run worker...")
			s.currentWorker.mutex.Lock()
			s.currentWorker.Service = w
			s.currentWorker.mutex.Unlock()
			if err := w.Run(ctx); ctx.Err() != nil {
				log.Info().Msg("Worker ended with context cancellation")
				return
			} else if err != nil {
				log.Error().Err(err).Msg("Failed to run worker")
			} else {
				log.Info().Msg("Worker ended without context cancellation")
			}
		}
		select {
		case <-ctx.Done():
			// Context canceled
			return
		case <-time.After(time.Second):
			// Retry
		}
	}
}
