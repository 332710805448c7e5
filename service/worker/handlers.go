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
	"encoding/json"
	"math"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service/mqtt"
)

// runCommandLoop subscribes to the given topic and feeds every message
// into the given handler until the context is canceled.
func (s *service) runCommandLoop(ctx context.Context, topic string, handle func(context.Context, []byte) error) error {
	log := s.Log.With().Str("topic", topic).Logger()
	sub, err := s.MQTTService.Subscribe(ctx, topic, mqtt.QosAsLeastOnce)
	if err != nil {
		log.Error().Err(err).Msg("Failed to subscribe")
		return maskAny(err)
	}
	defer sub.Close()

	for {
		var encodedMsg json.RawMessage
		if err := sub.NextMsg(ctx, &encodedMsg); err != nil {
			if mqtt.IsSubscriptionClosed(err) || ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("Failed to read next message")
			continue
		}
		if err := handle(ctx, encodedMsg); err != nil {
			if model.IsValidation(err) || model.IsUnsupportedWaveform(err) {
				log.Warn().Err(err).Msg("Command rejected")
			} else {
				log.Error().Err(err).Msg("Command failed")
			}
		}
	}
}

func (s *service) handleFrequency(ctx context.Context, encodedMsg []byte) error {
	var req FrequencyRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	return s.genService.SetFrequency(ctx, req.Value, req.Scale)
}

func (s *service) handleEntry(ctx context.Context, encodedMsg []byte) error {
	var req EntryRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	value := math.NaN()
	if req.Value != nil {
		value = *req.Value
	}
	return s.genService.SetFrequencyFromEntry(ctx, value)
}

func (s *service) handleSlider(ctx context.Context, encodedMsg []byte) error {
	var req SliderRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	return s.genService.SetFrequencyFromSlider(ctx, req.Position)
}

func (s *service) handlePreset(ctx context.Context, encodedMsg []byte) error {
	var req PresetRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	return s.genService.SetFixedFrequency(ctx, req.Value)
}

func (s *service) handleRange(ctx context.Context, encodedMsg []byte) error {
	var req RangeRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	return s.genService.SetRangeIndex(ctx, req.Index)
}

func (s *service) handleWaveform(ctx context.Context, encodedMsg []byte) error {
	var req WaveformRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	if req.Cycle {
		_, err := s.genService.CycleWaveform(ctx)
		return maskAny(err)
	}
	waveform, err := model.ParseWaveform(req.Waveform)
	if err != nil {
		return maskAny(err)
	}
	return s.genService.SetWaveform(ctx, waveform)
}

func (s *service) handleOutput(ctx context.Context, encodedMsg []byte) error {
	var req OutputRequest
	if err := json.Unmarshal(encodedMsg, &req); err != nil {
		return maskAny(err)
	}
	return s.genService.SetOutputEnabled(ctx, req.Enabled)
}
