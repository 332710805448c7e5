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
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/simpledso/SignalGenerator/model"
)

const (
	configReloadInterval = time.Second * 5
)

// LoadHardwareProfile reads a hardware profile from the file at the
// given path. An empty path yields the default profile.
func LoadHardwareProfile(path string) (model.HardwareProfile, error) {
	profile := model.DefaultHardwareProfile()
	if path == "" {
		return profile, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return model.HardwareProfile{}, maskAny(err)
	}
	if err := yaml.Unmarshal(content, &profile); err != nil {
		return model.HardwareProfile{}, maskAny(err)
	}
	if err := profile.Validate(); err != nil {
		return model.HardwareProfile{}, maskAny(err)
	}
	return profile, nil
}

// runLoadConfig keeps reading the hardware profile and puts
// profile changes in the configChanged channel.
func (s *service) runLoadConfig(ctx context.Context,
	log zerolog.Logger,
	configChanged chan model.HardwareProfile) error {

	// Prepare log
	log = log.With().Str("component", "config-reader").Logger()

	var lastProfile *model.HardwareProfile
	for {
		profile, err := LoadHardwareProfile(s.ProfilePath)
		if err != nil {
			log.Error().Err(err).Str("path", s.ProfilePath).Msg("Failed to load hardware profile")
		} else if lastProfile != nil && profile == *lastProfile {
			// Received identical configuration
		} else {
			log.Debug().Msg("Received new configuration")
			lastProfile = &profile
			select {
			case configChanged <- profile:
				// Continue
			case <-ctx.Done():
				// Context canceled
				return nil
			}
		}
		select {
		case <-ctx.Done():
			// Context canceled
			return nil
		case <-time.After(configReloadInterval):
			// Retry
		}
	}
}
