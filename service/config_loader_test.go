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
	"os"
	"path/filepath"
	"testing"

	"github.com/simpledso/SignalGenerator/model"
)

func TestLoadHardwareProfileDefault(t *testing.T) {
	profile, err := LoadHardwareProfile("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile != model.DefaultHardwareProfile() {
		t.Errorf("Expected default profile, got %+v", profile)
	}
}

func TestLoadHardwareProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
timerClockHz: 72000000
registerBits: 32
sliderMax: 600
i2cBusPath: /dev/i2c-2
synthTimerAddress: 0x41
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	profile, err := LoadHardwareProfile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile.TimerClockHz != 72000000 {
		t.Errorf("Expected timerClockHz 72000000, got %d", profile.TimerClockHz)
	}
	if profile.RegisterBits != 32 {
		t.Errorf("Expected registerBits 32, got %d", profile.RegisterBits)
	}
	if profile.SliderMax != 600 {
		t.Errorf("Expected sliderMax 600, got %d", profile.SliderMax)
	}
	if profile.I2CBusPath != "/dev/i2c-2" {
		t.Errorf("Expected i2cBusPath /dev/i2c-2, got %s", profile.I2CBusPath)
	}
	if profile.SynthTimerAddress != 0x41 {
		t.Errorf("Expected synthTimerAddress 0x41, got 0x%02x", profile.SynthTimerAddress)
	}
}

func TestLoadHardwareProfilePartial(t *testing.T) {
	// Fields not present in the file keep their default.
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("sliderMax: 150\n"), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	profile, err := LoadHardwareProfile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile.SliderMax != 150 {
		t.Errorf("Expected sliderMax 150, got %d", profile.SliderMax)
	}
	if profile.TimerClockHz != model.DefaultHardwareProfile().TimerClockHz {
		t.Errorf("Expected default timerClockHz, got %d", profile.TimerClockHz)
	}
}

func TestLoadHardwareProfileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("registerBits: 24\n"), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	if _, err := LoadHardwareProfile(path); !model.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestLoadHardwareProfileMissingFile(t *testing.T) {
	if _, err := LoadHardwareProfile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
