//    Copyright 2024 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package bridge

import (
	"time"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/ecc1/gpio"
	"github.com/pkg/errors"
)

const (
	opzGreenLedPin = 19
	opzRedLedPin   = 18
)

type orangepizeroBridge struct {
	greenLed   gpio.OutputPin
	redLed     gpio.OutputPin
	bus        I2CBus
	synthAddr  byte
	synthTimer SynthTimer
}

// NewOrangePIZeroBridge implements the bridge for an Orange PI Zero
// with the synthesizer board on the given I2C bus location.
func NewOrangePIZeroBridge(i2cLocation string, synthAddress byte) (API, error) {
	activeLow := true
	initialValue := false
	greenLed, err := gpio.Output(opzGreenLedPin, activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrap(err, "Output[greenLed] failed")
	}
	redLed, err := gpio.Output(opzRedLedPin, activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrap(err, "Output[redLed] failed")
	}
	bus, err := NewI2CBus(i2cLocation)
	if err != nil {
		return nil, errors.Wrap(err, "NewI2CBus failed")
	}
	return &orangepizeroBridge{
		greenLed:  greenLed,
		redLed:    redLed,
		bus:       bus,
		synthAddr: synthAddress,
	}, nil
}

// Turn Green status led on/off
func (p *orangepizeroBridge) SetGreenLED(on bool) error {
	if err := p.greenLed.Write(on); err != nil {
		return errors.Wrap(err, "Write[greenLed] failed")
	}
	return nil
}

// Turn Red status led on/off
func (p *orangepizeroBridge) SetRedLED(on bool) error {
	if err := p.redLed.Write(on); err != nil {
		return errors.Wrap(err, "Write[redLed] failed")
	}
	return nil
}

// Blink Green status led with given duration between on/off
func (p *orangepizeroBridge) BlinkGreenLED(delay time.Duration) error {
	return maskAny(blinkLed(p.SetGreenLED, delay))
}

// Blink Red status led with given duration between on/off
func (p *orangepizeroBridge) BlinkRedLED(delay time.Duration) error {
	return maskAny(blinkLed(p.SetRedLED, delay))
}

// SynthTimer returns the synthesizer timer peripheral.
func (p *orangepizeroBridge) SynthTimer() (SynthTimer, error) {
	if p.synthTimer == nil {
		p.synthTimer = newSynthTimer(p.bus, p.synthAddr)
	}
	return p.synthTimer, nil
}

// Close the bridge and release its resources.
func (p *orangepizeroBridge) Close() error {
	var ae aerr.AggregateError
	if err := p.SetGreenLED(false); err != nil {
		ae.Add(err)
	}
	if err := p.SetRedLED(false); err != nil {
		ae.Add(err)
	}
	if err := p.bus.Close(); err != nil {
		ae.Add(err)
	}
	return ae.AsError()
}
