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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/simpledso/SignalGenerator/pkg/environment"
	"github.com/simpledso/SignalGenerator/pkg/logging"
	"github.com/simpledso/SignalGenerator/server"
	"github.com/simpledso/SignalGenerator/service"
	"github.com/simpledso/SignalGenerator/service/bridge"
	"github.com/simpledso/SignalGenerator/service/mqtt"
	"github.com/simpledso/SignalGenerator/service/worker"
)

const (
	projectName       = "Signal Generator Worker"
	defaultServerPort = 7129
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
	maskAny        = errors.WithStack
)

func main() {
	var levelFlag string
	var serverHost string
	var serverPort int
	var discoveryPort int
	var bridgeType string
	var profilePath string
	var topicPrefix string
	var mqttHost string
	var mqttPort int
	var mqttUserName string
	var mqttPassword string

	pflag.StringVarP(&levelFlag, "level", "l", "debug", "Set log level")
	pflag.StringVarP(&bridgeType, "bridge", "b", "auto", "Type of bridge to use (auto|rpi|opz|stub)")
	pflag.StringVarP(&profilePath, "profile", "p", "", "Path of the hardware profile file")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", defaultServerPort, "Port the HTTP server will listen on")
	pflag.IntVar(&discoveryPort, "discovery-port", 0, "Port to announce this worker on (0 disables announcements)")
	pflag.StringVar(&topicPrefix, "topic-prefix", "siggen", "Prefix for all MQTT topics")
	pflag.StringVar(&mqttHost, "mqtt-host", "", "Host of the MQTT broker (empty disables MQTT)")
	pflag.IntVar(&mqttPort, "mqtt-port", 1883, "Port of the MQTT broker")
	pflag.StringVar(&mqttUserName, "mqtt-username", "", "Username for the MQTT broker")
	pflag.StringVar(&mqttPassword, "mqtt-password", "", "Password for the MQTT broker")
	pflag.Parse()

	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	mqttLogWriter := logging.NewMQTTWriter(context.Background())
	logWriter := logging.NewMultiWriter(zerolog.ConsoleWriter{Out: os.Stderr}, mqttLogWriter)
	logger := zerolog.New(logWriter).Level(level).With().Timestamp().Logger()

	if bridgeType == "auto" {
		bridgeType = environment.AutoDetectBridgeType(logger)
	}
	profile, err := service.LoadHardwareProfile(profilePath)
	if err != nil {
		Exitf("Failed to load hardware profile: %v\n", err)
	}

	var br bridge.API
	switch bridgeType {
	case "rpi":
		br, err = bridge.NewRaspberryPiBridge(profile.I2CBusPath, profile.SynthTimerAddress)
		if err != nil {
			Exitf("Failed to initialize Raspberry Pi Bridge: %v\n", err)
		}
	case "opz":
		br, err = bridge.NewOrangePIZeroBridge(profile.I2CBusPath, profile.SynthTimerAddress)
		if err != nil {
			Exitf("Failed to initialize Orange Pi Zero Bridge: %v\n", err)
		}
	case "stub":
		br = bridge.NewStub()
	default:
		Exitf("Unknown bridge type '%s' (auto|rpi|opz|stub)\n", bridgeType)
	}

	var mqttBuilder service.MqttBuilder
	if mqttHost != "" {
		mqttBuilder = func(clientID string) (mqtt.Service, error) {
			result, err := mqtt.NewService(mqtt.Config{
				Host:     mqttHost,
				Port:     mqttPort,
				UserName: mqttUserName,
				Password: mqttPassword,
				ClientID: clientID,
			}, logger)
			if err != nil {
				return nil, maskAny(err)
			}
			mqttLogWriter.SetDestination(worker.TopicLog(topicPrefix+"/"+clientID), result)
			mqttLogWriter.Enable(true)
			return result, nil
		}
	}

	svc, err := service.NewService(service.Config{
		ProgramVersion: projectVersion,
		ProfilePath:    profilePath,
		TopicPrefix:    topicPrefix,
		DiscoveryPort:  discoveryPort,
		ServerPort:     serverPort,
	}, service.Dependencies{
		Log:         logger,
		Bridge:      br,
		MqttBuilder: mqttBuilder,
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	httpServer, err := server.NewServer(server.Config{
		Host:     serverHost,
		HTTPPort: serverPort,
	}, svc, logger)
	if err != nil {
		Exitf("Failed to initialize Server: %v\n", err)
	}

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })
	if err := g.Wait(); err != nil {
		Exitf("Service run failed: %#v", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
