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

package mqtt

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"sync"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const (
	// QosAtMostOnce represents "QoS 0: At most once delivery".
	QosAtMostOnce = byte(0)
	// QosAsLeastOnce represents "QoS 1: At least once delivery".
	QosAsLeastOnce = byte(1)
	// QosExactlyOnce represents "QoS 2: Exactly once delivery".
	QosExactlyOnce = byte(2)

	publishTimeout = time.Millisecond * 200
)

type Config struct {
	Host     string
	Port     int
	UserName string
	Password string
	ClientID string
}

// Service contains the API exposed by the MQTT service.
type Service interface {
	// Close the service
	Close() error
	// Publish a JSON encoded message into a topic.
	Publish(ctx context.Context, msg interface{}, topic string, qos byte) error
	// Subscribe to a topic
	Subscribe(ctx context.Context, topic string, qos byte) (Subscription, error)
}

// Subscription for a single topic
type Subscription interface {
	// Unsubscribe.
	Close() error
	// NextMsg blocks until the next message has been received.
	NextMsg(ctx context.Context, result interface{}) error
}

// NewService instantiates a new MQTT service.
func NewService(config Config, logger zerolog.Logger) (Service, error) {
	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	opts := mqttapi.NewClientOptions().
		AddBroker("tcp://" + addr).
		SetClientID(config.ClientID)
	if config.UserName != "" {
		opts.SetUsername(config.UserName)
		opts.SetPassword(config.Password)
	}
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetOrderMatters(false)
	opts.SetConnectionLostHandler(func(c mqttapi.Client, err error) {
		logger.Error().Err(err).Msg("MQTT connection lost")
	})
	opts.SetDefaultPublishHandler(func(c mqttapi.Client, m mqttapi.Message) {
		// Ignore messages when no subscription match
	})

	return &service{
		Config: config,
		log:    logger,
		client: mqttapi.NewClient(opts),
	}, nil
}

type service struct {
	Config
	log       zerolog.Logger
	mutex     sync.Mutex
	client    mqttapi.Client
	connected bool
}

// Close the service
func (s *service) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.connected {
		s.client.Disconnect(250)
		s.connected = false
	}
	return nil
}

// connect opens a connection, unless already connected.
func (s *service) connect() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.connected {
		return nil
	}
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return maskAny(token.Error())
	}
	s.connected = true
	return nil
}

// Publish a JSON encoded message into a topic.
func (s *service) Publish(ctx context.Context, msg interface{}, topic string, qos byte) error {
	if err := s.connect(); err != nil {
		return maskAny(err)
	}
	encodedMsg, err := json.Marshal(msg)
	if err != nil {
		return maskAny(err)
	}
	token := s.client.Publish(topic, qos, false, encodedMsg)
	if !token.WaitTimeout(publishTimeout) {
		s.log.Error().Err(token.Error()).
			Str("topic", topic).
			Msg("failed to deliver MQTT message in time")
	} else if token.Error() != nil {
		return maskAny(token.Error())
	}
	return nil
}

// Subscribe to a topic
func (s *service) Subscribe(ctx context.Context, topic string, qos byte) (Subscription, error) {
	if err := s.connect(); err != nil {
		return nil, maskAny(err)
	}
	result := &subscription{
		client: s.client,
		topic:  topic,
		queue:  make(chan []byte, 32),
	}
	if token := s.client.Subscribe(topic, qos, result.messageHandler); token.Wait() && token.Error() != nil {
		return nil, maskAny(token.Error())
	}
	return result, nil
}

type subscription struct {
	client    mqttapi.Client
	topic     string
	queue     chan []byte
	closeOnce sync.Once
}

// Put the received message in the queue.
func (s *subscription) messageHandler(client mqttapi.Client, msg mqttapi.Message) {
	defer func() {
		// Handler may race with Close; a send on the closed queue is
		// dropped.
		recover()
	}()
	s.queue <- msg.Payload()
}

// Unsubscribe.
func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
			err = maskAny(token.Error())
		}
		close(s.queue)
	})
	return err
}

// NextMsg blocks until the next message has been received,
// the subscription is closed or the given context is canceled.
func (s *subscription) NextMsg(ctx context.Context, result interface{}) error {
	select {
	case encodedMsg, ok := <-s.queue:
		if !ok {
			return maskAny(SubscriptionClosedError)
		}
		if err := json.Unmarshal(encodedMsg, result); err != nil {
			return maskAny(err)
		}
		return nil
	case <-ctx.Done():
		return maskAny(ctx.Err())
	}
}
