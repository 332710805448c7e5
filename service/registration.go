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
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// announceMessage is broadcast over UDP so control panels on the local
// network can find this worker.
type announceMessage struct {
	ID      string `json:"id"`
	Port    int    `json:"port"`
	Version string `json:"version"`
}

const (
	announceInterval = time.Second
)

// announceWorker keeps broadcasting the presence of this worker on all
// broadcast capable interfaces until the given context is cancelled.
func (s *service) announceWorker(ctx context.Context, hostID string, discoveryPort, httpPort int) error {
	intfs, err := net.Interfaces()
	if err != nil {
		s.Log.Error().Err(err).Msg("Failed to get network interfaces")
		return maskAny(err)
	}
	wg := sync.WaitGroup{}
	errors := make(chan error, len(intfs))
	for _, intf := range intfs {
		flagMask := net.FlagUp | net.FlagBroadcast | net.FlagLoopback
		flagValue := net.FlagUp | net.FlagBroadcast
		if intf.Flags&flagMask == flagValue {
			addrs, err := intf.Addrs()
			if err != nil {
				s.Log.Error().Err(err).Str("interface", intf.Name).Msg("Failed to get interfaces addresses")
				continue
			}
			if localAddr := firstIPv4(addrs); localAddr != nil {
				s.Log.Info().
					Str("interface", intf.Name).
					Str("address", localAddr.String()).
					Msg("Announcing worker on interface")
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := s.announceWorkerOnLocalAddr(ctx, hostID, localAddr, discoveryPort, httpPort); err != nil {
						errors <- err
					}
				}()
			}
		}
	}
	wg.Wait()
	select {
	case err := <-errors:
		return maskAny(err)
	default:
		return nil
	}
}

// announceWorkerOnLocalAddr broadcasts the presence of this worker from
// the given local address until the given context is cancelled.
func (s *service) announceWorkerOnLocalAddr(ctx context.Context, hostID string, localAddr net.IP, discoveryPort, httpPort int) error {
	broadcastIP := net.IPv4(255, 255, 255, 255)
	localUDPAddr := &net.UDPAddr{
		IP: localAddr,
	}
	socket, err := net.DialUDP("udp4", localUDPAddr, &net.UDPAddr{
		IP:   broadcastIP,
		Port: discoveryPort,
	})
	if err != nil {
		s.Log.Debug().Err(err).Msg("Failed to dial discovery endpoint")
		return maskAny(err)
	}
	defer socket.Close()

	msg := announceMessage{
		ID:      hostID,
		Port:    httpPort,
		Version: s.ProgramVersion,
	}
	encodedMsg, err := json.Marshal(msg)
	if err != nil {
		return maskAny(err)
	}
	for {
		if _, err := socket.Write(encodedMsg); err != nil {
			s.Log.Error().Err(err).Msg("Failed to send announce message")
		}
		select {
		case <-time.After(announceInterval):
			// Retry
		case <-ctx.Done():
			// Context cancelled
			return nil
		}
	}
}

// create a host ID based on network hardware addresses.
func createHostID() (string, error) {
	if content, err := os.ReadFile("/etc/machine-id"); err == nil {
		content = []byte(strings.TrimSpace(string(content)))
		id := fmt.Sprintf("%x", sha1.Sum(content))
		return id[:10], nil
	}

	ifs, err := net.Interfaces()
	if err != nil {
		return "", maskAny(err)
	}
	list := make([]string, 0, len(ifs))
	for _, v := range ifs {
		f := v.Flags
		if f&net.FlagUp != 0 && f&net.FlagLoopback == 0 {
			h := v.HardwareAddr.String()
			if len(h) > 0 {
				list = append(list, h)
			}
		}
	}
	sort.Strings(list) // sort host IDs
	list = append(list, runtime.GOOS, runtime.GOARCH)
	data := []byte(strings.Join(list, ","))
	id := fmt.Sprintf("%x", sha1.Sum(data))
	return id[:10], nil
}

func firstIPv4(addrs []net.Addr) net.IP {
	for _, x := range addrs {
		if ipn, ok := x.(*net.IPNet); ok {
			if result := ipn.IP.To4(); result != nil {
				return result
			}
		}
	}
	return nil
}
