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

package server

import (
	"math"
	"net/http"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/simpledso/SignalGenerator/model"
	"github.com/simpledso/SignalGenerator/service"
	"github.com/simpledso/SignalGenerator/service/worker"
)

var (
	maskAny = errors.WithStack
)

// statusResponse is the payload of GET /api/status.
type statusResponse struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *server) registerRoutes(httpRouter *echo.Echo) {
	api := httpRouter.Group("/api")
	api.GET("/status", s.handleGetStatus)
	api.GET("/actual", s.handleGetActual)
	api.POST("/frequency", s.handleSetFrequency)
	api.POST("/frequency/entry", s.handleSetFrequencyFromEntry)
	api.POST("/frequency/slider", s.handleSetFrequencyFromSlider)
	api.POST("/frequency/preset", s.handleSetFixedFrequency)
	api.POST("/range", s.handleSetRangeIndex)
	api.POST("/waveform", s.handleSetWaveform)
	api.POST("/output", s.handleSetOutputEnabled)
}

func (s *server) handleGetStatus(c echo.Context) error {
	info, err := s.api.GetInfo(c.Request().Context())
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{
		ID:      info.ID,
		Version: info.Version,
		Uptime:  humanize.Time(time.Now().Add(-time.Second * time.Duration(info.Uptime))),
	})
}

func (s *server) handleGetActual(c echo.Context) error {
	actual, err := s.api.GetActual(c.Request().Context())
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, actual)
}

func (s *server) handleSetFrequency(c echo.Context) error {
	var req worker.FrequencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.api.SetFrequency(c.Request().Context(), req.Value, req.Scale); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

func (s *server) handleSetFrequencyFromEntry(c echo.Context) error {
	var req worker.EntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	value := math.NaN()
	if req.Value != nil {
		value = *req.Value
	}
	if err := s.api.SetFrequencyFromEntry(c.Request().Context(), value); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

func (s *server) handleSetFrequencyFromSlider(c echo.Context) error {
	var req worker.SliderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.api.SetFrequencyFromSlider(c.Request().Context(), req.Position); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

func (s *server) handleSetFixedFrequency(c echo.Context) error {
	var req worker.PresetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.api.SetFixedFrequency(c.Request().Context(), req.Value); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

func (s *server) handleSetRangeIndex(c echo.Context) error {
	var req worker.RangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.api.SetRangeIndex(c.Request().Context(), req.Index); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

func (s *server) handleSetWaveform(c echo.Context) error {
	var req worker.WaveformRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if req.Cycle {
		if _, err := s.api.CycleWaveform(ctx); err != nil {
			return s.mapError(c, err)
		}
		return s.handleGetActual(c)
	}
	waveform, err := model.ParseWaveform(req.Waveform)
	if err != nil {
		return s.mapError(c, err)
	}
	if err := s.api.SetWaveform(ctx, waveform); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

func (s *server) handleSetOutputEnabled(c echo.Context) error {
	var req worker.OutputRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.api.SetOutputEnabled(c.Request().Context(), req.Enabled); err != nil {
		return s.mapError(c, err)
	}
	return s.handleGetActual(c)
}

// mapError converts service errors into HTTP errors.
func (s *server) mapError(c echo.Context, err error) error {
	switch {
	case model.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case model.IsUnsupportedWaveform(err):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Cause(err) == service.NoWorkerError:
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
