package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/ambient"
	"scancam/internal/camera"
	"scancam/internal/config"
	"scancam/internal/decode"
	"scancam/internal/geometry"
	"scancam/internal/scanner"
	"scancam/internal/simdevice"
	"scancam/internal/v4l2dev"
)

// simOptions tune the simulated camera used when the device is "sim".
type simOptions struct {
	markEvery int
	text      string
}

// buildService wires the camera manager, decode configuration and ambient
// controller described by cfg.
func buildService(cfg config.Config, sim simOptions, rescan time.Duration, log zerolog.Logger) (*scanner.Service, error) {
	mode, err := ambient.ParseFrontLightMode(cfg.Ambient.FrontLightMode)
	if err != nil {
		return nil, err
	}
	formats, err := decode.ParseFormats(cfg.Decode.Formats)
	if err != nil {
		return nil, err
	}

	var (
		opener  camera.Opener
		decoder decode.Decoder
		sensors ambient.SensorSource
	)
	if cfg.Device == config.DefaultDevice {
		opener = simdevice.NewOpener(simdevice.Options{MarkEvery: sim.markEvery, Logger: &log})
		decoder = simdevice.Decoder{Text: sim.text}
		if len(cfg.Ambient.SimReadings) > 0 {
			sensors = simdevice.Source(simdevice.NewLightSensor(0, cfg.Ambient.SimReadings...))
		}
	} else {
		opener = v4l2dev.Opener{Path: cfg.Device, Options: v4l2dev.Options{Logger: &log}}
		log.Warn().Str("device", cfg.Device).Msg("no barcode decoder linked; frames are requested but never decoded")
	}

	screen := geometry.NewSize(cfg.Screen.Width, cfg.Screen.Height)
	cam := camera.NewWithConfig(camera.Config{
		Opener:            opener,
		Provider:          camera.NewConfigurationManager(camera.FixedDisplay(screen), mode.TorchOnStart(), &log),
		AutoFocusInterval: cfg.Camera.AutoFocusInterval.Std(),
		FramingFraction:   cfg.Camera.FramingFraction,
		Logger:            &log,
	})
	if w, h := cfg.Camera.ManualFramingWidth, cfg.Camera.ManualFramingHeight; w > 0 && h > 0 {
		cam.SetManualFramingRect(w, h)
	}

	amb := ambient.New(ambient.Config{
		Mode:            mode,
		TooDarkLux:      cfg.Ambient.TooDarkLux,
		BrightEnoughLux: cfg.Ambient.BrightEnoughLux,
		Sensors:         sensors,
		Logger:          &log,
	})

	dc := decode.Config{
		Formats: formats,
		Preferences: decode.Preferences{
			Decode1D:         *cfg.Decode.Decode1D,
			DecodeQR:         *cfg.Decode.DecodeQR,
			DecodeDataMatrix: *cfg.Decode.DecodeDataMatrix,
		},
		CharacterSet:   cfg.Decode.CharacterSet,
		Decoder:        decoder,
		// Preview rects are always projected into the portrait frame, so a
		// landscape sensor frame is turned upright whatever the display says.
		RotatePortrait: true,
		Logger:         &log,
	}
	if len(dc.Preferences.Formats()) == 0 && len(formats) == 0 {
		return nil, fmt.Errorf("no barcode formats enabled")
	}

	return scanner.New(scanner.Config{
		Camera:      cam,
		Decode:      dc,
		Ambient:     amb,
		RescanDelay: rescan,
		Logger:      &log,
	}), nil
}
