//go:build !tinygo && !epaper

package hal

import (
	"context"
	"errors"
)

// EPaperConfig controls the Waveshare 2.13" e-paper runner.
type EPaperConfig struct {
	Host HostConfig
	SPI  string
	Hz   int
}

func RunEPaper(_ context.Context, _ func(HAL) func() error, _ EPaperConfig) error {
	return errors.New("e-paper mode requires the epaper build tag")
}
