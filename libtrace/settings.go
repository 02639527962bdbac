package libtrace

import (
	"errors"
	"fmt"
)

type Settings struct {
	RayDepth        int     `yaml:"ray_depth"`
	SamplesPerPixel int     `yaml:"samples_per_pixel"`
	FocalLength     float32 `yaml:"focal_length"`
	// Thin lens radius, zero is a pinhole camera
	Aperture    float32 `yaml:"aperture"`
	SkyStrength float32 `yaml:"sky_strength"`
}

func DefaultSettings() Settings {
	return Settings{
		RayDepth:        12,
		SamplesPerPixel: 5,
		FocalLength:     20,
		SkyStrength:     1,
	}
}

var ErrInvalidSettings = errors.New("invalid path tracer settings")

func (s Settings) Validate() error {
	if s.RayDepth < 1 {
		return fmt.Errorf("%w: ray depth %d", ErrInvalidSettings, s.RayDepth)
	}
	if s.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidSettings, s.SamplesPerPixel)
	}
	if s.FocalLength <= 0 {
		return fmt.Errorf("%w: focal length %v", ErrInvalidSettings, s.FocalLength)
	}
	if s.Aperture < 0 || s.SkyStrength < 0 {
		return fmt.Errorf("%w: aperture %v, sky strength %v", ErrInvalidSettings, s.Aperture, s.SkyStrength)
	}
	return nil
}
