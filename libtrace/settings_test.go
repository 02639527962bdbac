package libtrace_test

import (
	"testing"

	"compgraph/libtrace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultSettings(t *testing.T) {
	s := libtrace.DefaultSettings()
	assert.Equal(t, 12, s.RayDepth)
	assert.Equal(t, 5, s.SamplesPerPixel)
	assert.Equal(t, float32(20), s.FocalLength)
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := map[string]func(s *libtrace.Settings){
		"depth":    func(s *libtrace.Settings) { s.RayDepth = 0 },
		"samples":  func(s *libtrace.Settings) { s.SamplesPerPixel = -1 },
		"focal":    func(s *libtrace.Settings) { s.FocalLength = 0 },
		"aperture": func(s *libtrace.Settings) { s.Aperture = -0.1 },
		"sky":      func(s *libtrace.Settings) { s.SkyStrength = -1 },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			s := libtrace.DefaultSettings()
			modify(&s)
			assert.ErrorIs(t, s.Validate(), libtrace.ErrInvalidSettings)
		})
	}
}

func TestSettingsYaml(t *testing.T) {
	s := libtrace.DefaultSettings()
	require.NoError(t, yaml.Unmarshal([]byte("ray_depth: 4\naperture: 0.05\n"), &s))
	assert.Equal(t, 4, s.RayDepth)
	assert.Equal(t, float32(0.05), s.Aperture)
	assert.Equal(t, 5, s.SamplesPerPixel)
}
