package session

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestTargetValid(t *testing.T) {
	tests := []struct {
		name  string
		tgt   Target
		valid bool
	}{
		{"cortex-m0plus", CortexM0Plus, true},
		{"cortex-m3", CortexM3, true},
		{"cortex-m4", CortexM4, true},
		{"unknown", Target("cortex-a53"), false},
		{"empty", Target(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.tgt.Valid())
		})
	}
}

func TestConfigLoggerDiscardsWithNilWriter(t *testing.T) {
	cfg := New(CortexM3)
	log := cfg.Logger(nil)

	assert.NotPanics(t, func() {
		log.Info("should be discarded silently")
	})
}

func TestConfigLoggerVerbosityLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		level     logrus.Level
	}{
		{0, logrus.WarnLevel},
		{1, logrus.InfoLevel},
		{2, logrus.DebugLevel},
		{5, logrus.DebugLevel},
	}

	for _, tt := range tests {
		cfg := New(CortexM3)
		cfg.Verbosity = tt.verbosity

		var buf bytes.Buffer

		log := cfg.Logger(&buf)
		assert.Equal(t, tt.level, log.GetLevel())
	}
}
