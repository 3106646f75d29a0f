package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(oldLevel)
	defer Init(Config{})

	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})

	l := With("checkin")
	l.Debug().Uint64("user_id", 7).Msg("located")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "checkin", entry["component"])
	assert.Equal(t, "located", entry["message"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestLevelFiltering(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(oldLevel)
	defer Init(Config{})

	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})

	Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zerolog.Disabled, parseLevel("off"))
}
