package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "nivel %q", in)
	}
}

func TestNew_JSONConNivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Out: &buf}).Named("ledger")

	log.Debug().Msg("oculto")
	log.Info().Str("article_id", "a1").Msg("movimiento aplicado")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "a1", entry["article_id"])
	assert.Equal(t, "movimiento aplicado", entry["message"])
}
