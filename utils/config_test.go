package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfsu2edit/types"
)

func write_ini(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.Backup)
	assert.Equal(t, types.NFSU2, cfg.Layout)
}

func TestLoadConfig_Values(t *testing.T) {
	path := write_ini(t, `
dir = /games/nfsu2
backup = false
log_level = debug
stash = elsewhere.tmp

[watch]
suffix = .sav

[layout]
money_offset = 0xA170
slot_count = 4
max_fill = 0x7f
magic = 32 30 43 4E
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/games/nfsu2", cfg.Dir)
	assert.False(t, cfg.Backup)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "elsewhere.tmp", cfg.Stash)
	assert.Equal(t, ".sav", cfg.WatchSuffix)

	want := types.NFSU2
	want.MoneyOffset = 0xA170
	want.SlotCount = 4
	want.MaxFill = 0x7F
	want.Magic = [4]byte{0x32, 0x30, 0x43, 0x4E}
	assert.Equal(t, want, cfg.Layout)
}

func TestLoadConfig_BadLayout(t *testing.T) {
	for _, body := range []string{
		"[layout]\nmoney_offset = lots\n",
		"[layout]\nslot_count = 0\n",
		"[layout]\nperf_offset = 0x7F0\n",
		"[layout]\nmagic = 32 30\n",
		"[layout]\nmax_fill = 256\n",
		"backup = perhaps\n",
	} {
		_, err := LoadConfig(write_ini(t, body))
		assert.Error(t, err, body)
	}
}

func TestNewLogger(t *testing.T) {
	buf := bytes.Buffer{}
	log := NewLogger("", &buf)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("quiet")
	log.Warn().Str("file", "x").Msg("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.True(t, strings.Contains(buf.String(), "loud"))

	assert.Equal(t, zerolog.DebugLevel, NewLogger("DEBUG", &buf).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, NewLogger("chatty", &buf).GetLevel())
}
