package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8092", conf.Port)
	assert.Equal(t, "/liveness", conf.LivenessEndpoint)
	assert.Equal(t, 20*time.Second, conf.ReadHeaderTimeout)
	assert.Equal(t, currency.MustParseISO("COP"), conf.Currency)
	assert.Equal(t, language.MustParse("es-CO"), conf.Locale)
	assert.Equal(t, "60-M", conf.RateLimit)
	assert.Empty(t, conf.RedisAddr)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9100\nCURRENCY=USD\nCACHE_TTL=30s\n"), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("CURRENCY")
		os.Unsetenv("CACHE_TTL")
	})

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", conf.Port)
	assert.Equal(t, currency.USD, conf.Currency)
	assert.Equal(t, 30*time.Second, conf.CacheTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
