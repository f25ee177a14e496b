package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newViper())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "kisansetu.db", cfg.DBPath)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, "mock", cfg.LLMProvider)
	assert.Equal(t, 30*time.Minute, cfg.NewsRefreshInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.KBAllowedDomains, "icar.org.in")
	assert.Empty(t, cfg.NewsSources)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NEWS_SOURCES", "https://a.example/news, https://b.example/feed ,")
	t.Setenv("NEWS_REFRESH_INTERVAL", "5m")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("DEBUG", "true")
	t.Setenv("FERTILIZER_BAG_PRICES", "urea=300")

	cfg := FromViper(newViper())
	assert.Equal(t, "urea=300", cfg.FertilizerBagPrices)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example/news", "https://b.example/feed"}, cfg.NewsSources)
	assert.Equal(t, 5*time.Minute, cfg.NewsRefreshInterval)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.True(t, cfg.Debug)
}

func TestFromViper_ExplicitProviderWins(t *testing.T) {
	t.Setenv("LLM_ENDPOINT", "http://llm.local")
	t.Setenv("LLM_API_KEY", "k")
	t.Setenv("LLM_PROVIDER", "MOCK")

	cfg := FromViper(newViper())
	assert.Equal(t, "mock", cfg.LLMProvider)
}
