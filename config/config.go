package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port            string
	DBPath          string
	Debug           bool
	DefaultLanguage string
	CORSOrigins     []string

	LLMProvider  string // openai|gemini|mock
	LLMEndpoint  string
	LLMAPIKey    string
	LLMModel     string
	GeminiAPIKey string
	GeminiModel  string

	EmbEndpoint string
	EmbAPIKey   string
	EmbModel    string

	KBAllowedDomains  []string
	KBMaxBytesPerPage int

	NewsSources         []string
	NewsRefreshInterval time.Duration

	CropTableXLSX       string
	StageConfigCSV      string
	FertilizerBagPrices string
	ChatRatePerMin      float64
	AdminToken          string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", "kisansetu.db")
	v.SetDefault("DEBUG", false)
	v.SetDefault("DEFAULT_LANGUAGE", "en")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LLM_PROVIDER", "")
	v.SetDefault("LLM_ENDPOINT", "")
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("EMB_ENDPOINT", "")
	v.SetDefault("EMB_API_KEY", "")
	v.SetDefault("EMB_MODEL", "text-embedding-3-small")
	v.SetDefault("KB_ALLOWED_DOMAINS", "icar.org.in,agricoop.nic.in,farmer.gov.in")
	v.SetDefault("KB_MAX_BYTES_PER_PAGE", 1500000)
	v.SetDefault("NEWS_SOURCES", "")
	v.SetDefault("NEWS_REFRESH_INTERVAL", 30*time.Minute)
	v.SetDefault("CROP_TABLE_XLSX", "")
	v.SetDefault("STAGE_CONFIG_CSV", "")
	v.SetDefault("FERTILIZER_BAG_PRICES", "")
	v.SetDefault("CHAT_RATE_PER_MIN", 20)
	v.SetDefault("ADMIN_TOKEN", "")
}

// Load reads .env when present, then the process environment.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()
	return v
}

func FromViper(v *viper.Viper) AppConfig {
	cfg := AppConfig{
		Port:                v.GetString("PORT"),
		DBPath:              v.GetString("DB_PATH"),
		Debug:               v.GetBool("DEBUG"),
		DefaultLanguage:     v.GetString("DEFAULT_LANGUAGE"),
		CORSOrigins:         splitList(v.GetString("CORS_ORIGINS")),
		LLMProvider:         strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMEndpoint:         v.GetString("LLM_ENDPOINT"),
		LLMAPIKey:           v.GetString("LLM_API_KEY"),
		LLMModel:            v.GetString("LLM_MODEL"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		GeminiModel:         v.GetString("GEMINI_MODEL"),
		EmbEndpoint:         v.GetString("EMB_ENDPOINT"),
		EmbAPIKey:           v.GetString("EMB_API_KEY"),
		EmbModel:            v.GetString("EMB_MODEL"),
		KBAllowedDomains:    splitList(strings.ToLower(v.GetString("KB_ALLOWED_DOMAINS"))),
		KBMaxBytesPerPage:   v.GetInt("KB_MAX_BYTES_PER_PAGE"),
		NewsSources:         splitList(v.GetString("NEWS_SOURCES")),
		NewsRefreshInterval: v.GetDuration("NEWS_REFRESH_INTERVAL"),
		CropTableXLSX:       v.GetString("CROP_TABLE_XLSX"),
		StageConfigCSV:      v.GetString("STAGE_CONFIG_CSV"),
		FertilizerBagPrices: v.GetString("FERTILIZER_BAG_PRICES"),
		ChatRatePerMin:      v.GetFloat64("CHAT_RATE_PER_MIN"),
		AdminToken:          v.GetString("ADMIN_TOKEN"),
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = cfg.inferProvider()
	}
	return cfg
}

// inferProvider picks the chat provider when LLM_PROVIDER is unset: an
// endpoint with an API key selects OpenAI-compatible, else a Gemini key
// selects Gemini, else the offline mock.
func (c AppConfig) inferProvider() string {
	switch {
	case c.LLMEndpoint != "" && c.LLMAPIKey != "":
		return "openai"
	case c.GeminiAPIKey != "":
		return "gemini"
	}
	return "mock"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
