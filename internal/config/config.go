package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/viper"
)

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server ServerConfig
	Vent   VentConfig
	AI     AIConfig
	Admin  AdminConfig
	Store  StoreConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// VentConfig bounds the in-memory room coordinator.
type VentConfig struct {
	MaxUsersPerRoom int
	HistoryLimit    int
	RecentDefault   int
	MaxMessageChars int
}

// AIConfig describes the companion model.
type AIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Region         string
	Temperature    float64
	MaxTokens      int
	StreamResponse bool
}

// AdminConfig gates the administrative surface.
type AdminConfig struct {
	Password       string
	TokenSecret    string
	SessionTimeout time.Duration
}

// StoreConfig locates the document store.
type StoreConfig struct {
	Path string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)

	v.SetDefault("vent.max_users_per_room", 5)
	v.SetDefault("vent.history_limit", 100)
	v.SetDefault("vent.recent_default", 50)
	v.SetDefault("vent.max_message_chars", 500)

	v.SetDefault("ai.base_url", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ai.region", "cn-beijing")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 0)
	v.SetDefault("ai.stream", true)

	v.SetDefault("admin.session_timeout_min", 30)

	v.SetDefault("store.path", "melo.db")

	v.BindEnv("server.port", "PORT")

	v.BindEnv("vent.max_users_per_room", "VENT_MAX_USERS_PER_ROOM")
	v.BindEnv("vent.history_limit", "VENT_HISTORY_LIMIT")
	v.BindEnv("vent.recent_default", "VENT_RECENT_DEFAULT")
	v.BindEnv("vent.max_message_chars", "VENT_MAX_MESSAGE_CHARS")

	v.BindEnv("ai.api_key", "ARK_API_KEY")
	v.BindEnv("ai.model", "ARK_MODEL")
	v.BindEnv("ai.base_url", "ARK_BASE_URL")
	v.BindEnv("ai.region", "ARK_REGION")
	v.BindEnv("ai.temperature", "ARK_TEMPERATURE")
	v.BindEnv("ai.max_tokens", "ARK_MAX_TOKENS")
	v.BindEnv("ai.stream", "ARK_STREAM")

	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("admin.token_secret", "ADMIN_TOKEN_SECRET")
	v.BindEnv("admin.session_timeout_min", "ADMIN_SESSION_TIMEOUT_MIN")

	v.BindEnv("store.path", "STORE_PATH")

	server, err := serverFromPort(strings.TrimSpace(v.GetString("server.port")))
	if err != nil {
		return nil, err
	}

	ventCfg := VentConfig{
		MaxUsersPerRoom: v.GetInt("vent.max_users_per_room"),
		HistoryLimit:    v.GetInt("vent.history_limit"),
		RecentDefault:   v.GetInt("vent.recent_default"),
		MaxMessageChars: v.GetInt("vent.max_message_chars"),
	}
	if ventCfg.MaxUsersPerRoom < 1 {
		return nil, fmt.Errorf("VENT_MAX_USERS_PER_ROOM must be at least 1, got %d", ventCfg.MaxUsersPerRoom)
	}
	if ventCfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("VENT_HISTORY_LIMIT must be at least 1, got %d", ventCfg.HistoryLimit)
	}

	ai := AIConfig{
		APIKey:         strings.TrimSpace(v.GetString("ai.api_key")),
		Model:          strings.TrimSpace(v.GetString("ai.model")),
		BaseURL:        v.GetString("ai.base_url"),
		Region:         v.GetString("ai.region"),
		Temperature:    v.GetFloat64("ai.temperature"),
		MaxTokens:      v.GetInt("ai.max_tokens"),
		StreamResponse: v.GetBool("ai.stream"),
	}

	admin := AdminConfig{
		Password:       v.GetString("admin.password"),
		TokenSecret:    v.GetString("admin.token_secret"),
		SessionTimeout: time.Duration(v.GetInt("admin.session_timeout_min")) * time.Minute,
	}
	if admin.Password != "" && admin.TokenSecret == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN_SECRET is required when ADMIN_PASSWORD is set")
	}

	return &Config{
		Server: server,
		Vent:   ventCfg,
		AI:     ai,
		Admin:  admin,
		Store:  StoreConfig{Path: v.GetString("store.path")},
	}, nil
}

func serverFromPort(port string) (ServerConfig, error) {
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}
	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}
	return ServerConfig{Addr: ":" + port}, nil
}

// Enabled reports whether the companion credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && c.APIKey != ""
}

// NewChatModel builds an Ark model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("companion model not configured: ARK_API_KEY and ARK_MODEL are required")
	}

	temperature := float32(c.Temperature)
	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: &temperature,
	}
	if c.MaxTokens > 0 {
		maxTokens := c.MaxTokens
		cfg.MaxTokens = &maxTokens
	}
	return ark.NewChatModel(ctx, cfg)
}

// Enabled reports whether the admin surface can be served.
func (c AdminConfig) Enabled() bool {
	return c.Password != "" && c.TokenSecret != ""
}
