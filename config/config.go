package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/tieubaoca/consent-draft-be/types"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	UploadDir           string              `mapstructure:"upload_dir"`
	JobsFile            string              `mapstructure:"jobs_file"`
	CacheDir            string              `mapstructure:"cache_dir"`
	Provider            string              `mapstructure:"provider"` // "openai" or "gemini"
	AIEndpoint          string              `mapstructure:"ai_endpoint"`
	Model               string              `mapstructure:"model"`
	EmbeddingModel      string              `mapstructure:"embedding_model"`
	OpenAIAPIKey        string              `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys       []string            `mapstructure:"gemini_api_keys"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
	Chunker             ChunkerConfig       `mapstructure:"chunker"`
	RetrievalTopK       int                 `mapstructure:"retrieval_top_k"`
	SectionTimeoutSecs  int                 `mapstructure:"section_timeout_seconds"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
}

type ChunkerConfig struct {
	MaxChunkTokens int `mapstructure:"max_chunk_tokens"`
	OverlapTokens  int `mapstructure:"overlap_tokens"`
}

// SplitterConfig translates the chunker section into the shape the
// splitter consumes.
func (c *Config) SplitterConfig() types.ChunkerConfig {
	return types.ChunkerConfig{
		MaxChunkTokens: c.Chunker.MaxChunkTokens,
		OverlapTokens:  c.Chunker.OverlapTokens,
	}
}

// SectionTimeout converts the configured seconds into a duration,
// falling back to a default that keeps a hung backend call from
// stalling a session forever.
func (c *Config) SectionTimeout() time.Duration {
	if c.SectionTimeoutSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SectionTimeoutSecs) * time.Second
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")

	v.SetDefault("provider", "openai")
	v.SetDefault("upload_dir", "uploaded_files")
	v.SetDefault("jobs_file", "data/file_status.json")
	v.SetDefault("cache_dir", "data/embedding_cache")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("chunker.max_chunk_tokens", 2000)
	v.SetDefault("chunker.overlap_tokens", 200)
	v.SetDefault("retrieval_top_k", 15)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
