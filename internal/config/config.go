package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	LLM     LLMConfig
	Extract ExtractConfig
	Quiz    QuizConfig
	Redis   RedisConfig
	Logger  LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Path          string // sqlite database file
	MigrationsDir string
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type ExtractConfig struct {
	MaxChars int
}

type QuizConfig struct {
	DefaultNumQuestions int
	DefaultTimeMinutes  int
	CacheTTL            time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("db.path", "quiz.db")
	viper.SetDefault("db.migrations_dir", "database/migrations")
	viper.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("llm.model", "llama-3.1-8b-instant")
	viper.SetDefault("llm.temperature", 0.4)
	viper.SetDefault("llm.timeout", 30)
	viper.SetDefault("extract.max_chars", 12000)
	viper.SetDefault("quiz.default_num_questions", 5)
	viper.SetDefault("quiz.default_time_minutes", 5)
	viper.SetDefault("quiz.cache_ttl", 300)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  secondsDuration("server.read_timeout"),
			WriteTimeout: secondsDuration("server.write_timeout"),
		},
		DB: DBConfig{
			Path:          viper.GetString("db.path"),
			MigrationsDir: viper.GetString("db.migrations_dir"),
		},
		LLM: LLMConfig{
			APIKey:      viper.GetString("llm.api_key"),
			BaseURL:     viper.GetString("llm.base_url"),
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			Timeout:     secondsDuration("llm.timeout"),
		},
		Extract: ExtractConfig{
			MaxChars: viper.GetInt("extract.max_chars"),
		},
		Quiz: QuizConfig{
			DefaultNumQuestions: viper.GetInt("quiz.default_num_questions"),
			DefaultTimeMinutes:  viper.GetInt("quiz.default_time_minutes"),
			CacheTTL:            secondsDuration("quiz.cache_ttl"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		config.DB.Path = path
	}
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}

// secondsDuration reads a timeout key declared as an integer number of
// seconds. Reading through GetInt keeps a duration-formatted value like "20s"
// from being multiplied by time.Second into an overflowed duration.
func secondsDuration(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Second
}

// GetDSN returns the sqlite DSN for the configured database file.
func (c *Config) GetDSN() string {
	// busy_timeout makes concurrent submits wait on the writer instead of
	// failing with SQLITE_BUSY; foreign_keys enforces quiz ownership.
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", c.DB.Path)
}
