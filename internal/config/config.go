package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Exam      ExamConfig      `mapstructure:"exam"`
	Redis     RedisConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// ExamConfig 考试引擎的业务参数。TokenTTL 兼作会话超时，需要对
// 实例间时钟偏移留足余量，分钟级窗口即可
type ExamConfig struct {
	QuestionCount         int           `mapstructure:"question_count"`          // 资格考试抽题数
	PracticeSingleCount   int           `mapstructure:"practice_single_count"`   // 练习卷单选题数
	PracticeMultipleCount int           `mapstructure:"practice_multiple_count"` // 练习卷多选题数
	TokenTTL              time.Duration `mapstructure:"token_ttl_seconds"`
	PassScore             float64       `mapstructure:"pass_score"` // 百分制及格线
	LeaderboardSize       int           `mapstructure:"leaderboard_size"`
	CaseInsensitive       bool          `mapstructure:"case_insensitive"` // 判题是否忽略大小写
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("HERITAGE")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// 考试参数默认值，对应原平台的 20 题 / 60 分及格 / 15 分钟
	viper.SetDefault("exam.question_count", 20)
	viper.SetDefault("exam.practice_single_count", 6)
	viper.SetDefault("exam.practice_multiple_count", 4)
	viper.SetDefault("exam.token_ttl_seconds", 900)
	viper.SetDefault("exam.pass_score", 60.0)
	viper.SetDefault("exam.leaderboard_size", 5)
	viper.SetDefault("exam.case_insensitive", false)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Exam.TokenTTL = cfg.Exam.TokenTTL * time.Second

	if err := cfg.Exam.Validate(); err != nil {
		return nil, err
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}

func (e *ExamConfig) Validate() error {
	if e.QuestionCount <= 0 {
		return fmt.Errorf("exam.question_count must be positive, got %d", e.QuestionCount)
	}
	if e.PracticeSingleCount < 0 || e.PracticeMultipleCount < 0 ||
		e.PracticeSingleCount+e.PracticeMultipleCount == 0 {
		return fmt.Errorf("practice paper needs at least one question")
	}
	if e.TokenTTL <= 0 {
		return fmt.Errorf("exam.token_ttl_seconds must be positive")
	}
	if e.PassScore < 0 || e.PassScore > 100 {
		return fmt.Errorf("exam.pass_score must be within [0,100], got %v", e.PassScore)
	}
	if e.LeaderboardSize <= 0 {
		return fmt.Errorf("exam.leaderboard_size must be positive")
	}
	return nil
}
