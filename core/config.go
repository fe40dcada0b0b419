package core

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Storage engines
const (
	EngineJSON   = "json"
	EngineBolt   = "bolt"
	EngineSQLite = "sqlite"
	EngineMemory = "memory"
)

type (
	StorageConfig struct {
		Engine string
		Path   string // file or directory, depending on Engine
	}

	ScoresConfig struct {
		Min int
		Max int
	}

	AccountsConfig struct {
		DuplicatePolicy string // reject | overwrite
	}

	SecurityConfig struct {
		PasswordHasher string // sha256 | bcrypt
		PasswordPolicy string // basic | strict
		BcryptCost     int
	}

	AnalysisConfig struct {
		OverallPolicy string // total | mean
	}

	LogConfig struct {
		Level string
		File  string // "-" for stderr, "off" to disable
	}

	Config struct {
		AppName  string
		DataDir  string
		Storage  StorageConfig
		Scores   ScoresConfig
		Accounts AccountsConfig
		Security SecurityConfig
		Analysis AnalysisConfig
		Log      LogConfig
	}
)

// NewViper returns a viper instance loaded with defaults and, when configFile is set, the file's values.
// Environment variables are intentionally not consulted.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("app_name", "StudyBuddy")
	v.SetDefault("data_dir", "data")
	v.SetDefault("storage.engine", EngineJSON)
	v.SetDefault("storage.path", "")
	v.SetDefault("scores.min", 0)
	v.SetDefault("scores.max", 100)
	v.SetDefault("accounts.duplicate_policy", "reject")
	v.SetDefault("security.password_hasher", "sha256")
	v.SetDefault("security.password_policy", "basic")
	v.SetDefault("security.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("analysis.overall_policy", "total")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", configFile)
		}
	}
	return v, nil
}

// NewConfig builds a validated Config out of v.
func NewConfig(v *viper.Viper) (*Config, error) {
	conf := &Config{
		AppName: v.GetString("app_name"),
		DataDir: v.GetString("data_dir"),
		Storage: StorageConfig{
			Engine: CleanString(v.GetString("storage.engine"), true),
			Path:   v.GetString("storage.path"),
		},
		Scores: ScoresConfig{
			Min: v.GetInt("scores.min"),
			Max: v.GetInt("scores.max"),
		},
		Accounts: AccountsConfig{
			DuplicatePolicy: CleanString(v.GetString("accounts.duplicate_policy"), true),
		},
		Security: SecurityConfig{
			PasswordHasher: CleanString(v.GetString("security.password_hasher"), true),
			PasswordPolicy: CleanString(v.GetString("security.password_policy"), true),
			BcryptCost:     v.GetInt("security.bcrypt_cost"),
		},
		Analysis: AnalysisConfig{
			OverallPolicy: CleanString(v.GetString("analysis.overall_policy"), true),
		},
		Log: LogConfig{
			Level: CleanString(v.GetString("log.level"), true),
			File:  v.GetString("log.file"),
		},
	}

	switch conf.Storage.Engine {
	case EngineJSON:
		if conf.Storage.Path == "" {
			conf.Storage.Path = conf.DataDir
		}
	case EngineBolt:
		if conf.Storage.Path == "" {
			conf.Storage.Path = filepath.Join(conf.DataDir, "studybuddy.db")
		}
	case EngineSQLite:
		if conf.Storage.Path == "" {
			conf.Storage.Path = filepath.Join(conf.DataDir, "studybuddy.sqlite")
		}
	case EngineMemory:
	default:
		return nil, errors.Errorf("config: unknown storage engine %q", conf.Storage.Engine)
	}

	if conf.Scores.Min > conf.Scores.Max {
		return nil, errors.Errorf("config: scores.min (%d) is greater than scores.max (%d)", conf.Scores.Min, conf.Scores.Max)
	}
	if !oneOf(conf.Accounts.DuplicatePolicy, "reject", "overwrite") {
		return nil, errors.Errorf("config: unknown accounts.duplicate_policy %q", conf.Accounts.DuplicatePolicy)
	}
	if !oneOf(conf.Security.PasswordHasher, "sha256", "bcrypt") {
		return nil, errors.Errorf("config: unknown security.password_hasher %q", conf.Security.PasswordHasher)
	}
	if !oneOf(conf.Security.PasswordPolicy, "basic", "strict") {
		return nil, errors.Errorf("config: unknown security.password_policy %q", conf.Security.PasswordPolicy)
	}
	if conf.Security.BcryptCost < bcrypt.MinCost || conf.Security.BcryptCost > bcrypt.MaxCost {
		return nil, errors.Errorf("config: security.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if !oneOf(conf.Analysis.OverallPolicy, "total", "mean") {
		return nil, errors.Errorf("config: unknown analysis.overall_policy %q", conf.Analysis.OverallPolicy)
	}
	if conf.Log.File == "" {
		conf.Log.File = filepath.Join(conf.DataDir, "studybuddy.log")
	}
	return conf, nil
}

func oneOf(s string, choices ...string) bool {
	for _, c := range choices {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}
