package common

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/ai-verse-processor/logger"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type History struct {
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisURL   string `yaml:"redis_url"`
	RedisKey   string `yaml:"redis_prefix"`
}

type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Settings struct {
	Provider   string          `yaml:"provider"`
	Model      string          `yaml:"model"`
	APITimeout int             `yaml:"api_timeout"` // in seconds
	MaxTokens  int             `yaml:"max_tokens"`
	RetryMax   int             `yaml:"retry_max"`
	Processor  ProcessorConfig `yaml:"processor"`
	History    History         `yaml:"history"`
	Server     Server          `yaml:"server"`
}

var settingsFilenames = []string{"verses.yml", "verses.yaml"}

func WithDefaultSettings() Settings {
	return Settings{
		Provider:   ProviderGemini,
		Model:      "gemini-2.5-flash",
		APITimeout: 60,
		MaxTokens:  8192,
		RetryMax:   0,
		Processor:  DefaultProcessorConfig(),
		History: History{
			Backend:    BackendFile,
			Dir:        defaultDataDir(),
			SQLitePath: filepath.Join(defaultDataDir(), "history.db"),
			RedisKey:   "verse-processor:",
		},
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".verse-processor"
	}
	return filepath.Join(home, ".verse-processor")
}

// WithYamlFile loads settings from path, or when path is empty from the first
// verses.yml found in the current directory or its subdirectories.
// Missing or unreadable files fall back to defaults.
func WithYamlFile(path string) Settings {
	settings := WithDefaultSettings()

	filePath := path
	if filePath == "" {
		filePath = findSettingsFile()
	}

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			logger.Infof("Failed to read settings file %s: %v", filePath, err)
		} else if err := yaml.Unmarshal(data, &settings); err != nil {
			logger.Infof("Failed to parse YAML file %s: %v", filePath, err)
			settings = WithDefaultSettings()
		} else {
			logger.Infof("Using settings from YAML file: %s", filePath)
		}
	} else {
		logger.Debugf("No YAML file found in the current directory or subdirectories. Using default settings.")
	}

	if settings.Processor.OutputMode == "" {
		settings.Processor.OutputMode = OutputBoth
	}
	if settings.Processor.JSONKey == "" {
		settings.Processor.JSONKey = DefaultJSONKey
	}

	return settings
}

func findSettingsFile() string {
	for _, name := range settingsFilenames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	var filePath string
	filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if filePath != "" {
			return filepath.SkipDir
		}
		for _, name := range settingsFilenames {
			if !info.IsDir() && info.Name() == name {
				filePath = path
				return filepath.SkipDir
			}
		}
		return nil
	})
	return filePath
}

// ApplyEnv overrides settings with values from the environment
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		s.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("HISTORY_BACKEND"); v != "" {
		s.History.Backend = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		s.History.RedisURL = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				s.Server.AllowedOrigins = append(s.Server.AllowedOrigins, origin)
			}
		}
	}
}
