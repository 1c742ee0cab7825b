package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the run settings. Report definitions are compiled in and are
// not part of it.
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
	Console ConsoleConfig `mapstructure:"console"`
}

type InputConfig struct {
	Path    string `mapstructure:"path"` // empty: the profile's default file
	Profile string `mapstructure:"profile" validate:"required,oneof=demographics structure"`
}

type OutputConfig struct {
	Dir       string  `mapstructure:"dir" validate:"required"`
	CreateDir bool    `mapstructure:"create_dir"`
	Width     float64 `mapstructure:"width" validate:"gt=0"`  // inches
	Height    float64 `mapstructure:"height" validate:"gt=0"` // inches
	Workbook  bool    `mapstructure:"workbook"`
	Summary   bool    `mapstructure:"summary"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type ConsoleConfig struct {
	Print bool `mapstructure:"print"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"input":      "input.path",
	"profile":    "input.profile",
	"output":     "output.dir",
	"mkdir":      "output.create_dir",
	"width":      "output.width",
	"height":     "output.height",
	"workbook":   "output.workbook",
	"summary-md": "output.summary",
	"log-level":  "log.level",
	"log-format": "log.format",
	"print":      "console.print",
}

// LoadConfig resolves configuration from, in increasing priority:
// 1. defaults
// 2. config.yaml in dir
// 3. .env in dir and the process environment (DEMOGRAFIA_ prefix)
// 4. command-line flags that were set explicitly
func LoadConfig(dir string, flags *pflag.FlagSet) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, configError("reading config.yaml", err)
		}
	}

	v.SetEnvPrefix("DEMOGRAFIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, configError("binding flag "+name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configError("decoding config", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, configError("invalid config", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "")
	v.SetDefault("input.profile", demographicsProfile.Name)
	v.SetDefault("output.dir", "graphs")
	v.SetDefault("output.create_dir", false)
	v.SetDefault("output.width", 10.0)
	v.SetDefault("output.height", 6.0)
	v.SetDefault("output.workbook", true)
	v.SetDefault("output.summary", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("console.print", true)
}

// RegisterFlags declares the command-line flags that LoadConfig binds.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("input", "", "Input CSV file (env: DEMOGRAFIA_INPUT_PATH, default: the profile's file)")
	flags.String("profile", demographicsProfile.Name, "Report profile: demographics or structure (env: DEMOGRAFIA_INPUT_PROFILE)")
	flags.String("output", "graphs", "Directory for charts and reports (env: DEMOGRAFIA_OUTPUT_DIR)")
	flags.Bool("mkdir", false, "Create the output directory if it does not exist (env: DEMOGRAFIA_OUTPUT_CREATE_DIR)")
	flags.Float64("width", 10, "Chart width in inches (env: DEMOGRAFIA_OUTPUT_WIDTH)")
	flags.Float64("height", 6, "Chart height in inches (env: DEMOGRAFIA_OUTPUT_HEIGHT)")
	flags.Bool("workbook", true, "Write the aggregates workbook (env: DEMOGRAFIA_OUTPUT_WORKBOOK)")
	flags.Bool("summary-md", true, "Write the markdown summary (env: DEMOGRAFIA_OUTPUT_SUMMARY)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error (env: DEMOGRAFIA_LOG_LEVEL)")
	flags.String("log-format", "console", "Log format: console or json (env: DEMOGRAFIA_LOG_FORMAT)")
	flags.Bool("print", true, "Print grouped sums to stdout (env: DEMOGRAFIA_CONSOLE_PRINT)")
}

// InputPath returns the configured input file, falling back to the
// profile's default.
func (c *Config) InputPath(profile Profile) string {
	if c.Input.Path != "" {
		return c.Input.Path
	}
	return profile.Input
}
