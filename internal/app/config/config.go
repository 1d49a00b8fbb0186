// Package config загружает конфигурацию оркестратора nag из переменных
// окружения и, если указан, из YAML-файла.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/aseptimu/nag/pkg/host"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

var (
	ErrLinterDir  = errors.New("malformed linter directory")
	ErrConfigFile = errors.New("invalid config file")
)

type ConfigType struct {
	LinterDir      string   `env:"NAG_LINTER_DIR,required" validate:"required,dir"`
	Compiler       string   `env:"NAG_COMPILER" envDefault:"go" validate:"required"`
	BuildTool      string   `env:"NAG_BUILD_TOOL" envDefault:"go" validate:"required"`
	PassthroughEnv []string `env:"NAG_PASSTHROUGH_ENV" envSeparator:"," envDefault:"LD_LIBRARY_PATH"`
	GateEnv        string   `env:"NAG_GATE_ENV" envDefault:"GOFLAGS" validate:"required"`
	GateValue      string   `env:"NAG_GATE_VALUE" envDefault:"-mod=mod"`
	WorkDir        string   `env:"NAG_WORK_DIR"`
	ConfigFile     string   `env:"NAG_CONFIG_FILE" validate:"omitempty,file"`
	LogLevel       string   `env:"NAG_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// LinterModule - путь модуля, в котором лежит LinterDir.
	LinterModule string
	// Levels - уровни проверок из файла конфигурации.
	Levels map[string]host.Level
}

// fileConfig - формат YAML-файла.
type fileConfig struct {
	Checks         map[string]string `yaml:"checks"`
	PassthroughEnv []string          `yaml:"passthrough_env"`
}

// NewConfig читает конфигурацию из окружения процесса.
func NewConfig() (*ConfigType, error) {
	return Load(env.Options{})
}

// Load читает конфигурацию с заданными опциями env (в тестах -
// подменённое окружение).
func Load(opts env.Options) (*ConfigType, error) {
	config := ConfigType{}
	if err := env.ParseWithOptions(&config, opts); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&config); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	dir, err := filepath.Abs(config.LinterDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLinterDir, err)
	}
	config.LinterDir = dir

	module, err := findModule(dir)
	if err != nil {
		return nil, err
	}
	config.LinterModule = module

	if config.ConfigFile != "" {
		if err := config.loadFile(config.ConfigFile); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// findModule ищет go.mod от dir вверх и возвращает путь модуля.
func findModule(dir string) (string, error) {
	for d := dir; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			module := modfile.ModulePath(data)
			if module == "" {
				return "", fmt.Errorf("%w: %s/go.mod has no module directive", ErrLinterDir, d)
			}
			return module, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", ErrLinterDir, err)
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("%w: %s is not inside a Go module", ErrLinterDir, dir)
		}
		d = parent
	}
}

func (c *ConfigType) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
	}

	c.Levels = make(map[string]host.Level, len(fc.Checks))
	for name, value := range fc.Checks {
		if !host.ValidName(name) {
			return fmt.Errorf("%w: invalid check name %q", ErrConfigFile, name)
		}
		level, err := host.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("%w: check %s: %w", ErrConfigFile, name, err)
		}
		c.Levels[name] = level
	}

	for _, name := range fc.PassthroughEnv {
		if name != "" && !slices.Contains(c.PassthroughEnv, name) {
			c.PassthroughEnv = append(c.PassthroughEnv, name)
		}
	}
	return nil
}

// LevelFlags превращает уровни из файла в флаги vet-инструмента,
// отсортированные по имени проверки.
func (c *ConfigType) LevelFlags() []string {
	names := slices.Sorted(maps.Keys(c.Levels))
	flags := make([]string, 0, len(names))
	for _, name := range names {
		flags = append(flags, fmt.Sprintf("-%s=%s", c.Levels[name], name))
	}
	return flags
}
