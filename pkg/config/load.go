package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/spacemark/pkg/errors"
)

//go:embed user.schema.json
var userSchema []byte

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPACEMARK_"

// Loader reads configuration. The zero value reads the default paths and
// the process environment.
type Loader struct {
	// Path is the TOML file. Empty means Dir()/config.toml, which may be
	// absent; an explicit Path must exist.
	Path string
	// EnvFile is loaded into the environment when present. Empty means
	// ".env".
	EnvFile string
	// LookupEnv replaces os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load reads configuration with the default [Loader].
func Load() (*Config, error) {
	return Loader{}.Load()
}

// Load merges every source into a validated [Config].
func (l Loader) Load() (*Config, error) {
	cfg := Default()

	path, explicit := l.Path, l.Path != ""
	if !explicit {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, FileName)
		}
	}
	if path != "" {
		if err := cfg.readTOML(path, explicit); err != nil {
			return nil, err
		}
		if err := cfg.readUserConfig(filepath.Join(filepath.Dir(path), UserConfigName)); err != nil {
			return nil, err
		}
	}

	envFile := l.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", envFile)
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readTOML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return nil
}

// UserConfig is the plugin's JSON settings file.
type UserConfig struct {
	FixedColor   string   `json:"fixedColor"`
	DynamicColor string   `json:"dynamicColor"`
	Formats      []string `json:"formats"`
	Scale        float64  `json:"scale"`
	ShowLayers   *bool    `json:"showLayers"`
}

// readUserConfig merges user.config when present. Line breaks are removed
// before parsing, as the plugin does.
func (c *Config) readUserConfig(path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	flat := strings.NewReplacer("\r", "", "\n", "").Replace(string(raw))
	uc, err := ParseUserConfig([]byte(flat))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if uc.FixedColor != "" {
		c.Colors.Fixed = uc.FixedColor
	}
	if uc.DynamicColor != "" {
		c.Colors.Dynamic = uc.DynamicColor
	}
	if len(uc.Formats) > 0 {
		c.Formats = uc.Formats
	}
	if uc.Scale > 0 {
		c.Scale = uc.Scale
	}
	if uc.ShowLayers != nil {
		c.ShowLayers = *uc.ShowLayers
	}
	return nil
}

var (
	userSchemaOnce     sync.Once
	userSchemaCompiled *jsonschema.Schema
	userSchemaErr      error
)

func compiledUserSchema() (*jsonschema.Schema, error) {
	userSchemaOnce.Do(func() {
		const url = "mem://user.schema.json"
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(url, bytes.NewReader(userSchema)); err != nil {
			userSchemaErr = err
			return
		}
		userSchemaCompiled, userSchemaErr = compiler.Compile(url)
	})
	if userSchemaErr != nil {
		return nil, fmt.Errorf("compile user.config schema: %w", userSchemaErr)
	}
	return userSchemaCompiled, nil
}

// ParseUserConfig validates data against the user.config schema and
// decodes it.
func ParseUserConfig(data []byte) (*UserConfig, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "user.config is not JSON")
	}

	schema, err := compiledUserSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "user.config")
	}

	var uc UserConfig
	if err := json.Unmarshal(data, &uc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "user.config")
	}
	return &uc, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("FIXED_COLOR", &c.Colors.Fixed)
	str("DYNAMIC_COLOR", &c.Colors.Dynamic)
	str("CACHE", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("CACHE_SCOPE", &c.Cache.Scope)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("ADDR", &c.Server.Addr)

	if v, ok := lookup(EnvPrefix + "FORMATS"); ok && v != "" {
		c.Formats = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPrefix + "SCALE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sSCALE", EnvPrefix)
		}
		c.Scale = f
	}
	if v, ok := lookup(EnvPrefix + "CONCURRENCY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sCONCURRENCY", EnvPrefix)
		}
		c.Concurrency = n
	}
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sREDIS_DB", EnvPrefix)
		}
		c.Cache.RedisDB = n
	}
	return nil
}
