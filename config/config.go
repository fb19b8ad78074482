// Package config loads the damap settings from an optional damap.yaml and
// DAMAP_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dhamidi/damap/extract"
)

var log = commonlog.GetLogger("damap.config")

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "damap.yaml"

type Config struct {
	Mapper  MapperConfig  `mapstructure:"mapper"`
	Extract ExtractConfig `mapstructure:"extract"`
	Source  SourceConfig  `mapstructure:"source"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Output  OutputConfig  `mapstructure:"output"`
}

// MapperConfig names what makes a class a mapper. Interfaces are written
// as qualified.Name#method or qualified.Name#method/arity.
type MapperConfig struct {
	Annotation           string   `mapstructure:"annotation"`
	Interface            string   `mapstructure:"interface"`
	FunctionalInterfaces []string `mapstructure:"functional_interfaces"`
}

type ExtractConfig struct {
	Workers     int      `mapstructure:"workers"`
	ExcludeDirs []string `mapstructure:"exclude_dirs"`
	All         bool     `mapstructure:"all"`
}

// SourceConfig lists the encodings tried, in order, for files that are not
// valid UTF-8.
type SourceConfig struct {
	Encodings []string `mapstructure:"encodings"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

var Formats = []string{"json", "yaml", "line"}

// Load reads the configuration at path. An empty path looks for
// damap.yaml in the working directory and falls back to the defaults when
// there is none; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DAMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		log.Debugf("no %s found, using defaults", path)
	} else {
		log.Infof("loaded config from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	rules := extract.DefaultRules()
	v.SetDefault("mapper.annotation", rules.MapperAnnotation)
	v.SetDefault("mapper.interface", formatRule(rules.MappingInterface))
	functional := make([]string, len(rules.FunctionalInterfaces))
	for i, r := range rules.FunctionalInterfaces {
		functional[i] = formatRule(r)
	}
	v.SetDefault("mapper.functional_interfaces", functional)

	v.SetDefault("extract.workers", 0)
	v.SetDefault("extract.exclude_dirs", []string{".git", ".svn", "target", "build", "out", "node_modules"})
	v.SetDefault("extract.all", false)

	v.SetDefault("source.encodings", []string{"utf-8", "windows-1252"})

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", filepath.Join(".damap", "cache.db"))

	v.SetDefault("output.format", "json")
}

// Validate checks the names and choices the rest of the program relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mapper.Annotation) == "" {
		return fmt.Errorf("mapper.annotation cannot be empty")
	}
	if _, err := parseRule(c.Mapper.Interface); err != nil {
		return fmt.Errorf("mapper.interface: %w", err)
	}
	for _, s := range c.Mapper.FunctionalInterfaces {
		if _, err := parseRule(s); err != nil {
			return fmt.Errorf("mapper.functional_interfaces: %w", err)
		}
	}
	if c.Extract.Workers < 0 {
		return fmt.Errorf("extract.workers must not be negative, got %d", c.Extract.Workers)
	}
	for _, name := range c.Source.Encodings {
		if _, err := htmlindex.Get(name); err != nil {
			return fmt.Errorf("source.encodings: unknown encoding %q", name)
		}
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache.path cannot be empty when the cache is enabled")
	}
	if !IsFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format)
	}
	return nil
}

func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// Rules converts the mapper section into extraction rules.
func (c *Config) Rules() (extract.Rules, error) {
	mapping, err := parseRule(c.Mapper.Interface)
	if err != nil {
		return extract.Rules{}, fmt.Errorf("mapper.interface: %w", err)
	}
	rules := extract.Rules{
		MapperAnnotation: strings.TrimSpace(c.Mapper.Annotation),
		MappingInterface: mapping,
	}
	for _, s := range c.Mapper.FunctionalInterfaces {
		r, err := parseRule(s)
		if err != nil {
			return extract.Rules{}, fmt.Errorf("mapper.functional_interfaces: %w", err)
		}
		rules.FunctionalInterfaces = append(rules.FunctionalInterfaces, r)
	}
	return rules, nil
}

// ShouldExclude reports whether a directory is skipped when walking a tree.
func (c *Config) ShouldExclude(dir string) bool {
	base := filepath.Base(dir)
	for _, pattern := range c.Extract.ExcludeDirs {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func parseRule(s string) (extract.InterfaceRule, error) {
	s = strings.TrimSpace(s)
	name, method, ok := strings.Cut(s, "#")
	if !ok || name == "" || method == "" {
		return extract.InterfaceRule{}, fmt.Errorf("%q is not of the form qualified.Name#method", s)
	}
	rule := extract.InterfaceRule{QualifiedName: name, Method: method, Arity: 1}
	if m, arity, ok := strings.Cut(method, "/"); ok {
		n, err := strconv.Atoi(arity)
		if err != nil || n < 0 {
			return extract.InterfaceRule{}, fmt.Errorf("%q has an invalid arity", s)
		}
		rule.Method, rule.Arity = m, n
	}
	return rule, nil
}

func formatRule(r extract.InterfaceRule) string {
	s := r.QualifiedName + "#" + r.Method
	if r.Arity != 1 {
		s += "/" + strconv.Itoa(r.Arity)
	}
	return s
}
