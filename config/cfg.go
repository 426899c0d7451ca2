package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	GlossConfig struct {
		// Container is the fenced container name recognized as gloss: "::: gloss".
		Container   string   `yaml:"container" validate:"required"`
		ClassPrefix string   `yaml:"class_prefix" validate:"required"`
		IDs         bool     `yaml:"ids"`
		Normalize   bool     `yaml:"normalize"`
		Extensions  []string `yaml:"extensions" validate:"dive,oneof=gfm table tables strikethrough linkify autolink tasklist definition footnote typographer"`
		UnsafeHTML  bool     `yaml:"unsafe_html"`
	}

	DocumentConfig struct {
		StylesheetPath        string      `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		FileNameTransliterate bool        `yaml:"file_name_transliterate"`
		Workers               int         `yaml:"workers" validate:"gte=0"`
		Gloss                 GlossConfig `yaml:"gloss"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// decode overlays YAML data on top of cfg. Only fields defined in Config are
// accepted, so yaml.Unmarshal cannot be used here.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg)
}

// LoadConfiguration expands configuration template to get defaults, overlays
// values from the file at path (if any) and validates the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	data, err := Prepare(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	if len(path) > 0 {
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare expands embedded configuration template.
func Prepare(options ...func(*gencfg.ProcessingOptions)) ([]byte, error) {
	return gencfg.Process(ConfigTmpl, options...)
}

// Dump returns actual configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
