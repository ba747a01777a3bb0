package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/TheNopenator/EcoVision/pkg/inference"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "ECOVISION_"
	EnvConfigFile = "ECOVISION_CONFIG"
)

var ErrInvalidConfig = errors.New("invalid config")

// Load layers, from lowest to highest precedence:
//  1. Default()
//  2. the YAML file named by ECOVISION_CONFIG, if set
//  3. ECOVISION_* environment variables, "__" separating sections
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Detector.ClassNames) == 0 {
		cfg.Detector.ClassNames = slices.Clone(DefaultClassNames)
	}
	if len(cfg.Detector.Palette) == 0 {
		cfg.Detector.Palette = make(map[string]string, len(DefaultPalette))
		for name, hex := range DefaultPalette {
			cfg.Detector.Palette[name] = hex
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps ECOVISION_DETECTOR__NMS_THRESHOLD to detector.nms_threshold.
func envKey(s string) string {
	if s == EnvConfigFile {
		return ""
	}
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("app.port %d out of range", c.App.Port))
	}

	d := c.Detector
	for _, name := range d.ClassNames {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("detector.class_names must not contain blank names"))
			break
		}
	}
	for key, v := range map[string]float64{
		"detector.objectness_threshold": d.ObjectnessThreshold,
		"detector.class_threshold":      d.ClassThreshold,
		"detector.nms_threshold":        d.NMSThreshold,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s %.3f outside [0,1]", key, v))
		}
	}

	if !slices.Contains(inference.Available(), c.Inference.Engine) {
		errs = append(errs, fmt.Errorf("inference.engine %q not one of %v", c.Inference.Engine, inference.Available()))
	}
	if c.Inference.InputWidth <= 0 || c.Inference.InputHeight <= 0 {
		errs = append(errs, errors.New("inference input size must be positive"))
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not one of local, s3", c.Storage.Driver))
	}

	if c.SMTP.Enabled && c.SMTP.PartnershipInbox == "" {
		errs = append(errs, errors.New("smtp.partnership_inbox is required when smtp is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
