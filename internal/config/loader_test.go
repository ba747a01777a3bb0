package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TheNopenator/EcoVision/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix) {
			_ = os.Unsetenv(key)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "ecovision.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then the reference thresholds apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.App.Port, convey.ShouldEqual, 3000)
				convey.So(cfg.Detector.ObjectnessThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.Detector.ClassThreshold, convey.ShouldEqual, 0.25)
				convey.So(cfg.Detector.NMSThreshold, convey.ShouldEqual, 0.4)
				convey.So(cfg.Detector.ClassNames, convey.ShouldResemble, config.DefaultClassNames)
				convey.So(cfg.Detector.Palette["bottle"], convey.ShouldEqual, "#FF6B6B")
				convey.So(cfg.Inference.Engine, convey.ShouldEqual, "static")
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("ECOVISION_APP__PORT", "8080")
			_ = os.Setenv("ECOVISION_DETECTOR__NMS_THRESHOLD", "0.6")
			_ = os.Setenv("ECOVISION_DETECTOR__CLASS_NAMES", "bottle,can")
			_ = os.Setenv("ECOVISION_REDIS__STATISTICS_TTL", "1m")

			cfg, err := config.Load()

			convey.Convey("Then nested keys are overridden", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.App.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.Detector.NMSThreshold, convey.ShouldEqual, 0.6)
				convey.So(cfg.Detector.ClassNames, convey.ShouldResemble, []string{"bottle", "can"})
				convey.So(cfg.Redis.StatisticsTTL, convey.ShouldEqual, time.Minute)
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := writeConfigFile(t, `
app:
  port: 9090
detector:
  class_names: [bottle, can, paper]
  class_aware_nms: true
storage:
  driver: local
  root: /tmp/ecovision
`)
			_ = os.Setenv(config.EnvConfigFile, path)

			convey.Convey("Then file values apply", func() {
				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.App.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.Detector.ClassNames, convey.ShouldResemble, []string{"bottle", "can", "paper"})
				convey.So(cfg.Detector.ClassAwareNMS, convey.ShouldBeTrue)
				convey.So(cfg.Storage.Root, convey.ShouldEqual, "/tmp/ecovision")
				convey.So(cfg.Database.Port, convey.ShouldEqual, 5432)
			})

			convey.Convey("Then the environment still wins", func() {
				_ = os.Setenv("ECOVISION_APP__PORT", "7070")
				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.App.Port, convey.ShouldEqual, 7070)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			convey.Convey("A threshold above one is rejected", func() {
				_ = os.Setenv("ECOVISION_DETECTOR__CLASS_THRESHOLD", "1.5")
				_, err := config.Load()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})

			convey.Convey("An unknown engine is rejected", func() {
				_ = os.Setenv("ECOVISION_INFERENCE__ENGINE", "tensorflow")
				_, err := config.Load()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})

			convey.Convey("S3 storage needs a bucket", func() {
				_ = os.Setenv("ECOVISION_STORAGE__DRIVER", "s3")
				_, err := config.Load()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})

			convey.Convey("A missing YAML file fails loading", func() {
				_ = os.Setenv(config.EnvConfigFile, "/does/not/exist.yaml")
				_, err := config.Load()
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
