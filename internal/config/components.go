package config

import (
	"os"

	"github.com/TheNopenator/EcoVision/database/postgres"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/TheNopenator/EcoVision/pkg/inference"
	"github.com/TheNopenator/EcoVision/pkg/log"
	"github.com/TheNopenator/EcoVision/pkg/metrics"
	"github.com/TheNopenator/EcoVision/pkg/redis"
	"github.com/TheNopenator/EcoVision/pkg/s3"
	"github.com/TheNopenator/EcoVision/pkg/smtp"
	"github.com/TheNopenator/EcoVision/pkg/storage"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// The helpers below translate Config sections into the option types of the
// packages they configure.

func (c *Config) LoggerOptions() []log.Option {
	opts := []log.Option{
		log.WithLevel(c.Log.Level),
		log.WithFileDir(c.Log.Dir),
		log.WithFileOutput(c.Log.ToFile),
	}
	if c.Log.NoColor {
		opts = append(opts, log.WithoutColors())
	}
	return opts
}

func (c *Config) PostgresConfig() postgres.Config {
	return postgres.Config{
		DSN:             c.Database.DSN(),
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		Migrate:         c.Database.Migrate,
	}
}

func (c *Config) MiddlewareConfig() middleware.Config {
	return middleware.Config{
		RequestsPerSecond: c.RateLimit.RequestsPerSecond,
		Burst:             c.RateLimit.Burst,
		JWTSecret:         c.JWT.Secret,
	}
}

func (c *Config) NewMetrics() *metrics.Manager {
	return metrics.NewManager(
		metrics.WithNamespace(c.Metrics.Namespace),
		metrics.WithMetricsEnabled(c.Metrics.Enabled),
	)
}

func (c *Config) NewCache(logger *logrus.Logger) redis.ICache {
	if !c.Redis.Enabled {
		return redis.NewNoop()
	}
	return redis.New(redis.Config{
		Address:  c.Redis.Address,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}, logger)
}

func (c *Config) NewStorage() (storage.Storage, error) {
	if c.Storage.Driver == StorageS3 {
		return s3.New(s3.Config{
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			PresignTTL:      c.S3.PresignTTL,
		})
	}
	return storage.NewLocal(c.Storage.Root, c.Storage.PublicPrefix)
}

func (c *Config) NewMailer() smtp.ItfSmtp {
	if !c.SMTP.Enabled {
		return smtp.NewNoop()
	}
	return smtp.New(smtp.Config{
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
		Inbox:    c.SMTP.PartnershipInbox,
	})
}

func (c *Config) NewDetector() (*detector.Detector, error) {
	d := c.Detector
	opts := []detector.Option{
		detector.WithObjectnessThreshold(float32(d.ObjectnessThreshold)),
		detector.WithClassThreshold(float32(d.ClassThreshold)),
		detector.WithNMSThreshold(d.NMSThreshold),
		detector.WithDefaultColor(d.DefaultColor),
		detector.WithPalette(d.Palette),
	}
	if d.RowMajor {
		opts = append(opts, detector.WithLayout(detector.LayoutRowMajor))
	}
	if d.ScaleToFrame {
		opts = append(opts, detector.WithInputSize(c.Inference.InputWidth, c.Inference.InputHeight))
	}
	if d.RoundCoordinates {
		opts = append(opts, detector.WithRoundedCoordinates())
	}
	if d.ClassAwareNMS {
		opts = append(opts, detector.WithClassAwareNMS())
	}
	return detector.New(d.ClassNames, opts...)
}

// InferenceConfig builds the engine configuration. The static engine replays
// the tensor stored at StaticTensorPath, or an empty tensor when none is set.
func (c *Config) InferenceConfig() (inference.Config, error) {
	in := c.Inference
	attrs := 5 + len(c.Detector.ClassNames)

	outputShape := []int{1, attrs, in.Anchors}
	if c.Detector.RowMajor {
		outputShape = []int{1, in.Anchors, attrs}
	}

	cfg := inference.Config{
		Engine:            in.Engine,
		ModelPath:         in.ModelPath,
		SharedLibraryPath: in.SharedLibraryPath,
		InputName:         in.InputName,
		OutputName:        in.OutputName,
		InputWidth:        in.InputWidth,
		InputHeight:       in.InputHeight,
		OutputShape:       outputShape,
		IntraOpThreads:    in.IntraOpThreads,
		RemoteURL:         in.RemoteURL,
		RemoteTimeout:     in.RemoteTimeout,
		JPEGQuality:       in.JPEGQuality,
	}

	if in.Engine != inference.EngineStatic {
		return cfg, nil
	}

	if in.StaticTensorPath == "" {
		cfg.StaticTensor = detector.Tensor{Shape: []int{1, attrs, 0}, Data: []float32{}}
		return cfg, nil
	}

	raw, err := os.ReadFile(in.StaticTensorPath)
	if err != nil {
		return cfg, errors.Wrap(err, "read static tensor")
	}
	if err := jsoniter.Unmarshal(raw, &cfg.StaticTensor); err != nil {
		return cfg, errors.Wrap(err, "decode static tensor")
	}
	return cfg, nil
}
