package config

import (
	"fmt"
	"time"
)

// Config is the full service configuration. Keys follow the koanf tags, so
// database.host can be set with ECOVISION_DATABASE__HOST.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Storage   StorageConfig   `koanf:"storage"`
	S3        S3Config        `koanf:"s3"`
	Detector  DetectorConfig  `koanf:"detector"`
	Inference InferenceConfig `koanf:"inference"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	JWT       JWTConfig       `koanf:"jwt"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type AppConfig struct {
	Name           string        `koanf:"name"`
	Env            string        `koanf:"env"`
	Port           int           `koanf:"port"`
	BodyLimitMB    int           `koanf:"body_limit_mb"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type LogConfig struct {
	Level   string `koanf:"level"`
	Dir     string `koanf:"dir"`
	ToFile  bool   `koanf:"to_file"`
	NoColor bool   `koanf:"no_color"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	Migrate         bool          `koanf:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Address       string        `koanf:"address"`
	Password      string        `koanf:"password"`
	DB            int           `koanf:"db"`
	StatisticsTTL time.Duration `koanf:"statistics_ttl"`
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type StorageConfig struct {
	Driver         string `koanf:"driver"`
	Root           string `koanf:"root"`
	PublicPrefix   string `koanf:"public_prefix"`
	MaxUploadMB    int    `koanf:"max_upload_mb"`
	MaxImagePixels int64  `koanf:"max_image_pixels"`
}

type S3Config struct {
	Region          string        `koanf:"region"`
	Bucket          string        `koanf:"bucket"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	Endpoint        string        `koanf:"endpoint"`
	PresignTTL      time.Duration `koanf:"presign_ttl"`
}

type DetectorConfig struct {
	ClassNames          []string          `koanf:"class_names"`
	ObjectnessThreshold float64           `koanf:"objectness_threshold"`
	ClassThreshold      float64           `koanf:"class_threshold"`
	NMSThreshold        float64           `koanf:"nms_threshold"`
	RowMajor            bool              `koanf:"row_major"`
	RoundCoordinates    bool              `koanf:"round_coordinates"`
	ClassAwareNMS       bool              `koanf:"class_aware_nms"`
	ScaleToFrame        bool              `koanf:"scale_to_frame"`
	DefaultColor        string            `koanf:"default_color"`
	Palette             map[string]string `koanf:"palette"`
}

type InferenceConfig struct {
	Engine            string        `koanf:"engine"`
	ModelPath         string        `koanf:"model_path"`
	SharedLibraryPath string        `koanf:"shared_library_path"`
	InputName         string        `koanf:"input_name"`
	OutputName        string        `koanf:"output_name"`
	InputWidth        int           `koanf:"input_width"`
	InputHeight       int           `koanf:"input_height"`
	Anchors           int           `koanf:"anchors"`
	IntraOpThreads    int           `koanf:"intra_op_threads"`
	RemoteURL         string        `koanf:"remote_url"`
	RemoteTimeout     time.Duration `koanf:"remote_timeout"`
	JPEGQuality       int           `koanf:"jpeg_quality"`
	StaticTensorPath  string        `koanf:"static_tensor_path"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

type JWTConfig struct {
	Secret               string        `koanf:"secret"`
	TTL                  time.Duration `koanf:"ttl"`
	OperatorUsername     string        `koanf:"operator_username"`
	OperatorPasswordHash string        `koanf:"operator_password_hash"`
}

type SMTPConfig struct {
	Enabled          bool   `koanf:"enabled"`
	Host             string `koanf:"host"`
	Port             int    `koanf:"port"`
	Username         string `koanf:"username"`
	Password         string `koanf:"password"`
	From             string `koanf:"from"`
	PartnershipInbox string `koanf:"partnership_inbox"`
}

type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	Path      string `koanf:"path"`
}

// DefaultClassNames are the litter classes the bundled model was trained on.
var DefaultClassNames = []string{
	"bottle", "can", "paper", "plastic_bag", "cigarette",
	"food_waste", "glass", "metal", "cardboard", "other_trash",
}

// DefaultPalette mirrors the category colours shown in the dashboard.
var DefaultPalette = map[string]string{
	"bottle":      "#FF6B6B",
	"can":         "#4ECDC4",
	"paper":       "#45B7D1",
	"plastic_bag": "#96CEB4",
	"cigarette":   "#FECA57",
	"food_waste":  "#FF9FF3",
	"glass":       "#54A0FF",
	"metal":       "#5F27CD",
	"cardboard":   "#00D2D3",
	"other_trash": "#FF3838",
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:           "EcoVision",
			Env:            "development",
			Port:           3000,
			BodyLimitMB:    10,
			RequestTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "debug",
			Dir:    "./storage/logs",
			ToFile: true,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "ecovision",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			Migrate:         true,
		},
		Redis: RedisConfig{
			Address:       "localhost:6379",
			StatisticsTTL: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver:         StorageLocal,
			Root:           "./storage/media",
			PublicPrefix:   "/media",
			MaxUploadMB:    5,
			MaxImagePixels: 40_000_000,
		},
		S3: S3Config{
			Region:     "ap-southeast-1",
			PresignTTL: 15 * time.Minute,
		},
		Detector: DetectorConfig{
			ObjectnessThreshold: 0.5,
			ClassThreshold:      0.25,
			NMSThreshold:        0.4,
			DefaultColor:        "#00FF00",
		},
		Inference: InferenceConfig{
			Engine:        "static",
			ModelPath:     "./models/best.onnx",
			InputName:     "images",
			OutputName:    "output0",
			InputWidth:    640,
			InputHeight:   640,
			Anchors:       8400,
			RemoteTimeout: 5 * time.Second,
			JPEGQuality:   90,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
		JWT: JWTConfig{
			TTL:              24 * time.Hour,
			OperatorUsername: "operator",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "ecovision",
			Path:      "/metrics",
		},
	}
}
