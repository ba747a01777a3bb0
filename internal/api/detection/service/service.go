package detectionService

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/detection"
	detectionRepository "github.com/TheNopenator/EcoVision/internal/api/detection/repository"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/pkg/metrics"
	"github.com/TheNopenator/EcoVision/pkg/redis"
	"github.com/TheNopenator/EcoVision/pkg/storage"
	"github.com/TheNopenator/EcoVision/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	statisticsCacheKey = "detections:statistics"

	recentWindow = 7 * 24 * time.Hour
	recentLimit  = 20
)

type IDetectionService interface {
	UploadAndDetect(ctx context.Context, file *multipart.FileHeader, location entity.Location) (*detection.UploadResponse, error)
	DetectFrame(ctx context.Context, frame []byte) (*detection.StreamResult, error)
	FrameLimit() int64
	GetAllDetections(ctx context.Context, page, limit int) (*detection.DetectionListResponse, error)
	GetDetectionByID(ctx context.Context, id string) (entity.TrashDetection, error)
	GetRecentDetections(ctx context.Context) ([]entity.TrashDetection, error)
	GetStatistics(ctx context.Context) (*detection.StatisticsResponse, error)
	UpdateProcessed(ctx context.Context, id string, processed bool) (entity.TrashDetection, error)
	DeleteDetection(ctx context.Context, id string) error
}

type detectionService struct {
	log           *logrus.Logger
	repo          detectionRepository.Repository
	pipeline      *Pipeline
	storage       storage.Storage
	cache         redis.ICache
	metrics       *metrics.Manager
	utils         utils.IUtils
	statisticsTTL time.Duration
	now           func() time.Time
}

func NewDetectionService(
	log *logrus.Logger,
	repo detectionRepository.Repository,
	pipeline *Pipeline,
	storage storage.Storage,
	cache redis.ICache,
	metrics *metrics.Manager,
	utils utils.IUtils,
	statisticsTTL time.Duration,
) IDetectionService {
	return &detectionService{
		log:           log,
		repo:          repo,
		pipeline:      pipeline,
		storage:       storage,
		cache:         cache,
		metrics:       metrics,
		utils:         utils,
		statisticsTTL: statisticsTTL,
		now:           time.Now,
	}
}
