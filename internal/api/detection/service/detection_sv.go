package detectionService

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/detection"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/TheNopenator/EcoVision/pkg/utils"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

func (s *detectionService) UploadAndDetect(ctx context.Context, file *multipart.FileHeader, location entity.Location) (*detection.UploadResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	img, raw, err := s.utils.ReadImageFile(file)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected uploaded image")
		s.metrics.RecordUpload("rejected")
		if errors.Is(err, utils.ErrNoFile) {
			return nil, detection.ErrImageRequired
		}
		return nil, imageError(err)
	}

	detections, err := s.pipeline.Detect(ctx, img)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Detection pipeline failed")
		s.metrics.RecordUpload("failed")
		return nil, detection.ProcessImageError(err)
	}

	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		s.metrics.RecordUpload("failed")
		return nil, detection.ErrCreateDetection
	}
	key := s.utils.UploadKey(now, id, file.Filename)

	imageRef, err := s.storage.Put(ctx, key, raw, file.Header.Get("Content-Type"))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Error("Failed to store uploaded image")
		s.metrics.RecordUpload("failed")
		return nil, detection.ErrStoreImage
	}
	stored := []string{imageRef}

	annotatedRef := ""
	if annotated, err := s.pipeline.Annotate(img, detections); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to render annotated image")
	} else if annotatedRef, err = s.storage.Put(ctx, annotatedKey(key), annotated, "image/jpeg"); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to store annotated image")
		annotatedRef = ""
	} else {
		stored = append(stored, annotatedRef)
	}

	record := entity.TrashDetection{
		ID:                id,
		ImageURL:          imageRef,
		AnnotatedImageURL: annotatedRef,
		DetectedObjects:   lo.Map(detections, func(d detector.Detection, _ int) string { return d.Label }),
		ConfidenceScores:  lo.Map(detections, func(d detector.Detection, _ int) float64 { return float64(d.Confidence) }),
		Boxes:             detection.ToBoxes(detections),
		Location:          location,
		DetectedAt:        now,
	}

	taskID, err := s.persistDetection(ctx, &record)
	if err != nil {
		s.discard(ctx, stored)
		s.metrics.RecordUpload("failed")
		return nil, err
	}

	if err := s.cache.Delete(ctx, statisticsCacheKey); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate statistics cache")
	}

	s.metrics.AddDetections(record.DetectedObjects)
	s.metrics.RecordUpload("success")

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"detection_id": record.ID,
		"objects":      len(detections),
	}).Info("Detection recorded")

	return &detection.UploadResponse{
		DetectionID:       record.ID,
		ImageURL:          s.resolveURL(ctx, imageRef),
		AnnotatedImageURL: s.resolveURL(ctx, annotatedRef),
		Detections:        detection.FromDetections(detections),
		DetectedObjects:   record.DetectedObjects,
		ConfidenceScores:  record.ConfidenceScores,
		Location:          location,
		DetectedAt:        record.DetectedAt,
		TaskID:            taskID,
	}, nil
}

// persistDetection stores the detection and, when anything was found, its
// pending cleanup task in one transaction.
func (s *detectionService) persistDetection(ctx context.Context, record *entity.TrashDetection) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return "", detection.ErrCreateDetection
	}
	defer repo.Rollback()

	if err := repo.Detections.CreateDetection(ctx, *record); err != nil {
		return "", detection.ErrCreateDetection
	}

	var taskID string
	if len(record.DetectedObjects) > 0 {
		taskID, err = s.utils.NewULIDFromTimestamp(record.DetectedAt)
		if err != nil {
			return "", detection.ErrCreateDetection
		}

		task := entity.CleanupTask{
			ID:          taskID,
			DetectionID: record.ID,
			Status:      entity.TaskStatusPending,
			CreatedAt:   record.DetectedAt,
		}
		if err := repo.Tasks.CreateTask(ctx, task); err != nil {
			return "", detection.ErrCreateDetection
		}
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return "", detection.ErrCreateDetection
	}

	return taskID, nil
}

func (s *detectionService) DetectFrame(ctx context.Context, frame []byte) (*detection.StreamResult, error) {
	img, err := s.utils.DecodeImage(frame)
	if err != nil {
		return nil, imageError(err)
	}

	start := time.Now()
	detections, err := s.pipeline.Detect(ctx, img)
	if err != nil {
		return nil, detection.ProcessImageError(err)
	}

	s.metrics.AddDetections(lo.Map(detections, func(d detector.Detection, _ int) string { return d.Label }))

	bounds := img.Bounds()
	return &detection.StreamResult{
		Detections: detection.FromDetections(detections),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		ElapsedMS:  time.Since(start).Milliseconds(),
	}, nil
}

func (s *detectionService) GetAllDetections(ctx context.Context, page, limit int) (*detection.DetectionListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	offset := (page - 1) * limit
	records, total, err := repo.Detections.GetAllDetections(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &detection.DetectionListResponse{
		Detections: detection.ToDetectionResponses(s.withURLs(ctx, records)),
		Total:      total,
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *detectionService) GetDetectionByID(ctx context.Context, id string) (entity.TrashDetection, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.TrashDetection{}, err
	}

	record, err := repo.Detections.GetDetectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, detection.ErrDetectionNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("Detection not found")
		}
		return entity.TrashDetection{}, err
	}

	return s.withURLs(ctx, []entity.TrashDetection{record})[0], nil
}

// GetRecentDetections returns at most 20 detections from the last 7 days,
// newest first.
func (s *detectionService) GetRecentDetections(ctx context.Context) ([]entity.TrashDetection, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	records, err := repo.Detections.GetDetectionsSince(ctx, s.now().Add(-recentWindow), recentLimit)
	if err != nil {
		return nil, err
	}

	return s.withURLs(ctx, records), nil
}

func (s *detectionService) GetStatistics(ctx context.Context) (*detection.StatisticsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var cached detection.StatisticsResponse
	hit, err := s.cache.GetJSON(ctx, statisticsCacheKey, &cached)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Statistics cache read failed")
	}
	if hit {
		return &cached, nil
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, detection.ErrStatistics
	}

	total, err := repo.Detections.CountDetections(ctx, nil)
	if err != nil {
		return nil, detection.ErrStatistics
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := repo.Detections.CountDetections(ctx, &startOfDay)
	if err != nil {
		return nil, detection.ErrStatistics
	}

	counts, err := repo.Detections.CountObjects(ctx)
	if err != nil {
		return nil, detection.ErrStatistics
	}

	stats := &detection.StatisticsResponse{
		TotalDetections: total,
		TodayDetections: today,
		TrashCounts:     counts,
	}

	if err := s.cache.SetJSON(ctx, statisticsCacheKey, stats, s.statisticsTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Statistics cache write failed")
	}

	return stats, nil
}

func (s *detectionService) UpdateProcessed(ctx context.Context, id string, processed bool) (entity.TrashDetection, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		return entity.TrashDetection{}, detection.ErrUpdateDetection
	}
	defer repo.Rollback()

	if err := repo.Detections.UpdateProcessed(ctx, id, processed); err != nil {
		if errors.Is(err, detection.ErrDetectionNotFound) {
			return entity.TrashDetection{}, err
		}
		return entity.TrashDetection{}, detection.ErrUpdateDetection
	}

	record, err := repo.Detections.GetDetectionByID(ctx, id)
	if err != nil {
		return entity.TrashDetection{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return entity.TrashDetection{}, detection.ErrUpdateDetection
	}

	return s.withURLs(ctx, []entity.TrashDetection{record})[0], nil
}

func (s *detectionService) DeleteDetection(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		return detection.ErrDeleteDetection
	}
	defer repo.Rollback()

	record, err := repo.Detections.GetDetectionByID(ctx, id)
	if err != nil {
		return err
	}

	if err := repo.Detections.DeleteDetection(ctx, id); err != nil {
		if errors.Is(err, detection.ErrDetectionNotFound) {
			return err
		}
		return detection.ErrDeleteDetection
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return detection.ErrDeleteDetection
	}

	s.discard(ctx, lo.Compact([]string{record.ImageURL, record.AnnotatedImageURL}))

	if err := s.cache.Delete(ctx, statisticsCacheKey); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate statistics cache")
	}

	return nil
}

// withURLs swaps stored references for URLs a client can fetch.
func (s *detectionService) withURLs(ctx context.Context, records []entity.TrashDetection) []entity.TrashDetection {
	for i := range records {
		records[i].ImageURL = s.resolveURL(ctx, records[i].ImageURL)
		records[i].AnnotatedImageURL = s.resolveURL(ctx, records[i].AnnotatedImageURL)
	}
	return records
}

func (s *detectionService) resolveURL(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}

	url, err := s.storage.URL(ctx, ref)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"ref":        ref,
			"error":      err.Error(),
		}).Warn("Failed to resolve image URL")
		return ref
	}
	return url
}

func (s *detectionService) discard(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.storage.Delete(ctx, ref); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"ref":        ref,
				"error":      err.Error(),
			}).Warn("Failed to remove stored image")
		}
	}
}

// annotatedKey maps uploads/<stamp>_<name> to annotated/<stamp>_<name>.jpg.
// FrameLimit is the largest stream frame accepted, in bytes.
func (s *detectionService) FrameLimit() int64 {
	return s.utils.MaxFileSize()
}

func imageError(err error) error {
	if errors.Is(err, utils.ErrFileTooLarge) || errors.Is(err, utils.ErrTooManyPixels) {
		return detection.ErrImageTooLarge
	}
	return detection.ErrInvalidImage
}

func annotatedKey(uploadKey string) string {
	base := path.Base(uploadKey)
	base = strings.TrimSuffix(base, path.Ext(base))
	return path.Join("annotated", base+".jpg")
}
