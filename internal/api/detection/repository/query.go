package detectionRepository

const (
	queryCreateDetection = `
		INSERT INTO trash_detections (
			id,
			image_url,
			annotated_image_url,
			detected_objects,
			confidence_scores,
			boxes,
			location,
			detected_at,
			processed
		) VALUES (
			:id,
			:image_url,
			:annotated_image_url,
			:detected_objects,
			:confidence_scores,
			:boxes,
			:location,
			:detected_at,
			:processed
		)
	`

	queryGetDetectionByID = `
		SELECT
			id,
			image_url,
			annotated_image_url,
			detected_objects,
			confidence_scores,
			boxes,
			location,
			detected_at,
			processed
		FROM trash_detections
		WHERE id = :id
	`

	queryGetAllDetections = `
		SELECT
			id,
			image_url,
			annotated_image_url,
			detected_objects,
			confidence_scores,
			boxes,
			location,
			detected_at,
			processed
		FROM trash_detections
		ORDER BY detected_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryGetDetectionsSince = `
		SELECT
			id,
			image_url,
			annotated_image_url,
			detected_objects,
			confidence_scores,
			boxes,
			location,
			detected_at,
			processed
		FROM trash_detections
		WHERE detected_at >= :since
		ORDER BY detected_at DESC
		LIMIT :limit
	`

	queryCountAllDetections = `
		SELECT COUNT(*)
		FROM trash_detections
	`

	queryCountDetectionsSince = `
		SELECT COUNT(*)
		FROM trash_detections
		WHERE detected_at >= :since
	`

	queryCountObjects = `
		SELECT
			obj AS label,
			COUNT(*) AS total
		FROM trash_detections, unnest(detected_objects) AS obj
		GROUP BY obj
	`

	queryUpdateProcessed = `
		UPDATE trash_detections
		SET processed = :processed
		WHERE id = :id
	`

	queryDeleteDetection = `
		DELETE FROM trash_detections
		WHERE id = :id
	`

	queryCreateTask = `
		INSERT INTO cleanup_tasks (
			id,
			detection_id,
			status,
			assigned_to,
			created_at,
			notes
		) VALUES (
			:id,
			:detection_id,
			:status,
			:assigned_to,
			:created_at,
			:notes
		)
	`
)
