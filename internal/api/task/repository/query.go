package taskRepository

const (
	selectTaskWithDetection = `
		SELECT
			t.id,
			t.detection_id,
			t.status,
			t.assigned_to,
			t.created_at,
			t.completed_at,
			t.notes,
			d.image_url AS detection_image_url,
			d.annotated_image_url AS detection_annotated_image_url,
			d.detected_objects AS detection_detected_objects,
			d.confidence_scores AS detection_confidence_scores,
			d.boxes AS detection_boxes,
			d.location AS detection_location,
			d.detected_at AS detection_detected_at,
			d.processed AS detection_processed
		FROM cleanup_tasks t
		JOIN trash_detections d ON d.id = t.detection_id
	`

	queryGetAllTasks = selectTaskWithDetection + `
		ORDER BY t.created_at DESC
	`

	queryGetTasksByStatus = selectTaskWithDetection + `
		WHERE t.status = :status
		ORDER BY t.created_at ASC
	`

	queryGetTaskByID = selectTaskWithDetection + `
		WHERE t.id = :id
	`

	queryUpdateTask = `
		UPDATE cleanup_tasks
		SET
			assigned_to = :assigned_to,
			notes = :notes
		WHERE id = :id
	`

	queryUpdateStatus = `
		UPDATE cleanup_tasks
		SET
			status = :status,
			completed_at = :completed_at
		WHERE id = :id
	`

	queryDeleteTask = `
		DELETE FROM cleanup_tasks
		WHERE id = :id
	`
)
