package robotRepository

const (
	queryCreateRobotRequest = `
		INSERT INTO robot_requests (
			id,
			robot_id,
			status,
			trash_types,
			priority,
			location,
			notes,
			request_time,
			eta_minutes
		) VALUES (
			:id,
			:robot_id,
			:status,
			:trash_types,
			:priority,
			:location,
			:notes,
			:request_time,
			:eta_minutes
		)
	`

	queryGetRobotRequests = `
		SELECT
			id,
			robot_id,
			status,
			trash_types,
			priority,
			location,
			notes,
			request_time,
			eta_minutes
		FROM robot_requests
		ORDER BY request_time DESC
		LIMIT :limit
	`
)
