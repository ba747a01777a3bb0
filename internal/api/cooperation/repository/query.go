package cooperationRepository

const (
	queryCreateCooperationRequest = `
		INSERT INTO cooperation_requests (
			id,
			company_name,
			contact_person,
			email,
			phone,
			cooperation_type,
			company_size,
			cooperation_details,
			status,
			created_at
		) VALUES (
			:id,
			:company_name,
			:contact_person,
			:email,
			:phone,
			:cooperation_type,
			:company_size,
			:cooperation_details,
			:status,
			:created_at
		)
	`

	queryGetCooperationRequests = `
		SELECT
			id,
			company_name,
			contact_person,
			email,
			phone,
			cooperation_type,
			company_size,
			cooperation_details,
			status,
			created_at
		FROM cooperation_requests
		WHERE (:status = '' OR status = :status)
		ORDER BY created_at DESC
	`

	queryUpdateCooperationStatus = `
		UPDATE cooperation_requests
		SET status = :status
		WHERE id = :id
	`
)
