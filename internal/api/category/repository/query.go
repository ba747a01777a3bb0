package categoryRepository

const (
	queryCreateCategory = `
		INSERT INTO trash_categories (
			id,
			name,
			color,
			description
		) VALUES (
			:id,
			:name,
			:color,
			:description
		)
	`

	queryGetCategoryByID = `
		SELECT
			id,
			name,
			color,
			description
		FROM trash_categories
		WHERE id = :id
	`

	queryGetAllCategories = `
		SELECT
			id,
			name,
			color,
			description
		FROM trash_categories
		ORDER BY name ASC
	`

	queryUpdateCategory = `
		UPDATE trash_categories
		SET
			name = :name,
			color = :color,
			description = :description
		WHERE id = :id
	`

	queryDeleteCategory = `
		DELETE FROM trash_categories
		WHERE id = :id
	`
)
