package entity

const DefaultCategoryColor = "#FF0000"

type TrashCategory struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Color       string `db:"color"`
	Description string `db:"description"`
}
