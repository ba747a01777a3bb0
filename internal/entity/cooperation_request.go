package entity

import "time"

type CooperationStatus string

const (
	CooperationStatusNew       CooperationStatus = "new"
	CooperationStatusContacted CooperationStatus = "contacted"
	CooperationStatusClosed    CooperationStatus = "closed"
)

type CooperationRequest struct {
	ID                 string            `db:"id"`
	CompanyName        string            `db:"company_name"`
	ContactPerson      string            `db:"contact_person"`
	Email              string            `db:"email"`
	Phone              string            `db:"phone"`
	CooperationType    string            `db:"cooperation_type"`
	CompanySize        string            `db:"company_size"`
	CooperationDetails string            `db:"cooperation_details"`
	Status             CooperationStatus `db:"status"`
	CreatedAt          time.Time         `db:"created_at"`
}
