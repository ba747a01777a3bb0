package cooperation

import (
	"time"

	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/samber/lo"
)

type CreateCooperationRequest struct {
	CompanyName        string `json:"company_name" validate:"required,max=200"`
	ContactPerson      string `json:"contact_person" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email,max=254"`
	Phone              string `json:"phone" validate:"max=30"`
	CooperationType    string `json:"cooperation_type" validate:"required,oneof=technology investment supply distribution research other"`
	CompanySize        string `json:"company_size" validate:"max=20"`
	CooperationDetails string `json:"cooperation_details" validate:"required,max=5000"`
}

// CooperationEnvelope is what the landing page form posts: the request
// serialized into a string under "content". Plain requests are accepted too.
type CooperationEnvelope struct {
	Content string `json:"content"`
	CreateCooperationRequest
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted closed"`
}

type CreateCooperationResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CooperationResponse struct {
	ID                 string    `json:"id"`
	CompanyName        string    `json:"company_name"`
	ContactPerson      string    `json:"contact_person"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	CooperationType    string    `json:"cooperation_type"`
	CompanySize        string    `json:"company_size"`
	CooperationDetails string    `json:"cooperation_details"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

func ToCooperationResponse(r entity.CooperationRequest) CooperationResponse {
	return CooperationResponse{
		ID:                 r.ID,
		CompanyName:        r.CompanyName,
		ContactPerson:      r.ContactPerson,
		Email:              r.Email,
		Phone:              r.Phone,
		CooperationType:    r.CooperationType,
		CompanySize:        r.CompanySize,
		CooperationDetails: r.CooperationDetails,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt,
	}
}

func ToCooperationResponses(requests []entity.CooperationRequest) []CooperationResponse {
	return lo.Map(requests, func(r entity.CooperationRequest, _ int) CooperationResponse {
		return ToCooperationResponse(r)
	})
}
