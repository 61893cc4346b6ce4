package public

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
)

const dateLayout = "2006-01-02"

type ClientSummary struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth string    `json:"dateOfBirth"`
	Gender      string    `json:"gender"`
	NationalID  *string   `json:"nationalId"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
}

type EmergencyContact struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	Phone        *string `json:"phone"`
}

type ClientView struct {
	ClientSummary
	Address          *string          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type EnrollmentView struct {
	ID                  uuid.UUID     `json:"id"`
	ProgramID           uuid.UUID     `json:"programId"`
	ProgramName         string        `json:"programName"`
	EnrollmentDate      string        `json:"enrollmentDate"`
	Status              string        `json:"status"`
	ProgramSpecificData model.JSONMap `json:"programSpecificData"`
	Notes               *string       `json:"notes"`
}

type ProgramView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Description    string    `json:"description"`
	Active         bool      `json:"active"`
	RequiredFields []string  `json:"requiredFields"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Pagination struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"pageSize"`
	HasNextPage  bool `json:"hasNextPage"`
	TotalRecords int  `json:"totalRecords"`
}

func newClientSummary(c *model.Client) ClientSummary {
	return ClientSummary{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DateOfBirth: c.DateOfBirth.Format(dateLayout),
		Gender:      string(c.Gender),
		NationalID:  c.NationalID,
		Phone:       c.Phone,
		Email:       c.Email,
	}
}

func newClientView(c *model.Client) ClientView {
	return ClientView{
		ClientSummary: newClientSummary(c),
		Address:       c.Address,
		EmergencyContact: EmergencyContact{
			Name:         c.EmergencyContactName,
			Relationship: c.EmergencyContactRelationship,
			Phone:        c.EmergencyContactPhone,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newEnrollmentView(e *model.EnrollmentWithProgram) EnrollmentView {
	data := e.ProgramSpecificData
	if data == nil {
		data = model.JSONMap{}
	}
	return EnrollmentView{
		ID:                  e.ID,
		ProgramID:           e.ProgramID,
		ProgramName:         e.ProgramName,
		EnrollmentDate:      e.EnrollmentDate.Format(dateLayout),
		Status:              string(e.Status),
		ProgramSpecificData: data,
		Notes:               e.Notes,
	}
}

func newProgramView(p *model.HealthProgram) ProgramView {
	fields := []string(p.RequiredFields)
	if fields == nil {
		fields = []string{}
	}
	return ProgramView{
		ID:             p.ID,
		Name:           p.Name,
		Code:           p.Code,
		Description:    p.Description,
		Active:         p.Active,
		RequiredFields: fields,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
