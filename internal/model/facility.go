package model

// Facility is the clinic a staff member works at. Names are the dedup key.
type Facility struct {
	Base
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address,omitempty" db:"address"`
	Phone   *string `json:"phone,omitempty" db:"phone"`
	Email   *string `json:"email,omitempty" db:"email"`
}
