package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

const (
	GenderFemale = "F"
	GenderMale   = "M"
	GenderOther  = "other"
)

// AdultAge is the age at which pediatric fields stop applying.
const AdultAge = 16

type Patient struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id" validate:"required"`
	FirstName   string    `db:"first_name" json:"first_name" validate:"required"`
	LastName    string    `db:"last_name" json:"last_name" validate:"required"`
	Email       string    `db:"email" json:"email" validate:"omitempty,email"`
	Phone       string    `db:"phone" json:"phone"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth" validate:"required"`
	Gender      string    `db:"gender" json:"gender" validate:"required,oneof=F M other"`
	Address     string    `db:"address" json:"address"`
	Status      string    `db:"status" json:"status"`
	Notes       string    `db:"notes" json:"notes"`
}

// Age returns the patient age in whole years at the given time.
func (p *Patient) Age(at time.Time) int {
	years := at.Year() - p.DateOfBirth.Year()
	if at.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	return years
}

// RecordContext derives which conditional sections of the anamnesis
// apply to this patient.
func (p *Patient) RecordContext(at time.Time) RecordContext {
	age := p.Age(at)
	return RecordContext{
		AdultFemale: p.Gender == GenderFemale && age >= AdultAge,
		Pediatric:   age < AdultAge,
	}
}

type CreatePatientRequest struct {
	ClinicID    string    `json:"clinic_id" binding:"required,uuid"`
	FirstName   string    `json:"first_name" binding:"required"`
	LastName    string    `json:"last_name" binding:"required"`
	Email       string    `json:"email" binding:"omitempty,email"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Gender      string    `json:"gender" binding:"required,oneof=F M other"`
	Address     string    `json:"address"`
}

type UpdatePatientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Notes     *string `json:"notes"`
}

type PatientFilters struct {
	ClinicID   uuid.UUID `json:"clinic_id" form:"clinic_id"`
	SearchTerm string    `json:"search_term" form:"search_term"`
	Status     string    `json:"status" form:"status"`
}
