// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, client and validation can all import types without
// depending on each other.
package types

// Student represents one student record in the directory.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (camelCase names match the collection-resource API contract).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package at the HTTP boundary. "required" means the field must be
//     non-zero / non-empty.
type Student struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"               validate:"required"`
	RegistrationNumber string  `json:"registrationNumber" validate:"required"`
	DOB                string  `json:"dob"                validate:"required"`
	Major              string  `json:"major"              validate:"required"`
	GPA                float64 `json:"gpa"`
}

// StudentInput is the record-without-id shape carried by create and
// update payloads. The server assigns ID; clients never supply it.
//
// GPA is a pointer so an absent "gpa" key can be told apart from an
// explicit 0.0: the API rejects payloads that omit it entirely, while
// JSON decoding into a float already guarantees the value is numeric.
type StudentInput struct {
	Name               string   `json:"name"               validate:"required"`
	RegistrationNumber string   `json:"registrationNumber" validate:"required"`
	DOB                string   `json:"dob"                validate:"required"`
	Major              string   `json:"major"              validate:"required"`
	GPA                *float64 `json:"gpa"                validate:"required"`
}

// Record builds the persisted form of an input with the given id.
func (in StudentInput) Record(id string) Student {
	var gpa float64
	if in.GPA != nil {
		gpa = *in.GPA
	}
	return Student{
		ID:                 id,
		Name:               in.Name,
		RegistrationNumber: in.RegistrationNumber,
		DOB:                in.DOB,
		Major:              in.Major,
		GPA:                gpa,
	}
}

// Majors is the closed list of academic disciplines the UI offers.
// Membership is enforced only by the choices a form presents, never by
// the validation layer.
var Majors = []string{
	"Computer Science",
	"Mathematics",
	"Engineering",
	"Physics",
	"Biology",
	"Chemistry",
	"Economics",
	"Psychology",
	"History",
	"Business Administration",
	"Information Technology",
	"Environmental Science",
}
