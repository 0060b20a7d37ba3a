// Package validation implements the client-side (pre-submit) rules for
// a candidate student record.
//
// These rules differ from the validator/v10 struct tags used at the
// HTTP boundary: forms need one message per offending field, with every
// violation collected in a single pass, so the form can render errors
// inline next to each input. validator's ValidationErrors could be
// flattened into the same shape, but the trim-before-check and
// finite-number semantics here have no direct tag equivalents, so the
// rules are written out as a plain pure function instead.
package validation

import (
	"math"
	"strings"

	"github.com/aanand-mishra/student-directory/internal/types"
)

// Field error messages, keyed by the JSON field names of the record.
const (
	MsgNameRequired  = "Name is required."
	MsgRegNoRequired = "Registration number is required."
	MsgDOBRequired   = "Date of birth is required."
	MsgMajorRequired = "Major is required."
	MsgGPANotNumber  = "GPA must be a number."
	MsgGPAOutOfRange = "GPA must be between 0.0 and 4.0."
)

// Validate checks a candidate record and returns a field-name → message
// mapping. An empty map means the candidate is valid.
//
// Every field is evaluated independently; nothing short-circuits, so a
// candidate missing three fields comes back with three entries. The
// function is pure: no I/O, no shared state.
func Validate(in types.StudentInput) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = MsgNameRequired
	}
	if strings.TrimSpace(in.RegistrationNumber) == "" {
		errs["registrationNumber"] = MsgRegNoRequired
	}
	if in.DOB == "" {
		errs["dob"] = MsgDOBRequired
	}
	if in.Major == "" {
		errs["major"] = MsgMajorRequired
	}

	// GPA: a nil pointer means the value was never supplied (or could
	// not be parsed from the form); NaN/Inf mean a parse produced a
	// non-finite number. Range is checked only for finite values.
	switch {
	case in.GPA == nil, math.IsNaN(*in.GPA), math.IsInf(*in.GPA, 0):
		errs["gpa"] = MsgGPANotNumber
	case *in.GPA < 0 || *in.GPA > 4:
		errs["gpa"] = MsgGPAOutOfRange
	}

	return errs
}
