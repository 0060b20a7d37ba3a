package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/student-directory/internal/types"
)

func gpa(v float64) *float64 { return &v }

func validInput() types.StudentInput {
	return types.StudentInput{
		Name:               "Ann",
		RegistrationNumber: "R1",
		DOB:                "2000-01-01",
		Major:              "Physics",
		GPA:                gpa(3.5),
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid candidate returns empty map", func(t *testing.T) {
		assert.Empty(t, Validate(validInput()))
	})

	t.Run("flags exactly the missing fields", func(t *testing.T) {
		in := types.StudentInput{GPA: gpa(2.0)}
		errs := Validate(in)

		assert.Len(t, errs, 4)
		assert.Equal(t, MsgNameRequired, errs["name"])
		assert.Equal(t, MsgRegNoRequired, errs["registrationNumber"])
		assert.Equal(t, MsgDOBRequired, errs["dob"])
		assert.Equal(t, MsgMajorRequired, errs["major"])
		assert.NotContains(t, errs, "gpa")
	})

	t.Run("whitespace-only name and registration number are empty", func(t *testing.T) {
		in := validInput()
		in.Name = "   "
		in.RegistrationNumber = "\t"
		errs := Validate(in)

		assert.Equal(t, MsgNameRequired, errs["name"])
		assert.Equal(t, MsgRegNoRequired, errs["registrationNumber"])
	})

	t.Run("gpa range", func(t *testing.T) {
		cases := []struct {
			name string
			gpa  float64
			msg  string
		}{
			{"below range", -0.1, MsgGPAOutOfRange},
			{"above range", 4.01, MsgGPAOutOfRange},
			{"lower bound ok", 0.0, ""},
			{"upper bound ok", 4.0, ""},
			{"interior ok", 3.5, ""},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := validInput()
				in.GPA = gpa(tc.gpa)
				errs := Validate(in)
				if tc.msg == "" {
					assert.NotContains(t, errs, "gpa")
				} else {
					assert.Equal(t, tc.msg, errs["gpa"])
				}
			})
		}
	})

	t.Run("gpa must be a finite number", func(t *testing.T) {
		for _, v := range []*float64{nil, gpa(math.NaN()), gpa(math.Inf(1)), gpa(math.Inf(-1))} {
			in := validInput()
			in.GPA = v
			assert.Equal(t, MsgGPANotNumber, Validate(in)["gpa"])
		}
	})

	t.Run("all violations are collected in one pass", func(t *testing.T) {
		errs := Validate(types.StudentInput{})
		assert.Len(t, errs, 5)
	})
}
