package validation_test

import (
	"testing"

	"github.com/PraneethJain/simplipy-backend/internal/platform/validation"
)

func TestGoplaygroundValidator_ValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		given    any
		field    string
		hasError bool
		errMsg   string
	}{
		{"Required field is present", struct {
			Code string `validate:"required"`
		}{Code: "x = 1"}, "Code", false, ""},
		{"Required field is missing", struct {
			Code string `validate:"required"`
		}{}, "Code", true, "Code is required"},
		{"Invalid uuid", struct {
			SessionID string `validate:"uuid"`
		}{SessionID: "not-a-uuid"}, "SessionID", true, "SessionID must be a valid UUID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := validation.NewGoPlaygroundValidator()

			errs := v.ValidateStruct(tc.given)
			if errs != nil && !tc.hasError {
				t.Errorf("v.ValidateStruct(%v) = %+v, want: %+v", tc.given, errs, nil)
			}

			gotMsg, wantMsg := errs[tc.field], tc.errMsg
			if gotMsg != wantMsg {
				t.Errorf("errs[%q] = %q, want: %q", tc.field, gotMsg, wantMsg)
			}
		})
	}
}
