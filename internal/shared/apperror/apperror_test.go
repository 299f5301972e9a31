package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"validation", Validation("BAD_INPUT", "bad"), http.StatusBadRequest, "BAD_INPUT"},
		{"not found", NotFound("PROFILE_NOT_FOUND", "missing"), http.StatusNotFound, "PROFILE_NOT_FOUND"},
		{"conflict", Conflict("DUP", "dup"), http.StatusConflict, "DUP"},
		{"unauthorized", Unauthorized("AUTH", "no"), http.StatusUnauthorized, "AUTH"},
		{"encoding", Encoding("QR", "too long", errors.New("x")), http.StatusInternalServerError, "QR"},
		{"io", IO("WRITE", "disk", errors.New("x")), http.StatusInternalServerError, "WRITE"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("NF", "nf")), http.StatusNotFound, "NF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWrap_KeepsKindAndFields(t *testing.T) {
	inner := Validation("INVALID", "bad", FieldError{Field: "fullName", Message: "required"})

	wrapped := Wrap(inner, "GENERATION_FAILED", "Profile generation failed")

	assert.Equal(t, KindValidation, wrapped.Kind)
	assert.Equal(t, "GENERATION_FAILED", wrapped.Code)
	assert.Len(t, wrapped.Fields, 1)
	assert.True(t, errors.Is(wrapped, inner))
}

func TestWrap_ForeignErrorBecomesInternal(t *testing.T) {
	base := errors.New("disk gone")

	wrapped := Wrap(base, "X", "context")

	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.ErrorIs(t, wrapped, base)
	assert.Nil(t, Wrap(nil, "X", "y"))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[A] msg", NotFound("A", "msg").Error())
	assert.Equal(t, "[B] msg: cause", IO("B", "msg", errors.New("cause")).Error())
}

func TestFromValidation_OrdersFields(t *testing.T) {
	verrs := validation.Errors{
		"zeta":            errors.New("z"),
		"highSchoolName":  errors.New("School name is required"),
		"fullName":        errors.New("Full name is required (min 2 characters)"),
		"primaryPosition": errors.New("Position is required"),
	}

	err := FromValidation(verrs, "fullName", "primaryPosition", "highSchoolName")

	fields := FieldsOf(err)
	require.Len(t, fields, 4)
	assert.Equal(t, "fullName", fields[0].Field)
	assert.Equal(t, "primaryPosition", fields[1].Field)
	assert.Equal(t, "highSchoolName", fields[2].Field)
	assert.Equal(t, "zeta", fields[3].Field)
	assert.True(t, IsKind(err, KindValidation))
}

func TestFromValidation_PassThrough(t *testing.T) {
	assert.NoError(t, FromValidation(nil))
	plain := errors.New("internal")
	assert.Same(t, plain, FromValidation(plain))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Could not create profiles directory",
		MessageOf(IO("DIR", "Could not create profiles directory", errors.New("denied"))))
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
}
