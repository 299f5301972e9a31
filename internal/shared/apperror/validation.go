package apperror

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts ozzo-validation errors into a Validation
// AppError. Fields named in order come first, the rest alphabetically.
// Errors that are not validation.Errors are returned unchanged.
func FromValidation(err error, order ...string) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	names := make([]string, 0, len(verrs))
	for name := range verrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})

	fields := make([]FieldError, 0, len(names))
	for _, name := range names {
		fields = append(fields, FieldError{Field: name, Message: verrs[name].Error()})
	}
	return Validation("VALIDATION_FAILED", "Validation failed", fields...)
}
