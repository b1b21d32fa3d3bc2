package sermon

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/predici-api/internal/calendar"
)

var (
	// ErrInvalidSermon is returned for catalog entries that fail validation.
	ErrInvalidSermon = errors.New("invalid sermon")

	// ErrDuplicateID is returned when two catalog entries share an id.
	ErrDuplicateID = errors.New("duplicate sermon id")
)

var validate = sync.OnceValue(newValidator)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})

	v.RegisterStructValidation(sermonStructLevel, Sermon{})
	return v
}

// sermonStructLevel enforces the fields each sermon type depends on.
func sermonStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(Sermon)

	switch s.Type {
	case TypeFixed:
		if s.FixedMonth == nil {
			sl.ReportError(s.FixedMonth, "fixed_month", "FixedMonth", "required_for_fixed", "")
		}
		if s.FixedDay == nil {
			sl.ReportError(s.FixedDay, "fixed_day", "FixedDay", "required_for_fixed", "")
		}
		if s.FixedMonth != nil && s.FixedDay != nil && *s.FixedMonth >= 1 && *s.FixedMonth <= 12 {
			// leap year so that 29 February is accepted
			if last := calendar.DaysIn(2024, time.Month(*s.FixedMonth)); *s.FixedDay > last {
				sl.ReportError(s.FixedDay, "fixed_day", "FixedDay", "day_in_month", fmt.Sprint(last))
			}
		}
	case TypeMovable:
		if s.PaschaOffset == nil {
			sl.ReportError(s.PaschaOffset, "pascha_offset", "PaschaOffset", "required_for_movable", "")
		}
	}
}

// Validate checks a catalog entry. The returned error wraps
// ErrInvalidSermon and lists every failing field.
func Validate(s Sermon) error {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w %q: %w", ErrInvalidSermon, s.ID, err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fieldError(fe))
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidSermon, s.ID, errors.Join(errs...))
}

func fieldError(fe validator.FieldError) error {
	if fe.Param() != "" {
		return fmt.Errorf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s: failed %s", fe.Field(), fe.Tag())
}

// SplitValid separates catalog into entries that pass Validate and errors
// describing the rest. The first entry with a given id wins; later ones are
// rejected with ErrDuplicateID. Catalog order is preserved.
func SplitValid(catalog []Sermon) ([]Sermon, []error) {
	valid := make([]Sermon, 0, len(catalog))
	var rejected []error
	seen := make(map[string]bool, len(catalog))

	for i, s := range catalog {
		if err := Validate(s); err != nil {
			rejected = append(rejected, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if seen[s.ID] {
			rejected = append(rejected, fmt.Errorf("entry %d: %w %q", i, ErrDuplicateID, s.ID))
			continue
		}
		seen[s.ID] = true
		valid = append(valid, s)
	}
	return valid, rejected
}
