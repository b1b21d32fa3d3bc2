// Package sermon holds the sermon catalog model and the matcher that
// resolves a calendar date to the sermon appointed for it.
package sermon

import (
	"fmt"
	"time"
)

// Type tells which calendar a sermon follows.
type Type string

const (
	// TypeFixed sermons fall on the same month and day every year.
	TypeFixed Type = "fixed"
	// TypeMovable sermons are placed by their offset from Pascha.
	TypeMovable Type = "movable"
)

// ValidTypes returns all sermon types.
func ValidTypes() []Type {
	return []Type{TypeFixed, TypeMovable}
}

// IsValid checks if a sermon type is known.
func (t Type) IsValid() bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Categories used by the bundled catalog.
const (
	CategorySunday  = "Predici Duminicale"
	CategoryFeast   = "Predici de Sărbători"
	CategoryCourse  = "Cursuri Biblice"
	CategorySpecial = "Predici Speciale"
)

// Sermon is one catalog entry.
//
// A fixed sermon carries FixedMonth and FixedDay; a movable sermon carries
// PaschaOffset. Several sermons may share an offset or a fixed date; catalog
// order decides which one is surfaced.
type Sermon struct {
	ID             string `json:"id" yaml:"id" validate:"required"`
	Title          string `json:"title" yaml:"title" validate:"required"`
	Category       string `json:"category" yaml:"category" validate:"required"`
	AudioURL       string `json:"audio_url" yaml:"audio_url" validate:"required,url"`
	Type           Type   `json:"type" yaml:"type" validate:"required,oneof=fixed movable"`
	FixedMonth     *int   `json:"fixed_month,omitempty" yaml:"fixed_month,omitempty" validate:"omitempty,min=1,max=12"`
	FixedDay       *int   `json:"fixed_day,omitempty" yaml:"fixed_day,omitempty" validate:"omitempty,min=1,max=31"`
	PaschaOffset   *int   `json:"pascha_offset,omitempty" yaml:"pascha_offset,omitempty"`
	Duration       string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	GospelReading  string `json:"gospel_reading,omitempty" yaml:"gospel_reading,omitempty"`
	LiturgicalDate string `json:"liturgical_date,omitempty" yaml:"liturgical_date,omitempty"`
}

// IsFixed reports whether s follows the fixed calendar.
func (s *Sermon) IsFixed() bool { return s.Type == TypeFixed }

// IsMovable reports whether s follows the Paschal cycle.
func (s *Sermon) IsMovable() bool { return s.Type == TypeMovable }

// matchesFixed reports whether s is a well-formed fixed sermon for month/day.
func (s *Sermon) matchesFixed(month time.Month, day int) bool {
	if !s.IsFixed() || s.FixedMonth == nil || s.FixedDay == nil {
		return false
	}
	return *s.FixedMonth == int(month) && *s.FixedDay == day
}

// matchesOffset reports whether s is a well-formed movable sermon for offset.
func (s *Sermon) matchesOffset(offset int) bool {
	if !s.IsMovable() || s.PaschaOffset == nil {
		return false
	}
	return *s.PaschaOffset == offset
}

// Schedule describes when s is read, e.g. "6 ianuarie" or "Paști -7".
func (s *Sermon) Schedule() string {
	switch {
	case s.IsFixed() && s.FixedMonth != nil && s.FixedDay != nil:
		if *s.FixedMonth < 1 || *s.FixedMonth > 12 {
			return "dată invalidă"
		}
		return fmt.Sprintf("%d %s", *s.FixedDay, monthNamesRo[*s.FixedMonth-1])
	case s.IsMovable() && s.PaschaOffset != nil:
		switch off := *s.PaschaOffset; {
		case off == 0:
			return "Paști"
		case off > 0:
			return fmt.Sprintf("Paști +%d", off)
		default:
			return fmt.Sprintf("Paști %d", off)
		}
	}
	return "nedefinit"
}

var monthNamesRo = [12]string{
	"ianuarie", "februarie", "martie", "aprilie", "mai", "iunie",
	"iulie", "august", "septembrie", "octombrie", "noiembrie", "decembrie",
}

// Int returns a pointer to v, for building catalog literals.
func Int(v int) *int { return &v }
