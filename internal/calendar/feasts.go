package calendar

import "time"

// Feast is a movable observance defined by its offset from Pascha.
type Feast struct {
	Name   string `json:"name"`
	NameRo string `json:"name_ro"`
	Offset int    `json:"offset"`
	Major  bool   `json:"major,omitempty"`
}

// FixedFeast is an observance on the same month and day every year.
type FixedFeast struct {
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	NameRo string     `json:"name_ro"`
	Major  bool       `json:"major,omitempty"`
}

// movableFeasts lists the movable feasts and Sundays in Pascha order.
var movableFeasts = []Feast{
	// Pre-Lenten Sundays (Triod)
	{Name: "Sunday of the Publican and Pharisee", NameRo: "Duminica Vameșului și a Fariseului", Offset: -70},
	{Name: "Sunday of the Prodigal Son", NameRo: "Duminica Fiului Risipitor", Offset: -63},
	{Name: "Sunday of the Last Judgment (Meatfare)", NameRo: "Duminica Înfricoșătoarei Judecăți", Offset: -56},
	{Name: "Forgiveness Sunday (Cheesefare)", NameRo: "Duminica Izgonirii lui Adam din Rai", Offset: -49},

	// Great Lent
	{Name: "Beginning of Great Lent (Clean Monday)", NameRo: "Începutul Postului Mare", Offset: -48},
	{Name: "Sunday of Orthodoxy (1st Sunday of Lent)", NameRo: "Duminica Ortodoxiei", Offset: -42},
	{Name: "Sunday of St. Gregory Palamas (2nd Sunday of Lent)", NameRo: "Sfântul Grigorie Palama", Offset: -35},
	{Name: "Sunday of the Holy Cross (3rd Sunday of Lent)", NameRo: "Duminica Sfintei Cruci", Offset: -28},
	{Name: "Sunday of St. John Climacus (4th Sunday of Lent)", NameRo: "Sfântul Ioan Scărarul", Offset: -21},
	{Name: "Sunday of St. Mary of Egypt (5th Sunday of Lent)", NameRo: "Sfânta Maria Egipteanca", Offset: -14},

	// Holy Week
	{Name: "Palm Sunday (Entry into Jerusalem)", NameRo: "Duminica Floriilor", Offset: -7},
	{Name: "Holy Monday", NameRo: "Lunea Mare", Offset: -6},
	{Name: "Holy Tuesday", NameRo: "Marțea Mare", Offset: -5},
	{Name: "Holy Wednesday", NameRo: "Miercurea Mare", Offset: -4},
	{Name: "Holy Thursday", NameRo: "Joia Mare", Offset: -3},
	{Name: "Good Friday (Crucifixion)", NameRo: "Vinerea Mare", Offset: -2},
	{Name: "Holy Saturday", NameRo: "Sâmbăta Mare", Offset: -1},

	// Pascha and Bright Week
	{Name: "PASCHA - Resurrection of Our Lord", NameRo: "PAȘTELE - Învierea Domnului", Offset: 0, Major: true},
	{Name: "Bright Monday", NameRo: "Lunea Luminată", Offset: 1},
	{Name: "Bright Tuesday", NameRo: "Marțea Luminată", Offset: 2},
	{Name: "Bright Wednesday", NameRo: "Miercurea Luminată", Offset: 3},
	{Name: "Bright Thursday", NameRo: "Joia Luminată", Offset: 4},
	{Name: "Bright Friday", NameRo: "Vinerea Luminată", Offset: 5},
	{Name: "Bright Saturday", NameRo: "Sâmbăta Luminată", Offset: 6},

	// Post-Paschal Sundays
	{Name: "Thomas Sunday (Antipascha)", NameRo: "Duminica Tomii", Offset: 7},
	{Name: "Sunday of the Myrrhbearers", NameRo: "Duminica Mironosițelor", Offset: 14},
	{Name: "Sunday of the Paralytic", NameRo: "Duminica Slăbănogului", Offset: 21},
	{Name: "Sunday of the Samaritan Woman", NameRo: "Duminica Samarinencei", Offset: 28},
	{Name: "Sunday of the Blind Man", NameRo: "Duminica Orbului", Offset: 35},

	// Ascension to All Saints
	{Name: "Ascension of Our Lord", NameRo: "Înălțarea Domnului", Offset: 39, Major: true},
	{Name: "Sunday of the Fathers of the First Ecumenical Council", NameRo: "Duminica Sfinților Părinți", Offset: 42},
	{Name: "PENTECOST - Descent of the Holy Spirit", NameRo: "RUSALIILE - Pogorârea Sfântului Duh", Offset: 49, Major: true},
	{Name: "Monday of the Holy Spirit", NameRo: "Lunea Sfântului Duh", Offset: 50},
	{Name: "Sunday of All Saints", NameRo: "Duminica Tuturor Sfinților", Offset: 56},
}

// fixedFeasts lists the fixed feasts in calendar order.
var fixedFeasts = []FixedFeast{
	{Month: time.January, Day: 1, NameRo: "Anul Nou - Sfântul Vasile cel Mare"},
	{Month: time.January, Day: 6, NameRo: "Bobotează - Botezul Domnului", Major: true},
	{Month: time.January, Day: 7, NameRo: "Sfântul Ioan Botezătorul"},
	{Month: time.January, Day: 30, NameRo: "Sfinții Trei Ierarhi"},
	{Month: time.February, Day: 2, NameRo: "Întâmpinarea Domnului"},
	{Month: time.March, Day: 9, NameRo: "Sfinții 40 de Mucenici"},
	{Month: time.March, Day: 25, NameRo: "Buna Vestire", Major: true},
	{Month: time.April, Day: 23, NameRo: "Sfântul Gheorghe"},
	{Month: time.May, Day: 21, NameRo: "Sfinții Constantin și Elena"},
	{Month: time.June, Day: 29, NameRo: "Sfinții Petru și Pavel"},
	{Month: time.July, Day: 20, NameRo: "Sfântul Ilie"},
	{Month: time.August, Day: 6, NameRo: "Schimbarea la Față", Major: true},
	{Month: time.August, Day: 15, NameRo: "Adormirea Maicii Domnului", Major: true},
	{Month: time.August, Day: 29, NameRo: "Tăierea Capului Sfântului Ioan Botezătorul"},
	{Month: time.September, Day: 8, NameRo: "Nașterea Maicii Domnului", Major: true},
	{Month: time.September, Day: 14, NameRo: "Înălțarea Sfintei Cruci", Major: true},
	{Month: time.October, Day: 14, NameRo: "Acoperământul Maicii Domnului"},
	{Month: time.November, Day: 8, NameRo: "Soborul Sfinților Arhangheli Mihail și Gavriil"},
	{Month: time.November, Day: 21, NameRo: "Intrarea în Biserică a Maicii Domnului", Major: true},
	{Month: time.November, Day: 30, NameRo: "Sfântul Apostol Andrei"},
	{Month: time.December, Day: 6, NameRo: "Sfântul Nicolae"},
	{Month: time.December, Day: 25, NameRo: "Nașterea Domnului - Crăciunul", Major: true},
	{Month: time.December, Day: 26, NameRo: "Soborul Maicii Domnului"},
	{Month: time.December, Day: 27, NameRo: "Sfântul Ștefan"},
}

// fixedByKey indexes fixedFeasts by "month-day".
var fixedByKey = func() map[string]FixedFeast {
	m := make(map[string]FixedFeast, len(fixedFeasts))
	for _, f := range fixedFeasts {
		m[f.Key()] = f
	}
	return m
}()

// Key returns the "month-day" key of the feast, e.g. "12-25".
func (f FixedFeast) Key() string {
	return NewDate(2000, f.Month, f.Day).MonthDayKey()
}

// MovableFeasts returns a copy of the movable feast table.
func MovableFeasts() []Feast {
	out := make([]Feast, len(movableFeasts))
	copy(out, movableFeasts)
	return out
}

// FixedFeasts returns a copy of the fixed feast table.
func FixedFeasts() []FixedFeast {
	out := make([]FixedFeast, len(fixedFeasts))
	copy(out, fixedFeasts)
	return out
}

// FixedFeastOn returns the fixed feast celebrated on date's month and day.
func FixedFeastOn(date CivilDate) (FixedFeast, bool) {
	f, ok := fixedByKey[date.MonthDayKey()]
	return f, ok
}

// MovableFeastAt returns the movable feast with the given Pascha offset.
// Sundays after Pentecost are not in the table; see Generator.Generate.
func MovableFeastAt(offset int) (Feast, bool) {
	for _, f := range movableFeasts {
		if f.Offset == offset {
			return f, true
		}
	}
	return Feast{}, false
}
