package calendar

// Season is a liturgical period of the Orthodox year.
type Season string

const (
	SeasonTriod          Season = "Triod"              // pre-Lenten Sundays
	SeasonGreatLent      Season = "Postul Mare"        // Great Lent and Holy Week
	SeasonBrightWeek     Season = "Săptămâna Luminată" // Pascha through Thomas Sunday
	SeasonPaschal        Season = "Perioada Paștală"   // until Pentecost
	SeasonAfterPentecost Season = "După Rusalii"
	SeasonOrdinary       Season = "Perioada Obișnuită"
)

// SeasonFor classifies a Pascha offset.
//
//	-70..-49  Triod
//	-48..-1   Great Lent
//	  0..7    Bright Week
//	  8..49   Paschal season
//	 50..     After Pentecost
//
// Anything earlier than the Triod is ordinary time.
func SeasonFor(offset int) Season {
	switch {
	case offset >= -70 && offset <= -49:
		return SeasonTriod
	case offset >= -48 && offset <= -1:
		return SeasonGreatLent
	case offset >= 0 && offset <= 7:
		return SeasonBrightWeek
	case offset >= 8 && offset <= 49:
		return SeasonPaschal
	case offset >= 50:
		return SeasonAfterPentecost
	default:
		return SeasonOrdinary
	}
}
