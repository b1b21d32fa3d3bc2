// Package notify plans and delivers the evening reminder for the next day's
// sermon.
package notify

import (
	"strings"
	"time"

	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

const (
	// DefaultBody is the reminder text when no sermon is matched.
	DefaultBody = "Ascultă predica de astăzi"

	// defaultFeastName labels an ordinary Sunday.
	defaultFeastName = "Duminică"

	// deliveryHour is the local hour the reminder is meant to be shown on
	// the target day.
	deliveryHour = 8
)

// Reminder is a planned notification for a Sunday or major feast.
type Reminder struct {
	Date      calendar.CivilDate `json:"date"`
	At        time.Time          `json:"at"`
	Title     string             `json:"title"`
	Body      string             `json:"body"`
	FeastName string             `json:"feast_name"`
	Sunday    bool               `json:"sunday"`
	Sermon    *sermon.Sermon     `json:"sermon,omitempty"`
}

// greetingRule maps any of a set of feast-name fragments to a greeting.
type greetingRule struct {
	fragments []string
	greeting  string
}

// greetingRules are checked in order; the first rule with a matching
// fragment wins.
var greetingRules = []greetingRule{
	{
		fragments: []string{"Învierea", "PAȘTELE", "Paștele", "Luminată", "Tomii", "Mironosițelor", "Slăbănogului", "Samarinencei", "Orbului"},
		greeting:  "Hristos a Înviat!",
	},
	{
		fragments: []string{"Nașterea Domnului", "Crăciunul"},
		greeting:  "Hristos Se naște!",
	},
	{
		fragments: []string{"Bobotează", "Botezul Domnului"},
		greeting:  "Bine ai venit la rugăciune!",
	},
	{
		fragments: []string{"Rusalii", "RUSALIILE", "Sfântului Duh"},
		greeting:  "Duhul Sfânt să vă lumineze!",
	},
}

// Greeting returns the seasonal greeting for a feast name.
func Greeting(feastName string) string {
	for _, rule := range greetingRules {
		for _, frag := range rule.fragments {
			if strings.Contains(feastName, frag) {
				return rule.greeting
			}
		}
	}
	return "Duminică binecuvântată!"
}

// Planner decides whether tomorrow deserves a reminder and builds it.
type Planner struct {
	generator *calendar.Generator
	matcher   *sermon.Matcher
	loc       *time.Location
}

// NewPlanner creates a planner. matcher may be nil, in which case reminders
// carry no sermon. A nil loc means UTC.
func NewPlanner(generator *calendar.Generator, matcher *sermon.Matcher, loc *time.Location) *Planner {
	if loc == nil {
		loc = time.UTC
	}
	return &Planner{generator: generator, matcher: matcher, loc: loc}
}

// Plan returns the reminder for the day after now, in the planner's time
// zone, if that day is a Sunday or a major feast.
func (p *Planner) Plan(now time.Time) (*Reminder, bool) {
	tomorrow := calendar.DateOf(now.In(p.loc)).AddDays(1)
	return p.PlanFor(tomorrow)
}

// PlanFor builds the reminder for date itself.
func (p *Planner) PlanFor(date calendar.CivilDate) (*Reminder, bool) {
	sunday := date.Weekday() == time.Sunday
	if !sunday && !p.generator.IsMajorFeast(date) {
		return nil, false
	}

	feast := p.generator.FeastName(date)
	greeting := Greeting(feast)

	title := greeting
	if feast != "" && !strings.HasPrefix(feast, "Duminica a") {
		title = greeting + " - " + feast
	}
	if feast == "" {
		feast = defaultFeastName
	}

	r := &Reminder{
		Date:      date,
		At:        time.Date(date.Year, date.Month, date.Day, deliveryHour, 0, 0, 0, p.loc),
		Title:     title,
		Body:      DefaultBody,
		FeastName: feast,
		Sunday:    sunday,
	}

	if p.matcher != nil {
		if s := p.matcher.Match(date); s != nil {
			r.Sermon = s
			r.Body = DefaultBody + ": " + s.Title
		}
	}

	return r, true
}
