package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/notify"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

// errMissingSermons is returned by coverage --strict when a Sunday or major
// feast has no sermon.
var errMissingSermons = errors.New("days without a sermon")

type dayResult struct {
	Date      calendar.CivilDate `json:"date"`
	FeastName string             `json:"feast_name,omitempty"`
	Sermon    *sermon.Sermon     `json:"sermon"`
	MatchType sermon.MatchType   `json:"match_type,omitempty"`
}

func writeSermonLine(w io.Writer, date calendar.CivilDate, s *sermon.Sermon, feast string) {
	fmt.Fprintf(w, "%s  %-9s ", date, calendar.DayNameRo(date))
	if s == nil {
		fmt.Fprint(w, "-")
	} else {
		fmt.Fprintf(w, "%s  [%s, %s]", s.Title, s.ID, s.Schedule())
	}
	if feast != "" {
		fmt.Fprintf(w, "  (%s)", feast)
	}
	fmt.Fprintln(w)
}

func (a *app) matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match [date]",
		Short: "Find the sermon of a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := a.today()
			if len(args) == 1 {
				d, err := parseDate(args[0])
				if err != nil {
					return err
				}
				date = d
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			res := dayResult{Date: date, FeastName: svc.generator.FeastName(date)}
			if dm, ok := svc.matcher.MatchDated(date); ok {
				res.Sermon, res.MatchType = dm.Sermon, dm.MatchType
			}

			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				writeSermonLine(w, res.Date, res.Sermon, res.FeastName)
				if res.Sermon != nil && res.Sermon.AudioURL != "" {
					fmt.Fprintf(w, "  %s\n", res.Sermon.AudioURL)
				}
			})
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <date>",
		Short: "Explain how the sermon of a date is chosen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			info := svc.matcher.Info(date)

			return a.render(cmd.OutOrStdout(), info, func(w io.Writer) {
				fmt.Fprintf(w, "Date:     %s (%d/%d)\n", info.Date, info.Month, info.Day)
				if info.PaschaOffset != nil {
					fmt.Fprintf(w, "Offset:   %+d  (%s)\n", *info.PaschaOffset, info.Season)
				} else {
					fmt.Fprintln(w, "Offset:   unknown")
				}
				if info.Sermon != nil {
					fmt.Fprintf(w, "Sermon:   %s [%s]\n", info.Sermon.Title, info.Sermon.ID)
				} else {
					fmt.Fprintln(w, "Sermon:   none")
				}
				for _, p := range info.Potential {
					fmt.Fprintf(w, "  candidate %s: %s\n", p.Sermon.ID, p.Reason)
				}
			})
		},
	}
}

func (a *app) monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month <year> <month>",
		Short: "List the days of a month that have a sermon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			month, err := parseMonth(args[1])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			matches := svc.matcher.ForMonth(year, month)
			if matches == nil {
				matches = []sermon.DatedMatch{}
			}
			return a.render(cmd.OutOrStdout(), matches, func(w io.Writer) {
				for _, m := range matches {
					writeSermonLine(w, m.Date, m.Sermon, "")
				}
			})
		},
	}
}

func (a *app) sundaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sundays <year> <month>",
		Short: "List the Sundays of a month with their sermons",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			month, err := parseMonth(args[1])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			sundays := svc.matcher.SundaysForMonth(year, month)
			return a.render(cmd.OutOrStdout(), sundays, func(w io.Writer) {
				for _, s := range sundays {
					writeSermonLine(w, s.Date, s.Sermon, svc.generator.FeastName(s.Date))
				}
			})
		},
	}
}

func (a *app) upcomingCmd() *cobra.Command {
	var (
		days int
		from string
	)

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the sermons of the coming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > 366 {
				return fmt.Errorf("--days must be between 1 and 366, got %d", days)
			}
			start := a.today()
			if from != "" {
				d, err := parseDate(from)
				if err != nil {
					return err
				}
				start = d
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			matches := svc.matcher.Upcoming(start, days)
			if matches == nil {
				matches = []sermon.DatedMatch{}
			}
			return a.render(cmd.OutOrStdout(), matches, func(w io.Writer) {
				for _, m := range matches {
					writeSermonLine(w, m.Date, m.Sermon, "")
				}
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "n", 7, "Number of days to look ahead")
	cmd.Flags().StringVar(&from, "from", "", "First day (default today)")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var (
		category string
		types    []string
		ascii    bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the sermon catalog",
		Long:  "Search sermon titles, descriptions, categories and gospel readings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sermon.SearchOptions{
				Query:            strings.Join(args, " "),
				Category:         category,
				IgnoreDiacritics: ascii,
				Limit:            limit,
			}
			for _, t := range types {
				st := sermon.Type(t)
				if !st.IsValid() {
					return fmt.Errorf("invalid --type %q, use fixed or movable", t)
				}
				opts.Types = append(opts.Types, st)
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			results := svc.matcher.Search(opts)
			if results == nil {
				results = []sermon.Sermon{}
			}
			return a.render(cmd.OutOrStdout(), results, func(w io.Writer) {
				for _, s := range results {
					fmt.Fprintf(w, "%-10s %-14s %s  (%s)\n", s.ID, s.Schedule(), s.Title, s.Category)
				}
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Exact category, case-insensitive")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Sermon types: fixed, movable")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "Ignore diacritics when matching")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Max results (0 for all)")
	return cmd
}

type coverageDay struct {
	Date      calendar.CivilDate `json:"date"`
	FeastName string             `json:"feast_name,omitempty"`
	Sunday    bool               `json:"sunday"`
}

type coverageReport struct {
	Year    int           `json:"year"`
	Days    int           `json:"days"`
	Covered int           `json:"covered"`
	Missing []coverageDay `json:"missing"`
}

func (a *app) coverageCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "coverage <year>",
		Short: "Report Sundays and major feasts of a year without a sermon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			report := coverageReport{Year: year, Missing: []coverageDay{}}
			for month := 1; month <= 12; month++ {
				for day := 1; day <= calendar.DaysIn(year, time.Month(month)); day++ {
					date := calendar.NewDate(year, time.Month(month), day)
					sunday := date.Weekday() == time.Sunday
					if !sunday && !svc.generator.IsMajorFeast(date) {
						continue
					}

					report.Days++
					if svc.matcher.Match(date) != nil {
						report.Covered++
						continue
					}
					report.Missing = append(report.Missing, coverageDay{
						Date:      date,
						FeastName: svc.generator.FeastName(date),
						Sunday:    sunday,
					})
				}
			}

			err = a.render(cmd.OutOrStdout(), report, func(w io.Writer) {
				fmt.Fprintf(w, "Year %d: %d of %d Sundays and major feasts have a sermon\n",
					report.Year, report.Covered, report.Days)
				for _, m := range report.Missing {
					writeSermonLine(w, m.Date, nil, m.FeastName)
				}
			})
			if err != nil {
				return err
			}
			if strict && len(report.Missing) > 0 {
				return fmt.Errorf("%w: %d", errMissingSermons, len(report.Missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error if any day is missing")
	return cmd
}

func (a *app) reminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminder <date>",
		Short: "Preview the reminder sent the evening before a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			planner := notify.NewPlanner(svc.generator, svc.matcher, a.location())
			r, ok := planner.PlanFor(date)
			if !ok {
				return a.render(cmd.OutOrStdout(), nil, func(w io.Writer) {
					fmt.Fprintf(w, "%s: no reminder (not a Sunday or major feast)\n", date)
				})
			}

			return a.render(cmd.OutOrStdout(), r, func(w io.Writer) {
				fmt.Fprintf(w, "At:    %s\n", r.At.Format("2006-01-02 15:04 MST"))
				fmt.Fprintf(w, "Title: %s\n", r.Title)
				fmt.Fprintf(w, "Body:  %s\n", r.Body)
			})
		},
	}
}
