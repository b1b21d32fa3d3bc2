package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/predici-api/internal/calendar"
)

type paschaResult struct {
	Year     int                `json:"year"`
	Date     calendar.CivilDate `json:"date"`
	Source   calendar.Source    `json:"source"`
	Verified bool               `json:"verified"`
}

func (a *app) paschaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pascha [year...]",
		Short: "Show the Orthodox Pascha date of one or more years",
		Long:  "Show the Orthodox Pascha date of each year given, or of the current year.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := a.lookup()
			if err != nil {
				return err
			}
			chain := calendar.NewChain(lookup, a.logger)

			if len(args) == 0 {
				args = []string{fmt.Sprint(a.today().Year)}
			}

			results := make([]paschaResult, 0, len(args))
			for _, arg := range args {
				year, err := parseYear(arg)
				if err != nil {
					return err
				}

				res := paschaResult{Year: year, Verified: lookup.Has(year)}
				switch calendar.Strategy(a.strategy) {
				case calendar.StrategyLookup:
					d, ok := lookup.Pascha(year)
					if !ok {
						return fmt.Errorf("year %d is outside the verified table", year)
					}
					res.Date, res.Source = d, calendar.SourceLookup
				case calendar.StrategyAlgorithmic:
					res.Date, res.Source = calendar.ComputePascha(year), calendar.SourceAlgorithmic
				default:
					res.Date, res.Source = chain.Resolve(year)
				}
				results = append(results, res)
			}

			return a.render(cmd.OutOrStdout(), results, func(w io.Writer) {
				for _, r := range results {
					mark := ""
					if !r.Verified {
						mark = "  (unverified)"
					}
					fmt.Fprintf(w, "%d  %s  %-9s %s%s\n", r.Year, r.Date, calendar.DayNameRo(r.Date), r.Source, mark)
				}
			})
		},
	}
}

func (a *app) yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years covered by the verified Pascha table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := a.lookup()
			if err != nil {
				return err
			}
			years := lookup.AvailableYears()
			info := lookup.Info()

			out := map[string]any{"years": years, "table": info}
			return a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "Source:       %s\n", info.Source)
				fmt.Fprintf(w, "Last updated: %s\n", info.LastUpdated)
				for _, y := range years {
					d, _ := lookup.Pascha(y)
					fmt.Fprintf(w, "  %d  %s\n", y, d)
				}
			})
		},
	}
}

type offsetResult struct {
	Date      calendar.CivilDate `json:"date"`
	Pascha    calendar.CivilDate `json:"pascha"`
	Offset    int                `json:"pascha_offset"`
	Season    calendar.Season    `json:"season"`
	FeastName string             `json:"feast_name,omitempty"`
}

func (a *app) offsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offset <date>",
		Short: "Show the Pascha offset, season and feast of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			resolver, _, err := a.resolver()
			if err != nil {
				return err
			}

			pascha, ok := resolver.Pascha(date.Year)
			if !ok {
				return fmt.Errorf("no Pascha date for %d with strategy %s", date.Year, a.strategy)
			}
			offset := calendar.Offset(date, pascha)
			res := offsetResult{
				Date:      date,
				Pascha:    pascha,
				Offset:    offset,
				Season:    calendar.SeasonFor(offset),
				FeastName: calendar.NewGenerator(resolver).FeastName(date),
			}

			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "%s  %s  Paști %+d  (%s)", res.Date, calendar.DayNameRo(res.Date), res.Offset, res.Season)
				if res.FeastName != "" {
					fmt.Fprintf(w, "  %s", res.FeastName)
				}
				fmt.Fprintln(w)
			})
		},
	}
}

func (a *app) seasonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "season <date>",
		Short: "Show the liturgical season of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			resolver, _, err := a.resolver()
			if err != nil {
				return err
			}
			offset, ok := calendar.NewOffsetCalculator(resolver).OffsetOf(date)
			if !ok {
				return fmt.Errorf("no Pascha date for %d with strategy %s", date.Year, a.strategy)
			}
			season := calendar.SeasonFor(offset)

			out := map[string]any{"date": date, "season": season}
			return a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "%s  %s\n", date, season)
			})
		},
	}
}

func (a *app) calendarCmd() *cobra.Command {
	var movableOnly bool

	cmd := &cobra.Command{
		Use:   "calendar <year>",
		Short: "Print the liturgical calendar of a year",
		Long: "Print every feast of a year in date order. Fixed and movable feasts that\n" +
			"share a date are joined with \" / \". With --movable only the feasts\n" +
			"derived from Pascha are listed, with their offsets.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			resolver, _, err := a.resolver()
			if err != nil {
				return err
			}
			gen := calendar.NewGenerator(resolver)

			if movableOnly {
				feasts, ok := gen.Generate(year)
				if !ok {
					return fmt.Errorf("no Pascha date for %d with strategy %s", year, a.strategy)
				}
				return a.render(cmd.OutOrStdout(), feasts, func(w io.Writer) {
					for _, f := range feasts {
						fmt.Fprintf(w, "%s  %+4d  %s\n", f.Date, f.Offset, f.NameRo)
					}
				})
			}

			entries, ok := gen.Entries(year)
			if !ok {
				return fmt.Errorf("no Pascha date for %d with strategy %s", year, a.strategy)
			}
			return a.render(cmd.OutOrStdout(), entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%s  %-9s %s\n", e.Date, calendar.DayNameRo(e.Date), e.Name)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&movableOnly, "movable", false, "List only movable feasts")
	return cmd
}

func (a *app) icsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ics <year>",
		Short: "Export the liturgical calendar of a year as iCalendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			resolver, _, err := a.resolver()
			if err != nil {
				return err
			}
			entries, ok := calendar.NewGenerator(resolver).Entries(year)
			if !ok {
				return fmt.Errorf("no Pascha date for %d with strategy %s", year, a.strategy)
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return calendar.WriteICS(w, year, entries, a.now())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
