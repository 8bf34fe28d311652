package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/zapponejosh/julian/internal/calendar"
	"github.com/zapponejosh/julian/internal/convert"
	"github.com/zapponejosh/julian/internal/format"
)

// This script generates sample dates at calendar boundaries (year ends,
// leap days and the Reformation) with their Julian Day Numbers, as CSV
// suitable for cross-checking against other converters.

func main() {
	from := flag.Int("from", 1580, "First year to sample")
	to := flag.Int("to", 1605, "Last year to sample")
	flag.Parse()

	if *from > *to {
		fmt.Fprintf(os.Stderr, "-from %d is after -to %d\n", *from, *to)
		os.Exit(2)
	}

	fmt.Printf("=== Calendar Boundary Dates %d-%d ===\n\n", *from, *to)

	type sample struct {
		moment calendar.CalendarMoment
		label  string
	}

	var samples []sample
	add := func(year, month, day int, label string) {
		m, err := calendar.FromCivil(year, month, day)
		if err != nil {
			// February 29 of common years, October 5-14 of 1582
			return
		}
		samples = append(samples, sample{m, label})
	}

	// ==========================================================================
	// YEAR BOUNDARIES AND LEAP DAYS
	// ==========================================================================
	for year := *from; year <= *to; year++ {
		add(year, 1, 1, "year start")
		add(year, 2, 28, "")
		add(year, 2, 29, "leap day")
		add(year, 3, 1, "")
		add(year, 12, 31, "year end")
	}

	// ==========================================================================
	// REFORMATION (1582-10-04 Julian is followed by 1582-10-15 Gregorian)
	// ==========================================================================
	if *from <= 1582 && 1582 <= *to {
		add(1582, 10, 4, "last Julian day")
		add(1582, 10, 15, "first Gregorian day")
	}

	sort.Slice(samples, func(i, j int) bool {
		return calendar.Compare(samples[i].moment, samples[j].moment) < 0
	})

	conv := convert.New(format.Options{}, convert.OldStyle{Mode: convert.ModeAlways})

	// Count samples by year kind
	kindCounts := make(map[calendar.LeapKind]int)
	var rows [][]string
	for _, s := range samples {
		kindCounts[calendar.KindOf(s.moment.Year)]++

		r, err := conv.FromCalendar(s.moment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "convert year %d day %d: %v\n", s.moment.Year, s.moment.DayOfYear, err)
			os.Exit(1)
		}

		// The Julian side is rendered with Places 0, so it is the bare day number.
		back, err := conv.FromJulian(r.JulianMoment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "convert %s back: %v\n", r.Julian, err)
			os.Exit(1)
		}
		if back.Calendar != r.Calendar {
			fmt.Fprintf(os.Stderr, "round trip mismatch: %s -> %s -> %s\n", r.Calendar, r.Julian, back.Calendar)
			os.Exit(1)
		}

		rows = append(rows, []string{r.Calendar, r.Julian, back.OldStyle, s.label})
	}

	fmt.Println("Samples by year kind:")
	for _, k := range []calendar.LeapKind{calendar.Common, calendar.Leap, calendar.Year1582} {
		if count, ok := kindCounts[k]; ok {
			fmt.Printf("  %-8s %d dates\n", k.String()+":", count)
		}
	}
	fmt.Printf("  %-8s %d dates\n", "TOTAL:", len(samples))
	fmt.Println()

	// Output all dates as test cases
	fmt.Println("=== All Test Dates ===")
	fmt.Println("Date,JDN,Old Style,Note")
	for _, row := range rows {
		fmt.Printf("%s,%s,%s,%s\n", row[0], row[1], row[2], row[3])
	}
}
