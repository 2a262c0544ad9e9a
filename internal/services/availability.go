package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dimitrije/volunteer-api/internal/matching"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/teambition/rrule-go"
)

// ExpandAvailabilityRule lists the calendar dates an RRULE yields from the
// date of from through horizonDays later, inclusive. Availability is a set of
// days, so rules finer than DAILY or with BYHOUR/BYMINUTE/BYSECOND are rejected.
func ExpandAvailabilityRule(rule string, from time.Time, horizonDays int) ([]string, error) {
	opt, err := rrule.StrToROption(strings.TrimSpace(rule))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}
	if opt.Freq > rrule.DAILY || len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 {
		return nil, fmt.Errorf("%w: repeats more often than daily", ErrInvalidAvailability)
	}

	start := models.DateOf(from)
	end := start.AddDate(0, 0, horizonDays)
	opt.Dtstart = start

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}

	dates := make([]string, 0)
	next := r.Iterator()
	for occ, ok := next(); ok && !occ.After(end); occ, ok = next() {
		day := models.FormatDate(occ)
		if n := len(dates); n == 0 || dates[n-1] != day {
			dates = append(dates, day)
		}
	}
	return dates, nil
}

// NormalizeAvailability validates ISO dates and returns them de-duplicated and sorted.
func NormalizeAvailability(dates []string) ([]string, error) {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		t, err := models.ParseDate(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, d)
		}
		out = append(out, models.FormatDate(t))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// NormalizeSkills trims skills and drops case-insensitive duplicates, keeping
// the first spelling seen.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := matching.NormalizeSkill(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
