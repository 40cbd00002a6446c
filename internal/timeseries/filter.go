package timeseries

import (
	"time"

	"github.com/angelcm/commerce-insights-go/internal/models"
)

const dateLayout = "2006-01-02"

// FilterRange selects rows whose date falls inside [start, end], both
// inclusive. Dates are zero-padded ISO strings, so lexicographic
// comparison is the date comparison. Bad bounds or start > end degrade
// to an empty result, never an error.
func FilterRange(rows []models.MetricRow, start, end string) []models.MetricRow {
	if !validDate(start) || !validDate(end) || start > end {
		return nil
	}
	out := make([]models.MetricRow, 0, len(rows))
	for _, r := range rows {
		if !validDate(r.Date) {
			continue
		}
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out
}

// CompareWindow derives the comparison window for [start, end] under
// the given mode. PreviousYear shifts both bounds a year back (standard
// library date normalization applies to Feb 29). PreviousPeriod is the
// window of identical inclusive span ending the day before start.
// Unparseable bounds yield empty strings.
func CompareWindow(start, end string, mode models.CompareMode) (string, string) {
	s, err1 := time.Parse(dateLayout, start)
	e, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil || start > end {
		return "", ""
	}
	switch mode {
	case models.PreviousYear:
		return s.AddDate(-1, 0, 0).Format(dateLayout), e.AddDate(-1, 0, 0).Format(dateLayout)
	default:
		span := DaysInclusive(start, end)
		compEnd := s.AddDate(0, 0, -1)
		compStart := compEnd.AddDate(0, 0, -(span - 1))
		return compStart.Format(dateLayout), compEnd.Format(dateLayout)
	}
}

// YTDWindow is [Jan 1 of end's year, end].
func YTDWindow(end string) (string, string) {
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return "", ""
	}
	return time.Date(e.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout), end
}

// YTDCompareWindow is the prior calendar year through the equivalent
// month/day.
func YTDCompareWindow(end string) (string, string) {
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return "", ""
	}
	pe := e.AddDate(-1, 0, 0)
	return time.Date(pe.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout), pe.Format(dateLayout)
}

// DaysInclusive is the inclusive day count of [start, end]; 0 when the
// bounds do not parse or are inverted.
func DaysInclusive(start, end string) int {
	s, err1 := time.Parse(dateLayout, start)
	e, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil || s.After(e) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
