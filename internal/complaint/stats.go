package complaint

import "time"

// dateFormat buckets createdAt timestamps; the same format is used for the
// incoming date filter so grouping and filtering always agree.
const dateFormat = "2006-01-02"

// CountByDay groups complaints by the calendar date of creation. Empty input
// yields an empty map, never nil or an error.
func CountByDay(list []Complaint) map[string]int {
	out := make(map[string]int, len(list))
	for _, cmp := range list {
		out[dateOf(cmp.CreatedAt)]++
	}
	return out
}

// CountByReason groups complaints by reason verbatim; distinct free-text
// reasons are distinct buckets.
func CountByReason(list []Complaint) map[string]int {
	out := make(map[string]int, len(list))
	for _, cmp := range list {
		out[cmp.Reason]++
	}
	return out
}

// FilterByDate keeps complaints created on the given "2006-01-02" date.
// An empty date means all dates.
func FilterByDate(list []Complaint, date string) []Complaint {
	if date == "" {
		return list
	}
	out := []Complaint{}
	for _, cmp := range list {
		if dateOf(cmp.CreatedAt) == date {
			out = append(out, cmp)
		}
	}
	return out
}

// dateOf is the single bucketing rule; grouping and the date filter must
// never drift apart.
func dateOf(t time.Time) string {
	return t.Format(dateFormat)
}
