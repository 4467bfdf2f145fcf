package sessions

import (
	"slices"
)

// SortByActivity orders records by SortKey ascending in place. The sort is
// stable and records without a key follow all keyed records.
func SortByActivity(records []UserRecord) {
	slices.SortStableFunc(records, func(a, b UserRecord) int {
		switch {
		case a.SortKey == nil && b.SortKey == nil:
			return 0
		case a.SortKey == nil:
			return 1
		case b.SortKey == nil:
			return -1
		}
		return a.SortKey.Compare(*b.SortKey)
	})
}

// Aggregate sorts records and counts app and BI users. A record may count
// toward both.
func Aggregate(records []UserRecord) Report {
	SortByActivity(records)

	report := Report{
		Users:   records,
		Message: StatusSuccess,
	}
	for _, rec := range records {
		if rec.IsAppUser {
			report.AppUserCount++
		}
		if rec.IsBIUser {
			report.BIUserCount++
		}
		if rec.Error != "" {
			report.RowErrors++
		}
	}
	return report
}

// Build runs extraction, normalization and aggregation over raw rows.
func Build(rows []RawRow) Report {
	records := make([]UserRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(Extract(row)))
	}
	return Aggregate(records)
}
