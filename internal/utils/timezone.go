package utils

import "time"

// LocationOrUTC loads the named timezone, falling back to UTC when the name
// is unknown. Dashboard bucketing and reservation date checks run in the
// restaurant's local time, not the server's.
func LocationOrUTC(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func CurrentDateInTimezone(tz string) string {
	return time.Now().In(LocationOrUTC(tz)).Format("2006-01-02")
}

func CurrentTimeInTimezone(tz string) string {
	return time.Now().In(LocationOrUTC(tz)).Format("15:04")
}
