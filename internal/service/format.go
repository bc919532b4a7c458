package service

import (
	"fmt"
	"time"
)

const sessionDateLayout = "2006-01-02"

// FormatSessionRange renders two date-only session strings as the
// course-duration label, e.g. ("2024-01-15", "2024-06-20") → "Jan 2024 - Jun 2024".
// The day component is discarded.
func FormatSessionRange(from, to string) (string, error) {
	fromFormatted, err := formatSessionDate(from)
	if err != nil {
		return "", err
	}

	toFormatted, err := formatSessionDate(to)
	if err != nil {
		return "", err
	}

	return fromFormatted + " - " + toFormatted, nil
}

func formatSessionDate(value string) (string, error) {
	date, err := time.Parse(sessionDateLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid session date %q: %w", value, err)
	}

	return date.Format("Jan 2006"), nil
}
