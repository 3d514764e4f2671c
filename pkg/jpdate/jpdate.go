// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

/*
Package jpdate normalizes release-date strings to the canonical ISO form.

Storefront CSV exports deliver dates as 2023年11月10日, 2023/1/5, or already
canonical 2023-11-10. The catalog stores the canonical YYYY-MM-DD form only.

Unrecognized formats pass through unchanged: a cosmetic field must never
fail an import, and the raw value stays visible for manual fix-up.
*/
package jpdate

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// kanjiDate matches 2023年11月10日 (month and day may be one digit).
	kanjiDate = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)
	// slashDate matches 2023/11/10 and 2023/1/5.
	slashDate = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	// isoDate matches the canonical form, returned as-is.
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Normalize converts a date string to YYYY-MM-DD where the format is
// recognized, zero-padding single-digit months and days. Anything else is
// returned unchanged, including the empty string.
func Normalize(value string) string {
	if value == "" || isoDate.MatchString(value) {
		return value
	}

	for _, pattern := range []*regexp.Regexp{kanjiDate, slashDate} {
		if parts := pattern.FindStringSubmatch(value); parts != nil {
			month, _ := strconv.Atoi(parts[2])
			day, _ := strconv.Atoi(parts[3])
			return fmt.Sprintf("%s-%02d-%02d", parts[1], month, day)
		}
	}

	return value
}
