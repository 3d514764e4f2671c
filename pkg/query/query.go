// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package query parses filter values from URL query parameters.
package query

import "strings"

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Year validates a 4-digit year filter value. It returns the empty string
// for anything that is not exactly four ASCII digits, so malformed filters
// degrade to "no filter" instead of erroring.
func Year(val string) string {
	if len(val) != 4 {
		return ""
	}
	for _, r := range val {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return val
}
