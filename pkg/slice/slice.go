// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

/*
Package slice complements the standard [slices] package with the set-style
helpers the catalog needs for cast and tag lists: order-preserving
de-duplication, cleaning, and asymmetric diffs.
*/
package slice

import "strings"

// Clean trims every element, drops empties, and de-duplicates while
// preserving first-occurrence order. Cast and tag lists pass through this
// before persisting, so stored sets never contain empty names.
func Clean(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	var result []string
	for _, v := range input {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// Union merges additional values into base with the same order-preserving
// de-duplication as [Clean]. Base is not mutated.
func Union(base, additional []string) []string {
	merged := make([]string, 0, len(base)+len(additional))
	merged = append(merged, base...)
	merged = append(merged, additional...)
	return Clean(merged)
}

// Diff returns the elements of a that are not present in b.
//
// Aggregate maintenance uses Diff twice per edit: Diff(after, before) is
// the names to increment, Diff(before, after) the names to decrement.
func Diff(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}

	var result []string
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			result = append(result, v)
		}
	}
	return result
}

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter filters a slice, returning only elements where the predicate function evaluates to true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	// Not pre-allocating to full length to avoid excessive memory on heavy filters
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}
