// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-style URL query parameters.
package query

import "strings"

// StringSlice splits a comma-separated query value into trimmed, non-empty items.
//
// "new, pending,," yields ["new", "pending"]. An empty value yields nil.
func StringSlice(value string) []string {
	if value == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if cleaned := strings.TrimSpace(part); cleaned != "" {
			items = append(items, cleaned)
		}
	}
	return items
}
