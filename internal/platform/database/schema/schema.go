// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the repositories query.
//
// Stores build SQL from these definitions instead of string literals.
package schema

import "strings"

// List joins column names for a SELECT or RETURNING clause.
func List(columns []string) string {
	return strings.Join(columns, ", ")
}

// Qualified prefixes each column with alias, for joined queries.
func Qualified(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for index, column := range columns {
		qualified[index] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
