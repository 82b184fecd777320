package repository

import "strings"

// inClause renders "column IN (?,?,...)" with one placeholder per value.
func inClause[T ~string](column string, values []T) (string, []any) {
	args := make([]any, 0, len(values))
	for _, value := range values {
		args = append(args, string(value))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	return column + " IN (" + placeholders + ")", args
}
