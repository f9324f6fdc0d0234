package postgres

import (
	"strconv"
	"strings"
)

// placeholder returns the n-th positional placeholder ($1, $2, ...).
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}
