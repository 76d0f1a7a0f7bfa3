// Package test provides testing utilities shared by the deadstore packages.
//
// It offers small assertion helpers, a line diff for printed programs, and
// a structural diff for ASTs and results built on kr/pretty.
package test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

// AssertEqual checks if two values are equal and reports a test error if not.
func AssertEqual[T comparable](t *testing.T, actual, expected T) {
	t.Helper()
	if actual != expected {
		t.Errorf("\nexpected: %v\nactual:   %v", expected, actual)
	}
}

// AssertEqualWithDiff checks if two strings are equal and shows a diff if not.
func AssertEqualWithDiff(t *testing.T, actual, expected string) {
	t.Helper()
	if actual != expected {
		t.Errorf("\n%s", Diff(expected, actual))
	}
}

// AssertDeepEqual compares two values field by field and reports every
// differing path. Pointers are followed, so two separately built trees
// with the same shape compare equal.
func AssertDeepEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if diffs := pretty.Diff(expected, actual); len(diffs) > 0 {
		t.Errorf("values differ (expected -> actual):\n  %s\nactual:\n%# v",
			strings.Join(diffs, "\n  "), pretty.Formatter(actual))
	}
}

// Diff produces a line-by-line diff between two strings.
func Diff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var result strings.Builder
	result.WriteString("--- expected\n+++ actual\n")

	maxLines := len(expectedLines)
	if len(actualLines) > maxLines {
		maxLines = len(actualLines)
	}

	for i := 0; i < maxLines; i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}

		if expLine == actLine {
			fmt.Fprintf(&result, " %s\n", expLine)
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&result, "-%s\n", expLine)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&result, "+%s\n", actLine)
		}
	}

	return result.String()
}
