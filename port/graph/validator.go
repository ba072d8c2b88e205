package graph

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a statement rejected before reaching the store.
type ValidationError struct {
	Statement string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query validation failed: %s", e.Reason)
}

// writeVerbs matches the statement keywords that mutate the store.
var writeVerbs = regexp.MustCompile(`(?i)\b(create|merge|delete|set)\b`)

// Validate checks that statement is a single read-only query. It rejects
// statements containing write verbs (create/merge/delete/set) and statements
// chained with the ';' separator. One trailing separator is tolerated.
func Validate(statement string) error {
	trimmed := strings.TrimSpace(statement)
	trimmed = strings.TrimSuffix(trimmed, ";")

	if strings.TrimSpace(trimmed) == "" {
		return &ValidationError{Statement: statement, Reason: "empty statement"}
	}
	if strings.Contains(trimmed, ";") {
		return &ValidationError{Statement: statement, Reason: "multiple chained statements"}
	}
	if verb := writeVerbs.FindString(trimmed); verb != "" {
		return &ValidationError{Statement: statement, Reason: fmt.Sprintf("write verb %q not allowed", strings.ToLower(verb))}
	}
	return nil
}
