package bal

import "fmt"

// Result is the outcome of parsing BAL source. When Errors is non-empty
// the parse failed closed: Entities and Chain are nil and callers should
// keep their previous valid state.
type Result struct {
	Entities []ParsedEntity `json:"entities"`
	Chain    []string       `json:"chain,omitempty"`
	Errors   []string       `json:"errors"`
}

// Parse is the public entry point for the BAL front-end. It never
// panics: lexer and parser failures, and any internal error, surface as
// strings in Result.Errors. The same input always produces the same
// result; parsing allocates all of its output and touches no shared
// state, so concurrent calls need no coordination.
func Parse(source string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{Errors: []string{fmt.Sprintf("internal error: %v", r)}}
		}
	}()

	file, err := ParseFile(source)
	if err != nil {
		return &Result{Errors: []string{err.Error()}}
	}

	result = &Result{
		Entities: ExtractEntities(file),
		Errors:   []string{},
	}
	if order := ExtractOrder(file.Pipeline); order != nil {
		result.Chain = order.Order
	}
	return result
}
