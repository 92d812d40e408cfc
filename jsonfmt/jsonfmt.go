// Package jsonfmt formats, minifies and validates JSON text.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultIndent is used when an unsupported indent width is requested.
const DefaultIndent = 2

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("please enter JSON")

// SyntaxError reports invalid input.
type SyntaxError struct {
	Offset int64
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid JSON: %v (line %d, column %d)", e.Err, e.Line, e.Column)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Indent normalizes an indent width to 2 or 4.
func Indent(n int) int {
	if n == 4 {
		return 4
	}
	return DefaultIndent
}

// Format pretty-prints input with indent spaces, preserving key order.
func Format(input string, indent int) (string, error) {
	src, err := validate(input)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, src, "", strings.Repeat(" ", Indent(indent))); err != nil {
		return "", wrap(src, err)
	}
	return buf.String(), nil
}

// Minify removes insignificant whitespace from input.
func Minify(input string) (string, error) {
	src, err := validate(input)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, src); err != nil {
		return "", wrap(src, err)
	}
	return buf.String(), nil
}

// Validate reports whether input is a single valid JSON value.
func Validate(input string) error {
	_, err := validate(input)
	return err
}

func validate(input string) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmpty
	}
	src := bytes.TrimSpace([]byte(input))
	var v any
	if err := json.Unmarshal(src, &v); err != nil {
		return nil, wrap(src, err)
	}
	return src, nil
}

func wrap(src []byte, err error) error {
	se := &SyntaxError{Err: err}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		se.Offset = syn.Offset
		se.Line, se.Column = position(src, syn.Offset)
	}
	return se
}

func position(src []byte, offset int64) (line, col int) {
	if offset > int64(len(src)) {
		offset = int64(len(src))
	}
	line, col = 1, 1
	for _, b := range src[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
