// Copyright 2025 The Weave Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binding

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type converts one raw string element to a typed value. Parsed values must
// be comparable so Set cardinality can de-duplicate by value equality.
type Type struct {
	// Name identifies the type in error messages ("string", "int", ...).
	Name string

	// Parse converts a single raw value.
	Parse func(raw string) (any, error)
}

// isPlainString reports whether the type passes raw text through unchanged.
// One-cardinality plain-string binds receive comma-joined header text
// literally instead of the split sequence.
func (t Type) isPlainString() bool {
	return t.Name == "" || t.Name == "string"
}

func (t Type) parse(raw string) (any, error) {
	if t.Parse == nil {
		return raw, nil
	}
	return t.Parse(raw)
}

// Built-in element types. Custom types are constructed with [Converter].
var (
	// String passes the raw value through unchanged.
	String = Type{Name: "string", Parse: func(raw string) (any, error) { return raw, nil }}

	// Int parses a base-10 int.
	Int = Type{Name: "int", Parse: func(raw string) (any, error) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return v, nil
	}}

	// Int64 parses a base-10 int64.
	Int64 = Type{Name: "int64", Parse: func(raw string) (any, error) {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return v, nil
	}}

	// Float64 parses a float64.
	Float64 = Type{Name: "float64", Parse: func(raw string) (any, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return v, nil
	}}

	// Bool accepts the usual spellings: true/false, 1/0, yes/no, on/off.
	Bool = Type{Name: "bool", Parse: func(raw string) (any, error) {
		switch strings.ToLower(raw) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", raw)
	}}
)

// Converter builds a Type from a typed parse function.
//
// Example:
//
//	uuidType := binding.Converter("uuid", uuid.Parse)
func Converter[T any](name string, parse func(string) (T, error)) Type {
	return Type{Name: name, Parse: func(raw string) (any, error) {
		v, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return v, nil
	}}
}

// Time builds a Type that tries each layout in order. With no layouts it
// accepts RFC 3339.
func Time(layouts ...string) Type {
	if len(layouts) == 0 {
		layouts = []string{time.RFC3339}
	}
	return Type{Name: "time", Parse: func(raw string) (any, error) {
		for _, layout := range layouts {
			if v, err := time.Parse(layout, raw); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("invalid time %q", raw)
	}}
}

// Enum builds a Type that accepts only the allowed values.
func Enum(name string, allowed ...string) Type {
	return Type{Name: name, Parse: func(raw string) (any, error) {
		for _, v := range allowed {
			if raw == v {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("value %q not in [%s]", raw, strings.Join(allowed, ", "))
	}}
}
