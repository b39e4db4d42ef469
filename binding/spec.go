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

// Source identifies where a parameter's raw values come from.
type Source int

const (
	// SourcePath takes the single capture produced by the path matcher.
	SourcePath Source = iota

	// SourceQuery takes all values of a repeated query key, in arrival order.
	SourceQuery

	// SourceHeader flattens repeated header lines and comma-joined single
	// lines into one ordered sequence.
	SourceHeader

	// SourceCookie behaves like SourceHeader for cookie values.
	SourceCookie

	// SourceForm takes parsed application/x-www-form-urlencoded pairs.
	// Form values are never comma-split.
	SourceForm
)

// String returns the source name as used in error messages.
func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceHeader:
		return "header"
	case SourceCookie:
		return "cookie"
	case SourceForm:
		return "form"
	default:
		return "unknown"
	}
}

// Cardinality is the declared multiplicity of a bound parameter.
type Cardinality int

const (
	// One requires exactly one value. Zero values is a 400 unless a
	// default is declared.
	One Cardinality = iota

	// Optional yields an absent marker when no value is supplied; the
	// handler decides how absence renders.
	Optional

	// List yields the order-preserving sequence of all values.
	List

	// Set yields List de-duplicated by parsed value equality,
	// first occurrence wins the position.
	Set

	// Collection is List under another name, kept distinct so callers can
	// mirror their declared handler signatures.
	Collection

	// Array is List with fixed-size materialization.
	Array
)

// String returns the cardinality name as used in error messages.
func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Optional:
		return "optional"
	case List:
		return "list"
	case Set:
		return "set"
	case Collection:
		return "collection"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// multiValued reports whether the cardinality binds more than one element.
func (c Cardinality) multiValued() bool {
	switch c {
	case List, Set, Collection, Array:
		return true
	default:
		return false
	}
}

// Spec declares a single handler parameter: its name, source, cardinality
// and element type. Specs are plain values; the chainable methods return
// modified copies so a Spec literal can be shared between routes.
type Spec struct {
	// Name is the parameter name in its source (query key, header name,
	// cookie name, form field, path capture).
	Name string

	// Source selects where raw values are gathered from.
	Source Source

	// Cardinality declares the multiplicity. Zero value is One.
	Cardinality Cardinality

	// Type converts each raw element. Zero value is String.
	Type Type

	// Required controls whether zero gathered values is a binding failure.
	// One and multi-valued cardinalities default to required; Optional
	// never does.
	Required bool

	// Default is parsed in place of a missing One-cardinality value.
	Default    string
	HasDefault bool

	// PassThrough skips element conversion entirely; the raw value is
	// delivered unchanged. Used to probe negotiation edge cases.
	PassThrough bool
}

// Path declares a required path parameter.
func Path(name string, t Type) Spec {
	return Spec{Name: name, Source: SourcePath, Type: t, Required: true}
}

// Query declares a required one-cardinality query parameter.
func Query(name string, t Type) Spec {
	return Spec{Name: name, Source: SourceQuery, Type: t, Required: true}
}

// Header declares a required one-cardinality header parameter.
func Header(name string, t Type) Spec {
	return Spec{Name: name, Source: SourceHeader, Type: t, Required: true}
}

// Cookie declares a required one-cardinality cookie parameter.
func Cookie(name string, t Type) Spec {
	return Spec{Name: name, Source: SourceCookie, Type: t, Required: true}
}

// Form declares a required one-cardinality form parameter.
func Form(name string, t Type) Spec {
	return Spec{Name: name, Source: SourceForm, Type: t, Required: true}
}

// List returns a copy with List cardinality.
func (s Spec) List() Spec {
	s.Cardinality = List
	return s
}

// Set returns a copy with Set cardinality.
func (s Spec) Set() Spec {
	s.Cardinality = Set
	return s
}

// Collection returns a copy with Collection cardinality.
func (s Spec) Collection() Spec {
	s.Cardinality = Collection
	return s
}

// Array returns a copy with Array cardinality.
func (s Spec) Array() Spec {
	s.Cardinality = Array
	return s
}

// Optional returns a copy with Optional cardinality. Optional parameters
// are never required.
func (s Spec) Optional() Spec {
	s.Cardinality = Optional
	s.Required = false
	return s
}

// NotRequired returns a copy that tolerates zero values without failing,
// keeping the declared cardinality.
func (s Spec) NotRequired() Spec {
	s.Required = false
	return s
}

// WithDefault returns a copy with a default raw value, parsed when a
// One-cardinality bind finds no supplied value.
func (s Spec) WithDefault(raw string) Spec {
	s.Default = raw
	s.HasDefault = true
	return s
}

// Raw returns a copy with element conversion disabled.
func (s Spec) Raw() Spec {
	s.PassThrough = true
	return s
}
