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

// Bind resolves every spec against the request, in declaration order.
// The first failure aborts the bind and is returned as a *[Error]; a
// handler never observes a partially bound argument list.
func Bind(r *Request, specs []Spec) ([]Value, error) {
	values := make([]Value, 0, len(specs))
	for _, s := range specs {
		v, err := bindOne(r, s)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func bindOne(r *Request, s Spec) (Value, error) {
	raw := r.logicalValues(s)

	switch s.Cardinality {
	case One:
		return bindSingle(r, s, raw)
	case Optional:
		if len(raw) == 0 {
			return Value{Name: s.Name, Cardinality: Optional}, nil
		}
		elem, err := parseElement(s, raw[0])
		if err != nil {
			return Value{}, err
		}
		return Value{Name: s.Name, Present: true, Cardinality: Optional, single: elem}, nil
	case List, Collection, Array:
		return bindCollection(s, raw)
	case Set:
		v, err := bindCollection(s, raw)
		if err != nil {
			return Value{}, err
		}
		v.many = dedupe(v.many)
		return v, nil
	default:
		return bindSingle(r, s, raw)
	}
}

// bindSingle handles One cardinality: exactly one value, a declared
// default, or a 400.
func bindSingle(_ *Request, s Spec, raw []string) (Value, error) {
	if len(raw) == 0 {
		if s.HasDefault {
			elem, err := parseElement(s, s.Default)
			if err != nil {
				return Value{}, err
			}
			return Value{Name: s.Name, Present: true, Cardinality: One, single: elem}, nil
		}
		return Value{}, bindErr(s, "", ErrRequired)
	}

	// More than one logical value: first wins. Form sources reach here with
	// the first same-named pair already selected by gathering order.
	elem, err := parseElement(s, raw[0])
	if err != nil {
		return Value{}, err
	}
	return Value{Name: s.Name, Present: true, Cardinality: One, single: elem}, nil
}

func bindCollection(s Spec, raw []string) (Value, error) {
	if len(raw) == 0 {
		if s.Required {
			return Value{}, bindErr(s, "", ErrEmptyCollection)
		}
		return Value{Name: s.Name, Present: true, Cardinality: s.Cardinality, many: []any{}}, nil
	}

	// Array materializes at exact size; the others grow the same way.
	elems := make([]any, 0, len(raw))
	for _, rv := range raw {
		elem, err := parseElement(s, rv)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
	return Value{Name: s.Name, Present: true, Cardinality: s.Cardinality, many: elems}, nil
}

func parseElement(s Spec, raw string) (any, error) {
	if s.PassThrough {
		return raw, nil
	}
	elem, err := s.Type.parse(raw)
	if err != nil {
		return nil, bindErr(s, raw, err)
	}
	return elem, nil
}

// dedupe removes duplicates by parsed value equality, keeping first
// occurrence order. Parsed values are comparable scalars.
func dedupe(elems []any) []any {
	seen := make(map[any]struct{}, len(elems))
	out := elems[:0]
	for _, e := range elems {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
