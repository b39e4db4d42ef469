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

package router

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentKind classifies one template segment.
type segmentKind int

const (
	segLiteral segmentKind = iota
	segParam
	segGlob
	segCatchAll
)

// segment is one compiled template segment.
type segment struct {
	kind    segmentKind
	literal string
	name    string         // capture name for segParam/segCatchAll
	pattern *regexp.Regexp // constraint for segParam, compiled glob for segGlob
}

// parseTemplate compiles a route template into segments. The last segment
// may be a catch-all ("*" or "*name"); "?" and "*" inside segment text
// compile to glob matchers covering exactly one segment.
func parseTemplate(path string, constraints map[string]string) ([]segment, bool, error) {
	if path == "" || path[0] != '/' {
		return nil, false, fmt.Errorf("route template must start with '/': %q", path)
	}
	if path == "/" {
		return nil, false, nil
	}

	raw := strings.Split(path[1:], "/")
	trailingSlash := false
	if last := len(raw) - 1; raw[last] == "" {
		trailingSlash = true
		raw = raw[:last]
	}

	segments := make([]segment, 0, len(raw))
	for i, s := range raw {
		isLast := i == len(raw)-1
		switch {
		case s == "":
			return nil, false, fmt.Errorf("route template %q has an empty segment", path)
		case strings.HasPrefix(s, ":"):
			name := s[1:]
			if name == "" {
				return nil, false, fmt.Errorf("route template %q has an unnamed capture", path)
			}
			seg := segment{kind: segParam, name: name}
			if pattern, ok := constraints[name]; ok {
				rx, err := regexp.Compile("^(?:" + pattern + ")$")
				if err != nil {
					return nil, false, fmt.Errorf("constraint for %q: %w", name, err)
				}
				seg.pattern = rx
			}
			segments = append(segments, seg)
		case isLast && (s == "*" || (strings.HasPrefix(s, "*") && !strings.ContainsAny(s[1:], "*?."))):
			// Terminal catch-all: captures the remainder including slashes.
			name := "filepath"
			if s != "*" {
				name = s[1:]
			}
			segments = append(segments, segment{kind: segCatchAll, name: name})
		case strings.ContainsAny(s, "*?"):
			rx, err := compileGlob(s)
			if err != nil {
				return nil, false, fmt.Errorf("glob segment %q: %w", s, err)
			}
			segments = append(segments, segment{kind: segGlob, literal: s, pattern: rx})
		default:
			segments = append(segments, segment{kind: segLiteral, literal: s})
		}
	}
	return segments, trailingSlash, nil
}

// compileGlob translates a glob segment to an anchored regex: "?" matches
// one character, "*" any run of characters, both within the segment.
func compileGlob(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range glob {
		switch r {
		case '?':
			b.WriteString(".")
		case '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// node is one level of the matching tree. Children are tried in
// most-specific-wins order: literal, constrained capture, plain capture,
// glob, catch-all. Registration happens single-threaded during the
// configuration phase; after that the tree is immutable and read without
// locking.
type node struct {
	literals map[string]*node
	params   []*paramEdge
	globs    []*globEdge
	catchAll *catchAllEdge

	route      *Route // terminal, no trailing slash
	slashRoute *Route // terminal, trailing slash variant
}

type paramEdge struct {
	name    string
	pattern *regexp.Regexp
	node    *node
}

type globEdge struct {
	raw     string
	pattern *regexp.Regexp
	node    *node
}

type catchAllEdge struct {
	name  string
	route *Route
}

func (n *node) addRoute(rt *Route) error {
	current := n
	for i, seg := range rt.segments {
		switch seg.kind {
		case segCatchAll:
			if i != len(rt.segments)-1 {
				return fmt.Errorf("route %q: catch-all must be the final segment", rt.Pattern)
			}
			if current.catchAll != nil {
				return fmt.Errorf("route %q: duplicate catch-all", rt.Pattern)
			}
			current.catchAll = &catchAllEdge{name: seg.name, route: rt}
			return nil
		case segLiteral:
			if current.literals == nil {
				current.literals = make(map[string]*node, 4)
			}
			child := current.literals[seg.literal]
			if child == nil {
				child = &node{}
				current.literals[seg.literal] = child
			}
			current = child
		case segParam:
			current = current.paramChild(seg)
		case segGlob:
			current = current.globChild(seg)
		}
	}

	if rt.trailingSlash {
		if current.slashRoute != nil {
			return fmt.Errorf("duplicate route %s %s", rt.Method, rt.Pattern)
		}
		current.slashRoute = rt
		return nil
	}
	if current.route != nil {
		return fmt.Errorf("duplicate route %s %s", rt.Method, rt.Pattern)
	}
	current.route = rt
	return nil
}

func (n *node) paramChild(seg segment) *node {
	pat := ""
	if seg.pattern != nil {
		pat = seg.pattern.String()
	}
	for _, p := range n.params {
		existing := ""
		if p.pattern != nil {
			existing = p.pattern.String()
		}
		if p.name == seg.name && existing == pat {
			return p.node
		}
	}
	edge := &paramEdge{name: seg.name, pattern: seg.pattern, node: &node{}}
	if seg.pattern != nil {
		// Constrained captures are tried before plain ones.
		n.params = append([]*paramEdge{edge}, n.params...)
	} else {
		n.params = append(n.params, edge)
	}
	return edge.node
}

func (n *node) globChild(seg segment) *node {
	for _, g := range n.globs {
		if g.raw == seg.literal {
			return g.node
		}
	}
	edge := &globEdge{raw: seg.literal, pattern: seg.pattern, node: &node{}}
	// Keep glob edges ordered tightest-first so matching does not depend
	// on registration order: a "?" pattern outranks a "*" pattern.
	at := len(n.globs)
	for i, g := range n.globs {
		if globScore(edge.raw) < globScore(g.raw) {
			at = i
			break
		}
	}
	n.globs = append(n.globs, nil)
	copy(n.globs[at+1:], n.globs[at:])
	n.globs[at] = edge
	return edge.node
}

// globScore ranks a glob segment by looseness. Each "*" costs far more
// than a "?" since it matches an arbitrary run rather than one character.
func globScore(glob string) int {
	score := 0
	for _, r := range glob {
		switch r {
		case '*':
			score += 100
		case '?':
			score++
		}
	}
	return score
}

// match resolves decoded path segments against the tree, backtracking
// through the precedence order until a terminal route accepts. Captures
// are recorded on the context only along the successful path.
func (n *node) match(segs []string, trailingSlash bool, c *Context) *Route {
	if len(segs) == 0 {
		if trailingSlash {
			if n.slashRoute != nil {
				return n.slashRoute
			}
		} else if n.route != nil {
			return n.route
		}
		if n.catchAll != nil {
			rest := ""
			if trailingSlash {
				rest = "/"
			}
			c.setParam(n.catchAll.name, rest)
			return n.catchAll.route
		}
		return nil
	}

	seg := segs[0]

	if child, ok := n.literals[seg]; ok {
		if rt := child.match(segs[1:], trailingSlash, c); rt != nil {
			return rt
		}
	}

	for _, p := range n.params {
		if seg == "" {
			continue
		}
		if p.pattern != nil && !p.pattern.MatchString(seg) {
			continue
		}
		if rt := p.node.match(segs[1:], trailingSlash, c); rt != nil {
			c.setParam(p.name, seg)
			return rt
		}
	}

	for _, g := range n.globs {
		if !g.pattern.MatchString(seg) {
			continue
		}
		if rt := g.node.match(segs[1:], trailingSlash, c); rt != nil {
			return rt
		}
	}

	if n.catchAll != nil {
		rest := strings.Join(segs, "/")
		if trailingSlash {
			rest += "/"
		}
		c.setParam(n.catchAll.name, rest)
		return n.catchAll.route
	}

	return nil
}
