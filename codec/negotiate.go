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

package codec

import (
	"strconv"
	"strings"
)

// acceptSpec is one parsed Accept header member with its quality.
type acceptSpec struct {
	mediaType string
	quality   float64
	order     int
}

// Negotiate selects the response codec for a route.
//
// produced lists the route's declared media types in preference order;
// accept is the request's Accept header. The declared list always wins:
// accept only reorders within it. An empty produced list means the route
// declares nothing — the caller must omit the Content-Type header
// entirely, so Negotiate returns ok=false without error.
//
// A produced type with no registered encoder is a server configuration
// fault (httperror.ErrCodecUnavailable).
func Negotiate(reg *Registry, produced []string, accept string) (Codec, string, bool, error) {
	if len(produced) == 0 {
		return nil, "", false, nil
	}

	chosen := produced[0]
	if accept != "" {
		if best := bestMatch(produced, accept); best != "" {
			chosen = best
		}
	}

	c, err := reg.Require(chosen)
	if err != nil {
		return nil, "", false, err
	}
	return c, CanonicalMediaType(chosen), true, nil
}

// bestMatch returns the produced type preferred by the Accept header, or
// "" when nothing matches.
func bestMatch(produced []string, accept string) string {
	specs := parseAccept(accept)

	best := ""
	bestQ := 0.0
	bestOrder := len(specs)
	for _, p := range produced {
		canonical := CanonicalMediaType(p)
		for _, s := range specs {
			if !mediaTypeMatches(s.mediaType, canonical) || s.quality == 0 {
				continue
			}
			if s.quality > bestQ || (s.quality == bestQ && s.order < bestOrder) {
				best = p
				bestQ = s.quality
				bestOrder = s.order
			}
		}
	}
	return best
}

func parseAccept(accept string) []acceptSpec {
	members := strings.Split(accept, ",")
	specs := make([]acceptSpec, 0, len(members))
	for i, member := range members {
		parts := strings.Split(member, ";")
		mt := strings.ToLower(strings.TrimSpace(parts[0]))
		if mt == "" {
			continue
		}
		q := 1.0
		for _, param := range parts[1:] {
			param = strings.TrimSpace(param)
			if rest, ok := strings.CutPrefix(param, "q="); ok {
				if parsed, err := strconv.ParseFloat(rest, 64); err == nil {
					q = parsed
				}
			}
		}
		specs = append(specs, acceptSpec{mediaType: mt, quality: q, order: i})
	}
	return specs
}

// mediaTypeMatches applies Accept wildcard rules: */*, type/* and exact.
func mediaTypeMatches(pattern, mediaType string) bool {
	if pattern == "*/*" || pattern == mediaType {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(mediaType, prefix+"/")
	}
	return false
}
