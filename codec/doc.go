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

// Package codec negotiates and applies body encoders/decoders by media
// type, for three reactive shapes: a single value, a bounded list, and an
// unbounded stream.
//
// A [Registry] maps media types to [Codec] implementations. Built-ins
// cover text/plain, application/json, application/x-www-form-urlencoded,
// YAML, MessagePack and TOML; multipart/form-data and text/event-stream
// have dedicated single-pass reader/writer types ([MultipartReader],
// [EventWriter]) because their framing is not a plain value encoding.
//
// Decoding honors the declared shape: stream-shaped bodies decode
// incrementally without buffering the whole body, and a single-shaped bind
// against a logically multi-valued body keeps only the first decoded
// element while the remaining bytes are drained and discarded.
package codec
