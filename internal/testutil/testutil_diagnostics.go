// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"testing"
)

// Diagnostic is the expected shape of an error or warning, loaded from
// testdata/diagnostics/*.json.
type Diagnostic struct {
	Key     string
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

// Coded is implemented by every error and warning type in this module.
type Coded interface {
	Code() uint32
	Message() string
}

// LoadDiagnostics reads a diagnostics table. Keys starting with '_'
// reserve a code without describing it.
func LoadDiagnostics(testdata fs.FS, name string) (map[string]*Diagnostic, error) {
	type raw struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, "diagnostics/"+name+".json")
	if err != nil {
		return nil, err
	}

	var rawDiagnostics map[string]raw
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawDiagnostics); err != nil {
		return nil, err
	}

	out := make(map[string]*Diagnostic, len(rawDiagnostics))
	codes := make(map[uint32]struct{}, len(rawDiagnostics))
	for key, raw := range rawDiagnostics {
		if key[0] == '_' {
			if raw.Code != 0 {
				if _, conflict := codes[raw.Code]; conflict {
					return nil, fmt.Errorf("duplicate %s code %d", name, raw.Code)
				}
				codes[raw.Code] = struct{}{}
			}
			continue
		}

		if raw.Code == 0 {
			return nil, fmt.Errorf("%s %q has no code", name, key)
		}
		if _, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("duplicate %s code %d", name, raw.Code)
		}
		codes[raw.Code] = struct{}{}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile("(?i)" + raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			Key:     key,
			Code:    raw.Code,
			Message: raw.Message,
			Pattern: pattern,
		}
	}

	return out, nil
}

// ExpectDiagnostic checks the code and message of got against want.
func ExpectDiagnostic(t *testing.T, want *Diagnostic, got Coded) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected %s (code %d), got: nil", want.Key, want.Code)
		return
	}
	ExpectEq(t, want.Code, got.Code())
	if want.Pattern != nil {
		ExpectMatch(t, want.Pattern, got.Message())
	} else if want.Message != "" {
		ExpectEq(t, want.Message, got.Message())
	}
}
