/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaBytes []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaBytes)

var reCommandField = regexp.MustCompile(`^commands\.(\d+)`)

// Parse validates data against the script schema and decodes it.
func Parse(data []byte) (Script, error) {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Script{}, fmt.Errorf("validate script: %w", err)
	}
	if !res.Valid() {
		var errs Errors
		for _, e := range res.Errors() {
			idx := -1
			if m := reCommandField.FindStringSubmatch(e.Field()); m != nil {
				idx, _ = strconv.Atoi(m[1])
			}
			errs = append(errs, Error{Command: idx, Message: e.String()})
		}
		return Script{}, errs
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	return s, nil
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(b)
}
