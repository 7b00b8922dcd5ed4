// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validate checks a collector's payload against its type's JSON
// schema, following cc-backend's config.Validate(schema, instance)
// shape (internal/config/validate.go in the reference codebase), but
// returning the error instead of treating it as fatal: an invalid
// collector is a per-collector Configuration error (spec.md §7), not
// a process-fatal one.
func Validate(schemaJSON string, payload json.RawMessage) error {
	sch, err := jsonschema.CompileString("schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("config: compiling schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("config: decoding payload: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config: validating payload: %w", err)
	}
	return nil
}
