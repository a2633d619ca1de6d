// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brsjson

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://github.com/brsgo/brs/brsjson/schema.json"

// ErrSchema marks documents rejected by Validate.
var ErrSchema = errors.New("brsjson: document does not match the save schema")

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Schema returns the JSON schema that Validate checks documents against.
func Schema() string { return schemaJSON }

// Validate checks that data is a JSON document of the form Marshal produces.
// It checks structure and value ranges only; palette references are checked
// when the decoded save is written.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.AssertionFailedf("brsjson: compiling schema: %v", err)
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Mark(errors.Wrap(err, "brsjson: invalid JSON"), ErrSchema)
	}
	if err := schema.Validate(v); err != nil {
		return errors.Mark(errors.Wrap(err, "brsjson"), ErrSchema)
	}
	return nil
}
