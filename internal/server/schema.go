package server

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// orderSchema validates order create/update bodies before they reach the
// store. Every field is optional and nullable; unknown keys are rejected so
// typos like "firstname" fail loudly instead of writing an empty order.
const orderSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "first_name":    {"type": ["string", "null"], "maxLength": 100},
    "last_name":     {"type": ["string", "null"], "maxLength": 100},
    "date_of_birth": {"type": ["string", "null"], "maxLength": 32},
    "description":   {"type": ["string", "null"], "maxLength": 2000}
  },
  "additionalProperties": false
}`

var compiledOrderSchema = mustCompileOrderSchema()

func mustCompileOrderSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("order.json", strings.NewReader(orderSchema)); err != nil {
		panic(err)
	}
	return c.MustCompile("order.json")
}
