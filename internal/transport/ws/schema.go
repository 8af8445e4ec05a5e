package ws

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed request.schema.json
var requestSchemaJSON string

var requestSchema = jsonschema.MustCompileString("request.schema.json", requestSchemaJSON)

// decodeRequest validates a raw message against the request schema and
// decodes it.
func decodeRequest(msg []byte) (Request, error) {
	var doc any
	if err := json.Unmarshal(msg, &doc); err != nil {
		return Request{}, fmt.Errorf("malformed json: %w", err)
	}
	if err := requestSchema.Validate(doc); err != nil {
		return Request{}, err
	}
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}
