package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema renders the JSON schema of T for embedding in a prompt. Enum and
// range constraints come from `jsonschema` struct tags on T.
func Schema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: false,
	}

	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	schema.ID = ""

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		// Reflection output is always marshalable; a failure here is a
		// programming error in the tags of T.
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	return string(b)
}
