// SPDX-License-Identifier: MPL-2.0

package metadata_test

import (
	"encoding/json"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/tokenregistry/metacheck/internal/testutil/metadatatest"
	"github.com/tokenregistry/metacheck/pkg/metadata"
)

func TestMarshalJSONSchema_Token(t *testing.T) {
	t.Parallel()

	data, err := metadata.MarshalJSONSchema(metadata.TokenMetadataSchema)
	if err != nil {
		t.Fatalf("MarshalJSONSchema() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("generated schema is not valid JSON: %v", err)
	}

	if doc["$schema"] != metadata.JSONSchemaDraft {
		t.Errorf("$schema = %v, want %s", doc["$schema"], metadata.JSONSchemaDraft)
	}
	if doc["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", doc["additionalProperties"])
	}

	required, _ := doc["required"].([]any)
	var names []string
	for _, r := range required {
		names = append(names, r.(string))
	}
	if got := strings.Join(names, ","); got != "name,tokenId,decimals" {
		t.Errorf("required = %q, want name,tokenId,decimals", got)
	}

	props := doc["properties"].(map[string]any)
	decimals := props["decimals"].(map[string]any)
	if decimals["type"] != "integer" || decimals["maximum"] != float64(19) {
		t.Errorf("decimals = %v, want integer with maximum 19", decimals)
	}
	tokenID := props["tokenId"].(map[string]any)
	if tokenID["pattern"] != metadata.HexPattern || tokenID["minLength"] != float64(64) {
		t.Errorf("tokenId = %v, want 64 char hex", tokenID)
	}
	if !strings.Contains(string(data), `"pattern": "^data:image/(png|svg\\+xml);base64,"`) {
		t.Error("logo pattern missing or HTML-escaped")
	}
}

func TestMarshalJSONSchema_ContractRecords(t *testing.T) {
	t.Parallel()

	data, err := metadata.MarshalJSONSchema(metadata.ContractMetadataSchema)
	if err != nil {
		t.Fatalf("MarshalJSONSchema() error = %v", err)
	}

	var doc struct {
		Properties struct {
			Variables struct {
				PropertyNames        map[string]any `json:"propertyNames"`
				AdditionalProperties map[string]any `json:"additionalProperties"`
			} `json:"variables"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if doc.Properties.Variables.PropertyNames["pattern"] != metadata.IntegerPattern {
		t.Errorf("variables.propertyNames = %v", doc.Properties.Variables.PropertyNames)
	}
	if doc.Properties.Variables.AdditionalProperties["maxLength"] != float64(50) {
		t.Errorf("variables.additionalProperties = %v", doc.Properties.Variables.AdditionalProperties)
	}
}

// TestGenerateCUE_Sync checks that the CUE export accepts and rejects the
// same documents as the Go schemas for constraints CUE can express.
func TestGenerateCUE_Sync(t *testing.T) {
	t.Parallel()

	src, err := metadata.GenerateCUE("metadata", metadata.Definitions()...)
	if err != nil {
		t.Fatalf("GenerateCUE() error = %v", err)
	}

	ctx := cuecontext.New()
	compiled := ctx.CompileBytes(src)
	if compiled.Err() != nil {
		t.Fatalf("generated CUE does not compile: %v\n%s", compiled.Err(), src)
	}

	tests := []struct {
		name  string
		def   string
		doc   map[string]any
		valid bool
	}{
		{"token valid", "#TokenMetadata", metadatatest.NewTokenMetadata(metadatatest.WithLogo(metadatatest.PNGLogo())), true},
		{"token missing name", "#TokenMetadata", metadatatest.NewTokenMetadata(metadatatest.Without("name")), false},
		{"token unknown key", "#TokenMetadata", metadatatest.NewTokenMetadata(metadatatest.With("foo", "bar")), false},
		{"token decimals out of range", "#TokenMetadata", metadatatest.NewTokenMetadata(metadatatest.With("decimals", 20)), false},
		{"token short id", "#TokenMetadata", metadatatest.NewTokenMetadata(metadatatest.With("tokenId", "aa")), false},
		{"contract valid", "#ContractMetadata", metadatatest.NewContractMetadata(), true},
		{"contract bad variable index", "#ContractMetadata", metadatatest.NewContractMetadata(metadatatest.With("variables", map[string]any{"a": "A"})), false},
		{"contract unknown register", "#ContractMetadata", metadatatest.NewContractMetadata(metadatatest.With("registers", map[string]any{"R3": "x"})), false},
		{"signature valid", "#TokenSignature", metadatatest.NewTokenSignature(), true},
		{"signature extra key allowed", "#TokenSignature", metadatatest.NewTokenSignature(metadatatest.With("note", "x")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// cue values of one context are not shared across goroutines.
			def := compiled.LookupPath(cue.ParsePath(tt.def))
			if !def.Exists() {
				t.Fatalf("definition %s not found", tt.def)
			}

			// Going through JSON keeps whole numbers integral on the CUE side.
			data, err := json.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}

			err = def.Unify(ctx.CompileBytes(data)).Validate(cue.Concrete(true))
			if tt.valid && err != nil {
				t.Errorf("CUE rejected a valid document: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("CUE accepted an invalid document")
			}

			schema := map[string]metadata.Schema{
				"#TokenMetadata":    metadata.TokenMetadataSchema,
				"#ContractMetadata": metadata.ContractMetadataSchema,
				"#TokenSignature":   metadata.TokenSignatureSchema,
			}[tt.def]
			if goValid := metadata.Check(schema, tt.doc) == nil; goValid != tt.valid {
				t.Errorf("Go schema valid = %v, want %v", goValid, tt.valid)
			}
		})
	}
}
