// SPDX-License-Identifier: MPL-2.0

package metadata

const (
	// TokenSchemaFile is the JSON Schema file name token documents may reference in $schema.
	TokenSchemaFile = "./token-metadata.schema.json"
	// ContractSchemaFile is the JSON Schema file name contract documents may reference in $schema.
	ContractSchemaFile = "./contract-metadata.schema.json"

	// MaxTemplateLength bounds contract templates to 4 KiB of hex encoded bytes.
	MaxTemplateLength = 8_192
)

var (
	// HexRefinement accepts non-empty hexadecimal strings.
	HexRefinement = Refinement{
		Pattern: HexPattern,
		Check: func(s string, sink ErrorSink) {
			if !IsHexString(s) {
				sink("String must be a valid hex string")
			}
		},
	}

	// HashRefinement accepts hexadecimal strings. Combine it with Length(HashLength).
	HashRefinement = Refinement{
		Pattern: HexPattern,
		Check: func(s string, sink ErrorSink) {
			if !IsHexString(s) {
				sink("String must be a valid 256-bit hex hash.")
			}
		},
	}

	// IntegerRefinement accepts non-empty strings of decimal digits.
	IntegerRefinement = Refinement{
		Pattern: IntegerPattern,
		Check: func(s string, sink ErrorSink) {
			if !IsIntegerString(s) {
				sink("String must be a valid integer string")
			}
		},
	}

	// LogoRefinement validates data-URL logo content with ValidateLogo.
	LogoRefinement = Refinement{
		Pattern: LogoPattern,
		Check:   ValidateLogo,
	}
)

var (
	hexString     = String().Refine(HexRefinement)
	integerString = String().Refine(IntegerRefinement)
	hash256       = String().Length(HashLength).Refine(HashRefinement)
	nameString    = String().Min(1).Max(50)

	registerNames = []string{"R4", "R5", "R6", "R7", "R8", "R9"}
)

// BaseMetadataSchema holds the properties shared by every metadata document.
var BaseMetadataSchema = Object(
	Optional("$schema", String()),
	Required("name", nameString),
	Optional("description", String().Max(500)),
	Optional("url", String().Max(250)),
)

// TokenMetadataSchema describes a fungible token metadata document.
var TokenMetadataSchema = BaseMetadataSchema.Extend(
	Optional("$schema", Literal(TokenSchemaFile)),
	Required("tokenId", hash256),
	Required("decimals", Number().Int().Min(0).Max(19)),
	Optional("ticker", String().Min(2).Max(9)),
	Optional("logo", String().Max(MaxLogoLength).Refine(LogoRefinement)),
).Strict()

// ContractMetadataSchema describes a smart contract template metadata document.
var ContractMetadataSchema = BaseMetadataSchema.Extend(
	Optional("$schema", Literal(ContractSchemaFile)),
	Required("template", String().Max(MaxTemplateLength).Refine(HexRefinement)),
	Optional("source", Object(
		Required("script", String()),
		Optional("buildParams", Object(
			Required("map", Record(String(), hexString)),
		).Strict()),
	).Strict()),
	Optional("variables", Record(integerString, nameString)),
	Optional("registers", registers(nameString)),
).Strict()

var box = Object(
	Required("boxId", hash256),
	Required("transactionId", hash256),
	Required("index", Number().Int().Min(0)),
	Required("ergoTree", hexString),
	Required("creationHeight", Number().Int().Min(0)),
	Required("value", integerString),
	Required("assets", Array(Object(
		Required("tokenId", hash256),
		Required("amount", integerString),
	).Strict())),
	Required("additionalRegisters", registers(hexString)),
).Strict()

// TokenSignatureSchema describes the minting proof submitted alongside a
// token: the box that minted the token, the box carrying its metadata and a
// signature over both.
var TokenSignatureSchema = Object(
	Required("mintingBox", box),
	Required("metadataBox", box),
	Required("signature", String()),
)

func registers(s Schema) ObjectSchema {
	fields := make([]Field, 0, len(registerNames))
	for _, r := range registerNames {
		fields = append(fields, Optional(r, s))
	}
	return Object(fields...).Strict()
}
