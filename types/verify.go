package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xeipuuv/gojsonschema"

	"sigcheck-go/mechanisms/evm"
)

// verifyRequestSchema constrains the wire shape of a verify request.
// Signatures are capped at 4096 bytes.
const verifyRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["signer", "hash", "signature"],
	"additionalProperties": false,
	"properties": {
		"signer":    {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"},
		"hash":      {"type": "string", "pattern": "^0x[0-9a-fA-F]{64}$"},
		"signature": {"type": "string", "pattern": "^0x([0-9a-fA-F]{2})*$", "maxLength": 8194}
	}
}`

var verifyRequestValidator = mustCompileSchema(verifyRequestSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return compiled
}

// VerifyRequest asks whether Signature over Hash was produced by Signer
type VerifyRequest struct {
	Signer    string `json:"signer"`    // Ethereum address (hex)
	Hash      string `json:"hash"`      // 32-byte message hash (hex)
	Signature string `json:"signature"` // Signature bytes (hex)
}

// VerifyResponse is the answer to a VerifyRequest
type VerifyResponse struct {
	IsValid bool   `json:"isValid"`
	Signer  string `json:"signer"`
	Method  string `json:"method,omitempty"`
}

// ParseVerifyRequest validates data against the request schema and unmarshals it
func ParseVerifyRequest(data []byte) (*VerifyRequest, error) {
	result, err := verifyRequestValidator.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse verify request: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("invalid verify request: %s", strings.Join(problems, "; "))
	}

	var req VerifyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse verify request: %w", err)
	}
	return &req, nil
}

// Decode converts the hex fields into their typed forms
func (r *VerifyRequest) Decode() (common.Address, common.Hash, []byte, error) {
	signer, err := evm.ParseAddress(r.Signer)
	if err != nil {
		return common.Address{}, common.Hash{}, nil, err
	}
	hash, err := evm.ParseHash(r.Hash)
	if err != nil {
		return common.Address{}, common.Hash{}, nil, err
	}
	signature, err := evm.HexToBytes(r.Signature)
	if err != nil {
		return common.Address{}, common.Hash{}, nil, fmt.Errorf("invalid signature: %w", err)
	}
	return signer, hash, signature, nil
}
