// Package application models one applicant's submission at the collaborator
// boundary: validated intake metadata plus the optional per-slot document
// files handed to the eligibility scanner.
package application

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/common"
)

// Record is one stored application.
type Record struct {
	ID          uuid.UUID
	FullName    string
	Email       string
	Institution string
	Course      string
	IntakeYear  int
	SubmittedAt time.Time
}

// Metadata is the applicant-supplied JSON accompanying a document upload.
type Metadata struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Course      string `json:"course"`
	IntakeYear  int    `json:"intake_year"`
}

const metadataSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "full_name":   {"type": "string", "minLength": 1, "maxLength": 200},
    "email":       {"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$"},
    "institution": {"type": "string", "minLength": 1, "maxLength": 200},
    "course":      {"type": "string", "minLength": 1, "maxLength": 200},
    "intake_year": {"type": "integer", "minimum": 2000, "maximum": 2100}
  },
  "required": ["full_name", "email", "institution", "course", "intake_year"]
}`

var compiledSchema = jsonschema.MustCompileString("application.json", metadataSchema)

// ParseMetadata validates raw intake JSON against the application schema and
// decodes it.
func ParseMetadata(raw []byte) (Metadata, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Metadata{}, common.NewAppError("INVALID_METADATA", "metadata is not valid JSON", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return Metadata{}, common.NewAppError("INVALID_METADATA", "metadata does not match schema", err)
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return Metadata{}, common.NewAppError("INVALID_METADATA", "metadata decode failed", err)
	}
	return m, nil
}

// ValidateUpload applies the per-file intake rules: allow-listed extension
// and a size cap.
func ValidateUpload(slot constants.SlotKind, fileName string, size, maxBytes int64) error {
	ext := constants.NormalizeExt(filepath.Ext(fileName))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return common.NewAppError("INVALID_UPLOAD",
			fmt.Sprintf("%s: unsupported file type %q", slot.Title(), ext), common.ErrValidation)
	}
	if size > maxBytes {
		return common.NewAppError("INVALID_UPLOAD",
			fmt.Sprintf("%s must be smaller than %dMB", slot.Title(), maxBytes>>20), common.ErrValidation)
	}
	return nil
}
