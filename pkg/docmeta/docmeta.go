// Package docmeta defines the structured document metadata the application
// tracks for every stored file: what kind of legal document it is, where it
// applies, and how it may be used. The record is parsed and validated once
// at the HTTP boundary and passed around as a value afterwards.
package docmeta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Metadata is the client-visible structured metadata for one document.
type Metadata struct {
	DocumentID        string   `json:"documentId,omitempty" validate:"omitempty,uuid4"`
	DocumentType      string   `json:"documentType,omitempty"`
	Level             string   `json:"level,omitempty"`
	Language          string   `json:"language,omitempty" validate:"omitempty,max=16"`
	Tags              []string `json:"tags,omitempty"`
	Topics            []string `json:"topics,omitempty"`
	AccessLevel       string   `json:"accessLevel,omitempty"`
	FileType          string   `json:"fileType,omitempty"`
	Country           string   `json:"country,omitempty"`
	Jurisdiction      string   `json:"jurisdiction,omitempty"`
	License           string   `json:"license,omitempty"`
	EntitiesMentioned []string `json:"entitiesMentioned,omitempty"`
	Collection        string   `json:"collection,omitempty"`
	Description       string   `json:"description,omitempty"`
}

// Parse decodes and validates a metadata JSON document. An empty input
// yields a zero Metadata.
func Parse(raw []byte) (Metadata, error) {
	var m Metadata
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("malformed metadata: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return m, fmt.Errorf("invalid metadata: %w", err)
	}
	return m, nil
}

// EnsureID fills DocumentID with a fresh UUID when absent and reports
// whether one was generated.
func (m *Metadata) EnsureID() bool {
	if m.DocumentID != "" {
		return false
	}
	m.DocumentID = uuid.NewString()
	return true
}

// WithFreshID returns a copy of m carrying a newly generated DocumentID.
// Copied files become new logical documents and must not share an ID with
// their source.
func (m Metadata) WithFreshID() Metadata {
	m.DocumentID = uuid.NewString()
	return m
}

// IsZero reports whether no field is set.
func (m Metadata) IsZero() bool {
	blank, _ := json.Marshal(Metadata{})
	cur, _ := json.Marshal(m)
	return string(blank) == string(cur)
}

// Equal compares two records by serialized form, the same equality the
// directory index uses to skip no-op writes.
func (m Metadata) Equal(other Metadata) bool {
	a, _ := json.Marshal(m)
	b, _ := json.Marshal(other)
	return string(a) == string(b)
}

// Flatten renders the record as the provider's native metadata map:
// lower-case keys, list fields joined with commas, empty fields omitted.
func (m Metadata) Flatten() map[string]string {
	out := make(map[string]string)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put("documentid", m.DocumentID)
	put("documenttype", m.DocumentType)
	put("level", m.Level)
	put("language", m.Language)
	put("tags", strings.Join(m.Tags, ","))
	put("topics", strings.Join(m.Topics, ","))
	put("accesslevel", m.AccessLevel)
	put("filetype", m.FileType)
	put("country", m.Country)
	put("jurisdiction", m.Jurisdiction)
	put("license", m.License)
	put("entitiesmentioned", strings.Join(m.EntitiesMentioned, ","))
	put("collection", m.Collection)
	put("description", m.Description)
	return out
}

// FromFlat rebuilds a record from the provider metadata map. Unknown keys
// are ignored.
func FromFlat(flat map[string]string) Metadata {
	split := func(v string) []string {
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return Metadata{
		DocumentID:        flat["documentid"],
		DocumentType:      flat["documenttype"],
		Level:             flat["level"],
		Language:          flat["language"],
		Tags:              split(flat["tags"]),
		Topics:            split(flat["topics"]),
		AccessLevel:       flat["accesslevel"],
		FileType:          flat["filetype"],
		Country:           flat["country"],
		Jurisdiction:      flat["jurisdiction"],
		License:           flat["license"],
		EntitiesMentioned: split(flat["entitiesmentioned"]),
		Collection:        flat["collection"],
		Description:       flat["description"],
	}
}
