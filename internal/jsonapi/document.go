// Package jsonapi holds the wire shape of the forum backend's resource graph
// documents: a primary resource (or list) plus an "included" side-table.
package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaType is the content type the forum backend speaks.
const MediaType = "application/vnd.api+json"

// Identifier is a {type,id} reference held by a relationship.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// RelationshipData is either a single identifier, a list of identifiers or null.
type RelationshipData struct {
	One    *Identifier
	Many   []Identifier
	IsMany bool
}

func (d *RelationshipData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = RelationshipData{}
		return nil
	}

	if trimmed[0] == '[' {
		var many []Identifier
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return fmt.Errorf("relationship list: %w", err)
		}
		*d = RelationshipData{Many: many, IsMany: true}
		return nil
	}

	var one Identifier
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return fmt.Errorf("relationship: %w", err)
	}
	*d = RelationshipData{One: &one}
	return nil
}

func (d RelationshipData) MarshalJSON() ([]byte, error) {
	if d.IsMany {
		if d.Many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.Many)
	}
	if d.One == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.One)
}

// Relationship wraps the data member of a relationship object.
type Relationship struct {
	Data RelationshipData `json:"data"`
}

// Resource is a fully described resource from the primary payload or the side-table.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    json.RawMessage         `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// HasAttributes reports whether the resource carries a non-null attributes object.
func (r *Resource) HasAttributes() bool {
	if r == nil {
		return false
	}
	trimmed := bytes.TrimSpace(r.Attributes)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// DecodeAttributes unmarshals the attributes object into v.
func (r *Resource) DecodeAttributes(v interface{}) error {
	if !r.HasAttributes() {
		return fmt.Errorf("resource %s/%s has no attributes", r.Type, r.ID)
	}
	return json.Unmarshal(r.Attributes, v)
}

// One returns the single identifier of the named relationship, if any.
func (r *Resource) One(name string) (Identifier, bool) {
	if r == nil {
		return Identifier{}, false
	}
	rel, ok := r.Relationships[name]
	if !ok || rel.Data.IsMany || rel.Data.One == nil || rel.Data.One.ID == "" {
		return Identifier{}, false
	}
	return *rel.Data.One, true
}

// Many returns the identifier list of the named relationship. The second
// result is false when the relationship is absent or not a list.
func (r *Resource) Many(name string) ([]Identifier, bool) {
	if r == nil {
		return nil, false
	}
	rel, ok := r.Relationships[name]
	if !ok || !rel.Data.IsMany {
		return nil, false
	}
	return rel.Data.Many, true
}

// PrimaryData is the document's "data" member: one resource or a list.
type PrimaryData struct {
	One    *Resource
	Many   []Resource
	IsMany bool
}

func (p *PrimaryData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = PrimaryData{}
		return nil
	}

	if trimmed[0] == '[' {
		var many []Resource
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return fmt.Errorf("primary data list: %w", err)
		}
		*p = PrimaryData{Many: many, IsMany: true}
		return nil
	}

	var one Resource
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return fmt.Errorf("primary data: %w", err)
	}
	*p = PrimaryData{One: &one}
	return nil
}

func (p PrimaryData) MarshalJSON() ([]byte, error) {
	if p.IsMany {
		if p.Many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(p.Many)
	}
	if p.One == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.One)
}

// Document is a complete response body from the forum backend.
type Document struct {
	Data     PrimaryData `json:"data"`
	Included []Resource  `json:"included,omitempty"`
}

// NewDocument builds a single-resource document for a write request. The id
// is left empty so the backend assigns it.
func NewDocument(typ string, attributes interface{}, relationships map[string]Relationship) (*Document, error) {
	raw, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("encode %s attributes: %w", typ, err)
	}
	return &Document{Data: PrimaryData{One: &Resource{
		Type:          typ,
		Attributes:    raw,
		Relationships: relationships,
	}}}, nil
}

// ToOne builds a relationship holding a single identifier.
func ToOne(typ, id string) Relationship {
	return Relationship{Data: RelationshipData{One: &Identifier{Type: typ, ID: id}}}
}

// ToMany builds a relationship holding a list of identifiers.
func ToMany(refs []Identifier) Relationship {
	return Relationship{Data: RelationshipData{Many: refs, IsMany: true}}
}

// Decode parses a raw response body into a Document.
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Resources returns the primary resources as a list regardless of shape.
func (d *Document) Resources() []Resource {
	if d == nil {
		return nil
	}
	if d.Data.IsMany {
		return d.Data.Many
	}
	if d.Data.One != nil {
		return []Resource{*d.Data.One}
	}
	return nil
}
