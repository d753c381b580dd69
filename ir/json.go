package ir

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// JSON serialization support for the front-end hand-off document.
// Every definition carries a "kind" field for type discrimination.

var validate = validator.New()

// Document is the set of definitions produced by the front end for one
// compilation.
type Document struct {
	Definitions []Definition
}

// Decode reads a JSON document from r and validates its structure.
// Structural problems in different definitions are all reported.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Typenames builds a registry from the document's definitions.
func (doc *Document) Typenames() (*Typenames, error) {
	tn := NewTypenames()
	var errs error
	for _, d := range doc.Definitions {
		errs = multierr.Append(errs, tn.Add(d))
	}
	if errs != nil {
		return nil, errs
	}
	return tn, nil
}

func (doc *Document) validate() error {
	var errs error
	for i, d := range doc.Definitions {
		err := validate.Struct(d)
		if err == nil {
			continue
		}
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			errs = multierr.Append(errs, fmt.Errorf("definition %d: %w", i, err))
			continue
		}
		name := d.QualifiedName()
		if name == "" {
			name = fmt.Sprintf("definition %d", i)
		}
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			messages = append(messages, ve.Namespace()+": "+formatValidationError(ve))
		}
		errs = multierr.Append(errs, &ValidationError{
			Code:    "invalid_document",
			Message: name + ": " + strings.Join(messages, "; "),
			Source:  d.Src(),
		})
	}
	return errs
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// UnmarshalJSON implements json.Unmarshaler for Document.
func (doc *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Definitions []json.RawMessage `json:"definitions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc.Definitions = make([]Definition, 0, len(raw.Definitions))
	for i, r := range raw.Definitions {
		var head struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return fmt.Errorf("definition %d: %w", i, err)
		}
		var d Definition
		switch head.Kind {
		case "parcelable":
			d = &ParcelableDefinition{}
		case "interface":
			d = &InterfaceDefinition{}
		case "enum":
			d = &EnumDefinition{}
		case "union":
			d = &UnionDefinition{}
		case "alias":
			d = &AliasDefinition{}
		default:
			return fmt.Errorf("definition %d: unknown kind %q", i, head.Kind)
		}
		if err := json.Unmarshal(r, d); err != nil {
			return fmt.Errorf("definition %d (%s): %w", i, head.Kind, err)
		}
		doc.Definitions = append(doc.Definitions, d)
	}
	return nil
}

// MarshalJSON implements json.Marshaler for Document.
func (doc *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Definitions []Definition `json:"definitions"`
	}{
		Definitions: doc.Definitions,
	})
}

// MarshalJSON implements json.Marshaler for ParcelableDefinition.
func (d *ParcelableDefinition) MarshalJSON() ([]byte, error) {
	type Alias ParcelableDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "parcelable",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for InterfaceDefinition.
func (d *InterfaceDefinition) MarshalJSON() ([]byte, error) {
	type Alias InterfaceDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "interface",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for EnumDefinition.
func (d *EnumDefinition) MarshalJSON() ([]byte, error) {
	type Alias EnumDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "enum",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for UnionDefinition.
func (d *UnionDefinition) MarshalJSON() ([]byte, error) {
	type Alias UnionDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "union",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for AliasDefinition.
func (d *AliasDefinition) MarshalJSON() ([]byte, error) {
	type Alias AliasDefinition
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "alias",
		Alias: (*Alias)(d),
	})
}
