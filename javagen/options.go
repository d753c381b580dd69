package javagen

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(false)
}

// Options control the shape of generated files. On the command line they
// are given as repeated key=value pairs, for example
//
//	-o header="Copyright 2026 Example" -o indent=4 -o transaction_names=true
type Options struct {
	// Header is an extra line placed in the comment at the top of every file.
	Header string `schema:"header"`

	// Indent is the number of spaces per indentation level. Zero means 2.
	Indent int `schema:"indent" validate:"min=0,max=8"`

	// TransactionNames adds getTransactionName to interface stubs.
	TransactionNames bool `schema:"transaction_names"`

	// SkipDefault omits the Default implementation class of interfaces.
	SkipDefault bool `schema:"skip_default"`
}

func (o Options) withDefaults() Options {
	if o.Indent == 0 {
		o.Indent = 2
	}
	return o
}

// ParseOptions decodes key=value pairs into Options. Unknown keys and
// malformed values are errors.
func ParseOptions(pairs []string) (Options, error) {
	values := url.Values{}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return Options{}, fmt.Errorf("option %q: want key=value", kv)
		}
		values.Add(k, v)
	}

	var o Options
	if err := schemaDecoder.Decode(&o, values); err != nil {
		return Options{}, fmt.Errorf("options: %w", err)
	}
	if err := validate.Struct(o); err != nil {
		var valErrs validator.ValidationErrors
		if errors.As(err, &valErrs) {
			msgs := make([]string, 0, len(valErrs))
			for _, ve := range valErrs {
				msgs = append(msgs, fmt.Sprintf("%s must be between 0 and 8, got %v", ve.Field(), ve.Value()))
			}
			return Options{}, fmt.Errorf("options: %s", strings.Join(msgs, "; "))
		}
		return Options{}, fmt.Errorf("options: %w", err)
	}
	return o, nil
}
