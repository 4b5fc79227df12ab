package tools

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mitchellh/mapstructure"
)

// normalize turns arbitrary Go values into the shapes encoding/json produces,
// which is what schema validation expects.
func normalize(args map[string]any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upper bounds of numeric inputs. Plans and generated names grow with them.
const (
	MaxSteps    = 1000
	MaxDuration = 10 * 60 * 1000 // milliseconds
)

// bind validates args against schema and decodes them over out, whose
// fields must already hold the defaults. Fields absent from args keep them;
// a list given in args replaces the default list instead of overlaying it.
func bind(name string, schema *openapi3.Schema, args map[string]any, out any) error {
	clean, err := normalize(args)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", name, domain.ErrInvalidInput, err)
	}
	if schema != nil {
		if err := schema.VisitJSON(clean); err != nil {
			return fmt.Errorf("%s: %w: %v", name, domain.ErrInvalidInput, err)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(clean); err != nil {
		return fmt.Errorf("%s: %w: %v", name, domain.ErrInvalidInput, err)
	}
	return nil
}

func numberProperty(desc string, def float64) *openapi3.Schema {
	s := openapi3.NewFloat64Schema().WithDefault(def)
	s.Description = desc
	return s
}

func boundedNumberProperty(desc string, def, max float64) *openapi3.Schema {
	return numberProperty(desc, def).WithMax(max)
}

func stringProperty(desc, def string) *openapi3.Schema {
	s := openapi3.NewStringSchema().WithDefault(def)
	s.Description = desc
	return s
}

func boolProperty(desc string, def bool) *openapi3.Schema {
	s := openapi3.NewBoolSchema().WithDefault(def)
	s.Description = desc
	return s
}

func stringListProperty(desc string, def []string) *openapi3.Schema {
	items := make([]any, len(def))
	for i, v := range def {
		items[i] = v
	}
	s := openapi3.NewArraySchema().
		WithItems(openapi3.NewStringSchema()).
		WithMaxItems(MaxSteps).
		WithDefault(items)
	s.Description = desc
	return s
}
