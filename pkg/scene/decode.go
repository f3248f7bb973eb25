package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Source produces a scene spec. Files, Loam repositories and the fluent
// builder all satisfy it.
type Source interface {
	Load(ctx context.Context) (*Spec, error)
}

// File loads a scene from a YAML or JSON file.
type File string

// Load implements Source.
func (f File) Load(ctx context.Context) (*Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var raw map[string]any
	if strings.EqualFold(filepath.Ext(string(f)), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f, err)
	}

	spec, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(string(f)), filepath.Ext(string(f)))
	}
	return spec, nil
}

// Decode maps a generic document (YAML, JSON or frontmatter) onto a Spec.
// Besides the nested forms, it accepts the shorthands
//
//	groups: display,size
//	size: 100x20
//	position: 3,4
func Decode(raw map[string]any) (*Spec, error) {
	var spec Spec
	if err := decodeInto(raw, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// DecodeEntity maps one entity document onto an EntitySpec.
func DecodeEntity(raw map[string]any) (EntitySpec, error) {
	var e EntitySpec
	err := decodeInto(raw, &e)
	return e, err
}

func decodeInto(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToSizeHook,
			stringToVec2Hook,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

var (
	sizeType = reflect.TypeOf(domain.Size{})
	vec2Type = reflect.TypeOf(domain.Vec2{})
)

// stringToSizeHook turns "100x20" (height x width) into a domain.Size.
func stringToSizeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != sizeType {
		return data, nil
	}
	h, w, ok := strings.Cut(strings.ToLower(data.(string)), "x")
	if !ok {
		return nil, fmt.Errorf("size %q: expected <height>x<width>", data)
	}
	nums, err := floats(h, w)
	if err != nil {
		return nil, fmt.Errorf("size %q: %w", data, err)
	}
	return domain.Size{Height: nums[0], Width: nums[1]}, nil
}

// stringToVec2Hook turns "3,4" into a domain.Vec2.
func stringToVec2Hook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != vec2Type {
		return data, nil
	}
	x, y, ok := strings.Cut(data.(string), ",")
	if !ok {
		return nil, fmt.Errorf("vector %q: expected <x>,<y>", data)
	}
	nums, err := floats(x, y)
	if err != nil {
		return nil, fmt.Errorf("vector %q: %w", data, err)
	}
	return domain.Vec2{X: nums[0], Y: nums[1]}, nil
}

func floats(fields ...string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
