package domain

import (
	"encoding/json"
	"fmt"
)

// attributeEnvelope is the wire form of an Attribute: a kind tag plus the
// kind-specific payload.
type attributeEnvelope struct {
	Kind  AttrKind        `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalAttribute encodes an attribute with its kind tag.
func MarshalAttribute(a Attribute) ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s attribute: %w", a.Kind(), err)
	}
	return json.Marshal(attributeEnvelope{Kind: a.Kind(), Value: raw})
}

// UnmarshalAttribute decodes an attribute produced by MarshalAttribute.
func UnmarshalAttribute(data []byte) (Attribute, error) {
	if string(data) == "null" {
		return nil, nil
	}
	var env attributeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attribute envelope: %w", err)
	}

	var (
		attr Attribute
		err  error
	)
	switch env.Kind {
	case KindDisplay:
		var v Display
		err = json.Unmarshal(env.Value, &v)
		attr = v
	case KindVisibility:
		var v Visibility
		err = json.Unmarshal(env.Value, &v)
		attr = v
	case KindSelection:
		var v Selection
		err = json.Unmarshal(env.Value, &v)
		attr = v
	case KindSize:
		var v Size
		err = json.Unmarshal(env.Value, &v)
		attr = v
	case KindPosition, KindScroll:
		var v Offset
		err = json.Unmarshal(env.Value, &v)
		v.Target = env.Kind
		attr = v
	case KindIdentity:
		var v Identity
		err = json.Unmarshal(env.Value, &v)
		attr = v
	default:
		return nil, fmt.Errorf("unknown attribute kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s attribute: %w", env.Kind, err)
	}
	return attr, nil
}

type descriptorWire struct {
	Target  EntityID        `json:"target"`
	Kind    AttrKind        `json:"kind"`
	Value   json.RawMessage `json:"value"`
	Source  EntityID        `json:"source"`
	Change  ChangeKind      `json:"change"`
	Guard   string          `json:"guard,omitempty"`
	Payload *Change         `json:"payload,omitempty"`
}

// MarshalJSON encodes the descriptor, including its typed payload and guard.
func (d EventDescriptor) MarshalJSON() ([]byte, error) {
	value, err := MarshalAttribute(d.Value)
	if err != nil {
		return nil, err
	}
	w := descriptorWire{
		Target: d.Target,
		Kind:   d.Kind,
		Value:  value,
		Source: d.Source,
		Change: d.Change,
	}
	if d.Guard != nil {
		w.Guard = d.Guard.String()
	}
	if d.Payload.Kind != "" {
		w.Payload = &d.Payload
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a descriptor produced by MarshalJSON.
func (d *EventDescriptor) UnmarshalJSON(data []byte) error {
	var w descriptorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	value, err := UnmarshalAttribute(w.Value)
	if err != nil {
		return err
	}
	var guard Predicate
	if w.Guard != "" {
		if guard, err = ParsePredicate(w.Guard); err != nil {
			return fmt.Errorf("failed to decode guard: %w", err)
		}
	}
	var payload Change
	if w.Payload != nil {
		payload = *w.Payload
	}
	*d = EventDescriptor{
		Target:  w.Target,
		Kind:    w.Kind,
		Value:   value,
		Source:  w.Source,
		Change:  w.Change,
		Guard:   guard,
		Payload: payload,
	}
	return nil
}
