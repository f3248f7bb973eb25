package loam

// EntityMetadata is the frontmatter of one entity document. Shorthand
// fields (size, position, scroll, groups) stay untyped so that both the
// nested and the "100x20" forms survive Loam's decoding and reach
// scene.DecodeEntity intact.
type EntityMetadata struct {
	ID     string `json:"id" mapstructure:"id"`
	Name   string `json:"name" mapstructure:"name"`
	Parent string `json:"parent" mapstructure:"parent"`
	Groups any    `json:"groups" mapstructure:"groups"`

	Display    string `json:"display" mapstructure:"display"`
	Visibility string `json:"visibility" mapstructure:"visibility"`
	Selected   *bool  `json:"selected" mapstructure:"selected"`
	Size       any    `json:"size" mapstructure:"size"`
	Position   any    `json:"position" mapstructure:"position"`
	Scroll     any    `json:"scroll" mapstructure:"scroll"`
	Identity   any    `json:"identity" mapstructure:"identity"`

	Rules []map[string]any `json:"rules" mapstructure:"rules"`
}

// fields returns the set metadata as a generic map, the shape
// scene.DecodeEntity expects. The document ID is not part of it.
func (m EntityMetadata) fields() map[string]any {
	raw := map[string]any{"name": m.Name}
	put := func(key string, v any) {
		if v != nil {
			raw[key] = v
		}
	}
	if m.Parent != "" {
		raw["parent"] = m.Parent
	}
	if m.Display != "" {
		raw["display"] = m.Display
	}
	if m.Visibility != "" {
		raw["visibility"] = m.Visibility
	}
	if m.Selected != nil {
		raw["selected"] = *m.Selected
	}
	put("groups", m.Groups)
	put("size", m.Size)
	put("position", m.Position)
	put("scroll", m.Scroll)
	put("identity", m.Identity)
	if len(m.Rules) > 0 {
		rules := make([]any, len(m.Rules))
		for i, r := range m.Rules {
			rules[i] = r
		}
		raw["rules"] = rules
	}
	return raw
}
