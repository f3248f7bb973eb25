package mcp

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// TriggerInput are the arguments of the trigger tool.
type TriggerInput struct {
	Entity string  `json:"entity"`
	Kind   string  `json:"kind"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
}

// TriggerResult describes the batch a trigger queued.
type TriggerResult struct {
	BatchID     string   `json:"batch_id" jsonschema_description:"ID of the queued batch, empty when nothing matched"`
	Tick        uint64   `json:"tick" jsonschema_description:"Scene tick the batch was computed at"`
	Descriptors []string `json:"descriptors" jsonschema_description:"Queued attribute writes"`
}

// TickResult summarises one tick.
type TickResult struct {
	Tick     uint64   `json:"tick"`
	Batches  int      `json:"batches"`
	Applied  int      `json:"applied"`
	Dropped  int      `json:"dropped"`
	Outcomes []string `json:"outcomes" jsonschema_description:"One line per descriptor: status and write"`
}

// EntityView is the tool view of an entity.
type EntityView struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Parent     string            `json:"parent,omitempty"`
	Children   []string          `json:"children,omitempty"`
	Groups     []string          `json:"groups,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

func viewFromSnapshot(snap domain.EntitySnapshot) EntityView {
	v := EntityView{
		ID:         snap.ID.String(),
		Name:       snap.Name,
		Attributes: make(map[string]string, len(snap.Attributes)),
	}
	if snap.Parent.Valid() {
		v.Parent = snap.Parent.String()
	}
	for _, c := range snap.Children {
		v.Children = append(v.Children, c.String())
	}
	for _, g := range snap.Groups {
		v.Groups = append(v.Groups, string(g))
	}
	for _, a := range snap.Attributes {
		v.Attributes[string(a.Kind())] = a.String()
	}
	return v
}
