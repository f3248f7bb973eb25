package http

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// EntityRef names an entity by handle or by name. Name wins when both are set.
type EntityRef struct {
	Entity uint64 `json:"entity,omitempty"`
	Name   string `json:"name,omitempty"`
}

// TriggerRequest is the body of POST /trigger.
type TriggerRequest struct {
	EntityRef
	Kind  string       `json:"kind"`
	Delta *domain.Vec2 `json:"delta,omitempty"`
}

// Entity is the wire view of an entity snapshot. Attributes are keyed by
// kind and rendered in their textual form.
type Entity struct {
	ID         uint64            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Parent     uint64            `json:"parent,omitempty"`
	Children   []uint64          `json:"children,omitempty"`
	Groups     []string          `json:"groups,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// ApplyResult is the wire view of one applier outcome.
type ApplyResult struct {
	Target     uint64 `json:"target"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	Descriptor string `json:"descriptor"`
}

// TickReport is the response of POST /tick.
type TickReport struct {
	Tick    uint64        `json:"tick"`
	Batches int           `json:"batches"`
	Applied int           `json:"applied"`
	Dropped int           `json:"dropped"`
	Results []ApplyResult `json:"results"`
}

func mapEntityFromDomain(snap domain.EntitySnapshot) Entity {
	e := Entity{
		ID:         uint64(snap.ID),
		Name:       snap.Name,
		Parent:     uint64(snap.Parent),
		Attributes: make(map[string]string, len(snap.Attributes)),
	}
	for _, c := range snap.Children {
		e.Children = append(e.Children, uint64(c))
	}
	for _, g := range snap.Groups {
		e.Groups = append(e.Groups, string(g))
	}
	for _, a := range snap.Attributes {
		e.Attributes[string(a.Kind())] = a.String()
	}
	return e
}

func mapReportFromDomain(r domain.TickReport) TickReport {
	out := TickReport{
		Tick:    r.Tick,
		Batches: r.Batches,
		Applied: r.Applied(),
		Dropped: r.Dropped(),
		Results: make([]ApplyResult, len(r.Results)),
	}
	for i, res := range r.Results {
		out.Results[i] = ApplyResult{
			Target:     uint64(res.Descriptor.Target),
			Kind:       string(res.Descriptor.Kind),
			Status:     string(res.Status),
			Descriptor: res.Descriptor.String(),
		}
	}
	return out
}
