package runtime

import (
	"log/slog"
	"slices"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
)

// Resolver maps a source entity and a relationship to the set of candidate
// entities, restricted to one transition group.
//
// Every traversal keeps a visited set, so a malformed adjacency (a cycle the
// store should have rejected) cannot loop or yield an entity twice.
type Resolver struct {
	graph  ports.SceneGraph
	logger *slog.Logger
}

// NewResolver creates a resolver reading adjacency from graph at call time.
func NewResolver(graph ports.SceneGraph, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{graph: graph, logger: logger}
}

// Resolve returns the candidates of rel relative to source, filtered to
// entities carrying group and deduplicated. The order is first-visit order.
func (r *Resolver) Resolve(source domain.EntityID, group domain.Group, rel domain.Relationship) []domain.EntityID {
	if !r.graph.Exists(source) {
		r.logger.Debug("relationship source missing",
			"source", source, "relationship", rel.String(), "err", domain.ErrResolutionMiss)
		return nil
	}

	var raw []domain.EntityID
	switch rel.Kind {
	case domain.RelSelf:
		raw = []domain.EntityID{source}
	case domain.RelParent:
		p, ok := r.graph.Parent(source)
		if !ok || !r.graph.Exists(p) {
			r.logger.Debug("parent not found",
				"source", source, "relationship", rel.String(), "err", domain.ErrResolutionMiss)
			return nil
		}
		raw = []domain.EntityID{p}
	case domain.RelChild:
		raw = r.children(source, group)
	case domain.RelSibling:
		raw = r.siblings(source)
	case domain.RelSiblingChild:
		raw = r.siblingChildren(source)
	case domain.RelChildRecursive:
		seen := map[domain.EntityID]struct{}{source: {}}
		raw = r.closure(source, group, seen)
	case domain.RelSiblingChildRecursive:
		seen := map[domain.EntityID]struct{}{source: {}}
		for _, sc := range r.siblingChildren(source) {
			if _, dup := seen[sc]; dup {
				continue
			}
			seen[sc] = struct{}{}
			raw = append(raw, sc)
			raw = append(raw, r.closure(sc, group, seen)...)
		}
	case domain.RelCustom:
		raw = r.custom(rel.IDs)
	default:
		r.logger.Warn("unknown relationship", "relationship", rel.String())
		return nil
	}

	return r.filter(raw, group)
}

// children returns the children of e that carry the group marker.
func (r *Resolver) children(e domain.EntityID, group domain.Group) []domain.EntityID {
	var out []domain.EntityID
	for _, c := range r.graph.Children(e) {
		if r.graph.HasGroup(c, group) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Resolver) siblings(e domain.EntityID) []domain.EntityID {
	p, ok := r.graph.Parent(e)
	if !ok {
		r.logger.Debug("siblings need a parent",
			"source", e, "err", domain.ErrResolutionMiss)
		return nil
	}
	return slices.DeleteFunc(r.graph.Children(p), func(c domain.EntityID) bool { return c == e })
}

func (r *Resolver) siblingChildren(e domain.EntityID) []domain.EntityID {
	var out []domain.EntityID
	for _, s := range r.siblings(e) {
		out = append(out, r.graph.Children(s)...)
	}
	return out
}

// closure walks group-marked children breadth first from root, skipping any
// entity already in seen. root itself is not included.
func (r *Resolver) closure(root domain.EntityID, group domain.Group, seen map[domain.EntityID]struct{}) []domain.EntityID {
	var out []domain.EntityID
	queue := []domain.EntityID{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range r.children(cur, group) {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

// custom scans the whole population for identity values listed in ids.
func (r *Resolver) custom(ids []float64) []domain.EntityID {
	var out []domain.EntityID
	for _, e := range r.graph.Entities() {
		a, ok := r.graph.Get(e, domain.KindIdentity)
		if !ok {
			continue
		}
		id, ok := a.(domain.Identity)
		if ok && slices.Contains(ids, id.Value) {
			out = append(out, e)
		}
	}
	return out
}

// filter applies the transition-group marker and removes duplicates.
func (r *Resolver) filter(raw []domain.EntityID, group domain.Group) []domain.EntityID {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[domain.EntityID]struct{}, len(raw))
	out := make([]domain.EntityID, 0, len(raw))
	for _, e := range raw {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		if group != "" && !r.graph.HasGroup(e, group) {
			continue
		}
		out = append(out, e)
	}
	return out
}
