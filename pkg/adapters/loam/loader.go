package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/cascade/pkg/scene"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository to scene.Source. Every document is one
// entity: the frontmatter carries its attributes and rules, and the
// document ID (extension stripped) names it unless the frontmatter does.
type Loader struct {
	Repo *loam.TypedRepository[EntityMetadata]
	// Name is the scene name reported by Load.
	Name string
}

var _ scene.Source = (*Loader)(nil)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[EntityMetadata], name string) *Loader {
	return &Loader{
		Repo: repo,
		Name: name,
	}
}

// Load implements scene.Source.
func (l *Loader) Load(ctx context.Context) (*scene.Spec, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	spec := &scene.Spec{Name: l.Name}
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		meta := doc.Data
		if meta.Name == "" {
			meta.Name = entityName(meta.ID, doc.ID)
		}

		// doc.ID is the path relative to the repository root
		if existing, ok := seen[meta.Name]; ok {
			return nil, fmt.Errorf("collision detected: entity '%s' is defined in both '%s' and '%s'", meta.Name, existing, doc.ID)
		}
		seen[meta.Name] = doc.ID

		entity, err := scene.DecodeEntity(meta.fields())
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		spec.Entities = append(spec.Entities, entity)
	}
	return spec, nil
}

// Get loads a single entity document by ID.
func (l *Loader) Get(ctx context.Context, id string) (scene.EntitySpec, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return scene.EntitySpec{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	meta := doc.Data
	if meta.Name == "" {
		meta.Name = entityName(meta.ID, doc.ID)
	}
	return scene.DecodeEntity(meta.fields())
}

func entityName(metaID, docID string) string {
	raw := metaID
	if raw == "" {
		raw = docID
	}
	return trimExtension(filepath.Base(raw))
}

func trimExtension(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}
