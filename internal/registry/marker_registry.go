package registry

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/models"
)

// markerRegistry implements MarkerRegistry on an insertion-ordered map
// so listings and diagnostics come out in discovery order.
type markerRegistry struct {
	markers *linkedhashmap.Map // qualified name -> *models.MarkerDecl
	mu      sync.RWMutex
}

// NewMarkerRegistry creates an empty marker registry
func NewMarkerRegistry() MarkerRegistry {
	return &markerRegistry{
		markers: linkedhashmap.New(),
	}
}

// Register adds a marker declaration to the index
func (r *markerRegistry) Register(decl *models.MarkerDecl) error {
	if decl == nil {
		return fmt.Errorf("marker declaration cannot be nil")
	}
	if decl.Name == "" {
		return fmt.Errorf("marker name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := decl.QualifiedName()
	if existing, found := r.markers.Get(key); found {
		first := existing.(*models.MarkerDecl)
		return errors.NewConflictError(key, errors.LocationFromPosition(first.Position)).
			WithLocation(errors.LocationFromPosition(decl.Position)).
			WithSuggestion("Rename one of the declarations or move it to another package")
	}

	r.markers.Put(key, decl)
	return nil
}

// RegisterPackage indexes every marker a package declared
func (r *markerRegistry) RegisterPackage(metadata *models.PackageMetadata) error {
	if metadata == nil {
		return nil
	}

	var multiple *errors.MultipleErrors
	for i := range metadata.Markers {
		if err := r.Register(&metadata.Markers[i]); err != nil {
			if earmarkErr, ok := err.(errors.EarmarkError); ok {
				errors.AddToMultiple(&multiple, earmarkErr)
			} else {
				errors.AddToMultiple(&multiple, errors.New(errors.ConflictErrorCode, err.Error()))
			}
		}
	}

	return collapse(multiple)
}

// Lookup resolves a marker by package and name
func (r *markerRegistry) Lookup(packageName, name string) (*models.MarkerDecl, bool) {
	key := name
	if packageName != "" {
		key = packageName + "." + name
	}
	return r.LookupQualified(key)
}

// LookupQualified resolves a marker by its qualified name
func (r *markerRegistry) LookupQualified(qualifiedName string) (*models.MarkerDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, found := r.markers.Get(qualifiedName)
	if !found {
		return nil, false
	}
	return value.(*models.MarkerDecl), true
}

// All returns every registered marker in registration order
func (r *markerRegistry) All() []*models.MarkerDecl {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]*models.MarkerDecl, 0, r.markers.Size())
	for _, value := range r.markers.Values() {
		decls = append(decls, value.(*models.MarkerDecl))
	}
	return decls
}

// Len returns the number of registered markers
func (r *markerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.markers.Size()
}

// Clear removes all registered markers
func (r *markerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers.Clear()
}

// ValidateStructure checks embedded super-markers across the index.
//
// Without recursion every embedded named interface is accepted as
// written; whether it is a marker itself only surfaces at compile time.
// With recursion, an embedded interface that resolves inside the
// scanned packages must be a registered marker, and registered chains
// are followed transitively. Qualified embeds that resolve nowhere are
// imported super-markers and are accepted without recursion.
func (r *markerRegistry) ValidateStructure(recursive bool) error {
	if !recursive {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var multiple *errors.MultipleErrors
	visited := linkedhashset.New()
	for _, value := range r.markers.Values() {
		r.validateEmbedded(value.(*models.MarkerDecl), visited, &multiple)
	}

	return collapse(multiple)
}

// validateEmbedded checks one marker's embedded interfaces, following
// registered super-markers. The visited set is shared across the whole
// walk: cycles terminate as accepted, and a marker reachable through
// several chains is validated once. Callers hold the read lock.
func (r *markerRegistry) validateEmbedded(decl *models.MarkerDecl, visited *linkedhashset.Set, multiple **errors.MultipleErrors) {
	if visited.Contains(decl.QualifiedName()) {
		return
	}
	visited.Add(decl.QualifiedName())

	for _, ref := range decl.Embedded {
		key := ref.Name
		if ref.Qualified() {
			key = ref.Package + "." + ref.Name
		} else if decl.PackageName != "" {
			key = decl.PackageName + "." + ref.Name
		}

		if value, found := r.markers.Get(key); found {
			r.validateEmbedded(value.(*models.MarkerDecl), visited, multiple)
			continue
		}

		if ref.Qualified() {
			// imported super-marker, nothing to recurse into
			continue
		}

		detail := fmt.Sprintf("embedded interface '%s' is not a declared marker", ref.String())
		errors.AddToMultiple(multiple, errors.NewMarkerStructuralError(
			decl.Name, detail, errors.LocationFromPosition(decl.Position)))
	}
}

// collapse folds a possibly-nil collection into a plain error: nil for
// none, the sole error unwrapped, the collection otherwise.
func collapse(multiple *errors.MultipleErrors) error {
	if multiple == nil || multiple.IsEmpty() {
		return nil
	}
	if multiple.Count() == 1 {
		return multiple.Errors[0]
	}
	return multiple
}
