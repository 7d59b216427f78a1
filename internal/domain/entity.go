package domain

// EntityType selects which product table a search runs against.
type EntityType string

// Searchable entity types.
const (
	EntityTools EntityType = "tools"
	EntityParts EntityType = "parts"
)

// IsValid reports whether the entity type is one of the searchable tables.
func (e EntityType) IsValid() bool {
	switch e {
	case EntityTools, EntityParts:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (e EntityType) String() string { return string(e) }
