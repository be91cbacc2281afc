package pack

// Registry manages a collection of problem families.
type Registry interface {
	// Register adds a family to the registry.
	Register(family Family) error

	// Get retrieves a family by name.
	Get(name string) (Family, bool)

	// List returns all registered families sorted by name.
	List() []Family

	// Unregister removes a family from the registry.
	Unregister(name string) error
}
