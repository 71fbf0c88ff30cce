package ports

// WorkspaceLocator finds a workspace root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}

// WorkspaceInitializer lays out a new workspace under root.
type WorkspaceInitializer interface {
	Init(root string, force bool) error
}
