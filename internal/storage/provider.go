// Package storage defines the vault file-system abstraction.
package storage

// Provider is the interface for enumerating and reading vault notes.
// The sync engine never writes to the vault, so the surface is
// read-only. Listing order is not guaranteed.
type Provider interface {
	// List returns the vault-relative path of every .md file under the
	// notes root.
	List() ([]string, error)
	// Read returns the raw bytes of the file at path (relative to the
	// notes root).
	Read(path string) ([]byte, error)
}
