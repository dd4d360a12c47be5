package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/toolbelt/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// Store is a credential store consulted before environment variables.
type Store interface {
	// IsAvailable reports whether the store holds a credential for the
	// integration.
	IsAvailable(name string) bool

	// Get returns the stored credential. A stored value that is not a
	// string fails with *TypeMismatchError.
	Get(name string) (string, error)
}

// Manager reads and writes credentials.toml in the .toolbelt/ directory. It
// is the default Store.
type Manager struct {
	targetPath string
}

var _ Store = (*Manager)(nil)

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .toolbelt/ directory; otherwise the standard dotdir resolution
// applies.
func NewManager(override string) (*Manager, error) {
	path, err := dotdir.NewManager().File(override, credentialsFile)
	if err != nil {
		return nil, err
	}

	return &Manager{targetPath: path}, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{
				Version: currentVersion,
				Entries: make(map[string]map[string]any),
			}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Entries == nil {
		creds.Entries = make(map[string]map[string]any)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetToken stores a token for the given integration.
func (m *Manager) SetToken(name, token string) error {
	spec, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIntegration, name)
	}

	creds, err := m.Load()
	if err != nil {
		return err
	}

	entry := creds.Entries[spec.CredentialID]
	if entry == nil {
		entry = make(map[string]any)
	}
	entry[spec.CredentialKey] = token
	creds.Entries[spec.CredentialID] = entry

	return m.Save(creds)
}

// IsAvailable reports whether a non-empty credential is stored for name.
// Unreadable files count as unavailable.
func (m *Manager) IsAvailable(name string) bool {
	v, err := m.lookup(name)
	if err != nil || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// Get returns the stored token for name, or "" when none is stored.
func (m *Manager) Get(name string) (string, error) {
	v, err := m.lookup(name)
	if err != nil || v == nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", &TypeMismatchError{Integration: name, Got: v}
	}
	return s, nil
}

// RemoveToken deletes the stored credential for an integration.
func (m *Manager) RemoveToken(name string) error {
	spec, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIntegration, name)
	}

	creds, err := m.Load()
	if err != nil {
		return err
	}

	delete(creds.Entries, spec.CredentialID)

	return m.Save(creds)
}

// ListIntegrations returns the names of integrations that have stored
// credentials.
func (m *Manager) ListIntegrations() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(creds.Entries))
	for _, spec := range specs {
		if _, ok := creds.Entries[spec.CredentialID]; ok {
			names = append(names, spec.Name)
		}
	}

	sort.Strings(names)

	return names, nil
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

func (m *Manager) lookup(name string) (any, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegration, name)
	}

	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	return creds.Entries[spec.CredentialID][spec.CredentialKey], nil
}
