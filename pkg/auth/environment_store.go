package auth

import (
	"os"
	"time"
)

// TokenEnvVars are read in order; the first non-empty one wins
var TokenEnvVars = []string{"DOCKETLABELER_API_TOKEN", "CL_API_TOKEN"}

// EnvironmentStore implements CredentialStore over environment variables.
// It is read-only and answers for any profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve returns the token found in the environment
func (e *EnvironmentStore) Retrieve(profile string) (*Credential, error) {
	token := envToken()
	if token == "" {
		return nil, ErrCredentialsNotFound
	}
	if profile == "" {
		profile = DefaultProfile
	}
	return &Credential{Profile: profile, Token: token, LastModified: time.Now()}, nil
}

// List returns a single credential if a token is set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

// Exists checks if a token is set in the environment
func (e *EnvironmentStore) Exists(profile string) bool {
	return envToken() != ""
}

func envToken() string {
	for _, name := range TokenEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
