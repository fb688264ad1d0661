package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// FilePolicyRepository loads one policy document per guarded agent from a
// directory of JSON files named <agent_id>.json.
//
// Reload builds a complete new snapshot before publishing it with an atomic
// pointer swap, so concurrent evaluators never observe a partially-updated
// policy set (a torn read could transiently under- or over-authorize).
type FilePolicyRepository struct {
	dir      string
	snapshot atomic.Pointer[map[string]*iamDomain.PolicyDocument]
}

// NewFilePolicyRepository creates the repository and performs the initial
// load. Returns an error if the directory cannot be read or any document
// fails to parse: a malformed document is a configuration bug that must
// stop startup, not be skipped.
func NewFilePolicyRepository(dir string) (*FilePolicyRepository, error) {
	repo := &FilePolicyRepository{dir: dir}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Reload re-reads every policy document and atomically swaps in the new
// snapshot. On any error the previous snapshot stays in place untouched.
func (f *FilePolicyRepository) Reload() error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return apperrors.Wrapf(err, "failed to read policy directory %q", f.dir)
	}

	policies := make(map[string]*iamDomain.PolicyDocument)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(f.dir, entry.Name()))
		if err != nil {
			return apperrors.Wrapf(err, "failed to read policy file %q", entry.Name())
		}

		policy, err := iamDomain.ParsePolicyDocument(data)
		if err != nil {
			return apperrors.Wrapf(err, "policy file %q", entry.Name())
		}

		agentID := strings.TrimSuffix(entry.Name(), ".json")
		policies[agentID] = policy
	}

	f.snapshot.Store(&policies)
	return nil
}

// Get returns the policy document attached to the given agent from the
// current snapshot. Returns ErrPolicyNotFound when no document is attached.
func (f *FilePolicyRepository) Get(ctx context.Context, agentID string) (*iamDomain.PolicyDocument, error) {
	snapshot := f.snapshot.Load()
	if snapshot == nil {
		return nil, iamDomain.ErrPolicyNotFound
	}

	policy, ok := (*snapshot)[agentID]
	if !ok {
		return nil, iamDomain.ErrPolicyNotFound
	}
	return policy, nil
}
