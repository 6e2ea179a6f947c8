package auth

import (
	"github.com/ibct-dev/project-getbit-contract/internal/apperr"
)

// Caller is a principal whose identity has already been verified by the
// host before the call reaches an engine. It is passed explicitly into
// every mutating operation; nothing in this codebase derives a caller
// implicitly.
type Caller string

func (c Caller) String() string { return string(c) }

// Registry models the host's account-existence lookup: the set of
// principals that can hold balances and be targeted by operations.
type Registry struct {
	accounts map[string]struct{}
}

// NewRegistry builds a registry seeded with the given account names.
func NewRegistry(names ...string) *Registry {
	r := &Registry{accounts: make(map[string]struct{}, len(names))}
	for _, n := range names {
		r.Add(n)
	}
	return r
}

// Add registers an account name. Adding an existing name is a no-op.
func (r *Registry) Add(name string) {
	r.accounts[name] = struct{}{}
}

// IsAccount reports whether name resolves to a known account.
func (r *Registry) IsAccount(name string) bool {
	_, ok := r.accounts[name]
	return ok
}

// RequireAuth checks that the verified caller is the required principal.
func RequireAuth(caller Caller, principal string) error {
	if string(caller) != principal {
		return apperr.Newf(apperr.Authorization, "caller %q is not authorized for %q", caller, principal)
	}
	return nil
}
