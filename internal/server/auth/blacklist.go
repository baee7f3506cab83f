package auth

import "sync"

// Blacklist tracks tokens revoked before their natural expiry (logout).
// It is in-memory and process-wide: entries are lost on restart, which is
// acceptable because the tokens they shadow expire on their own schedule.
// Entries are never pruned for the same reason.
//
// A Blacklist must be created with NewBlacklist and shared by injection;
// there is deliberately no package-level instance.
type Blacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewBlacklist() *Blacklist {
	return &Blacklist{tokens: make(map[string]struct{})}
}

// Revoke adds token to the blacklist. Revoking an already-revoked or empty
// token is a no-op.
func (b *Blacklist) Revoke(token string) {
	if token == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = struct{}{}
}

// IsRevoked reports whether token has been revoked.
func (b *Blacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tokens[token]
	return ok
}
