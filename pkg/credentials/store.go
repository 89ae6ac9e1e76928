// Package credentials implements the read-only credential store backing
// authentication.
//
// Credentials come from a line-oriented text file, one `username:password`
// pair per line, loaded once before the listener starts. The store is never
// mutated afterward and needs no synchronization. Password fields holding a
// bcrypt hash (a `$2a$`/`$2b$`/`$2y$` prefix) are verified with bcrypt; any
// other value is compared for exact equality.
package credentials

import (
	"bufio"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Store holds the preloaded credential set.
type Store struct {
	users map[string]string // username -> stored password or bcrypt hash
}

// Load reads the credential file at path. A missing file yields an empty
// store (the server still runs, nobody can authenticate). Lines without a
// ':' separator are skipped.
func Load(path string) (*Store, error) {
	st := &Store{users: make(map[string]string)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("failed to open credential file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		st.users[line[:idx]] = line[idx+1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	return st, nil
}

// Lookup returns the stored password for username.
func (s *Store) Lookup(username string) (string, bool) {
	pw, ok := s.users[username]
	return pw, ok
}

// Verify reports whether password matches the stored credential for username.
// Unknown usernames always fail.
func (s *Store) Verify(username, password string) bool {
	stored, ok := s.users[username]
	if !ok {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// Len returns the number of loaded credentials.
func (s *Store) Len() int {
	return len(s.users)
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
