package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	keysOnce sync.Once
	keysA    *KeyPair
	keysB    *KeyPair
	keysErr  error
)

// testKeys returns two distinct key pairs shared by the package tests.
func testKeys(t *testing.T) (*KeyPair, *KeyPair) {
	t.Helper()
	keysOnce.Do(func() {
		keysA, keysErr = GenerateKeyPair(2048)
		if keysErr != nil {
			return
		}
		keysB, keysErr = GenerateKeyPair(2048)
	})
	require.NoError(t, keysErr)
	return keysA, keysB
}
