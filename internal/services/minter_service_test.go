// internal/services/minter_service_test.go
package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestMintQRTokenFormat(t *testing.T) {
	minter := NewMinterService()
	productID := uuid.New()
	variantID := uuid.New()

	token, err := minter.MintQRToken(productID, &variantID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "PRODUCT_"+productID.String()+"_VARIANT_"+variantID.String()+"_"))

	suffix := token[strings.LastIndex(token, "_")+1:]
	assert.Len(t, suffix, 32)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}

func TestMintQRTokenWithoutVariant(t *testing.T) {
	minter := NewMinterService()
	productID := uuid.New()

	token, err := minter.MintQRToken(productID, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "PRODUCT_"+productID.String()+"_"))
	assert.NotContains(t, token, "VARIANT")
}

func TestMintQRTokenUniqueness(t *testing.T) {
	minter := NewMinterService()
	productID := uuid.New()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := minter.MintQRToken(productID, nil)
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token after %d mints", i)
		seen[token] = struct{}{}
	}
}

func TestMintAuthenticityHashSalted(t *testing.T) {
	minter := NewMinterService()
	variantID := uuid.New()

	first, err := minter.MintAuthenticityHash("Sneaker", "Acme", &variantID, 0)
	require.NoError(t, err)
	second, err := minter.MintAuthenticityHash("Sneaker", "Acme", &variantID, 0)
	require.NoError(t, err)

	assert.Regexp(t, hexDigest, first)
	assert.Regexp(t, hexDigest, second)
	// Same inputs, fresh salt each time.
	assert.NotEqual(t, first, second)
}

func TestMintOrderHash(t *testing.T) {
	minter := NewMinterService()

	first, err := minter.MintOrderHash()
	require.NoError(t, err)
	second, err := minter.MintOrderHash()
	require.NoError(t, err)

	assert.Regexp(t, hexDigest, first)
	assert.NotEqual(t, first, second)
}
