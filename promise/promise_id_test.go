package promise

import (
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digest(b byte) []byte {
	return []byte{b, b, b}
}

func TestPromiseRootDeterministic(t *testing.T) {
	a := PromiseRoot(digest(1), "k", nil)
	b := PromiseRoot(digest(1), "k", nil)
	assert.True(t, a.Equal(b))
}

func TestPromiseRootChangesWithEachField(t *testing.T) {
	base := PromiseRoot(digest(1), "k", nil)

	diffDigest := PromiseRoot(digest(2), "k", nil)
	assert.False(t, base.Equal(diffDigest))

	diffKey := PromiseRoot(digest(1), "k2", nil)
	assert.False(t, base.Equal(diffKey))

	parent := New([32]byte{9})
	withParent := PromiseRoot(digest(1), "k", &parent)
	assert.False(t, base.Equal(withParent))

	otherParent := New([32]byte{10})
	withOtherParent := PromiseRoot(digest(1), "k", &otherParent)
	assert.False(t, withParent.Equal(withOtherParent))
}

func TestChildDepthAndMaxDepth(t *testing.T) {
	p := New([32]byte{1})
	for i := range uint32(MaxCallDepth) {
		var err error
		p, err = p.Child(i)
		require.NoError(t, err)
	}
	assert.Equal(t, MaxCallDepth, p.Depth())

	_, err := p.Child(0)
	require.Error(t, err)
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, MaxCallDepth, domainErr.Max)
}

func TestParentRoundTrip(t *testing.T) {
	root := New([32]byte{1})
	child, err := root.Child(3)
	require.NoError(t, err)

	parent, ok := child.Parent()
	require.True(t, ok)
	assert.True(t, parent.Equal(root))

	_, ok = root.Parent()
	assert.False(t, ok)
}

func TestIsRoot(t *testing.T) {
	root := New([32]byte{1})
	assert.True(t, root.IsRoot())

	child, err := root.Child(0)
	require.NoError(t, err)
	assert.False(t, child.IsRoot())
}

func TestStringDisplayForm(t *testing.T) {
	root := New([32]byte{0xAB, 0xCD, 0xEF, 0x01, 0x02})
	assert.Equal(t, "abcdef01", root.String())

	child, err := root.Child(3)
	require.NoError(t, err)
	grandchild, err := child.Child(7)
	require.NoError(t, err)
	assert.Equal(t, "abcdef01.3.7", grandchild.String())
}

func TestKeyDistinguishesPaths(t *testing.T) {
	root := New([32]byte{1})
	a, err := root.Child(1)
	require.NoError(t, err)
	b, err := a.Child(2)
	require.NoError(t, err)
	c, err := root.Child(300) // high segment; same byte pattern risk if widths varied
	require.NoError(t, err)

	assert.NotEqual(t, b.Key(), c.Key())
	assert.NotEqual(t, root.Key(), a.Key())
}

// TestPromiseRootCollisionResistantAcrossFieldBoundaries is the §8 quantified
// property: changing any field, including whether a parent is present,
// changes the hash, and length-prefixing prevents concatenation collisions
// between adjacent variable-length fields (e.g. a short digest + long key
// hashing the same as a long digest + short key with the same total bytes).
func TestPromiseRootCollisionResistantAcrossFieldBoundaries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("no boundary-shift collision between digest and key", prop.ForAll(
		func(prefix, suffix string) bool {
			// "digest=prefix, key=suffix" must not collide with
			// "digest=prefix+suffix, key=''" even though the concatenated
			// bytes are identical without length prefixes.
			a := PromiseRoot([]byte(prefix), suffix, nil)
			b := PromiseRoot([]byte(prefix+suffix), "", nil)
			return !a.Equal(b)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("idempotency key uniqueness produces distinct roots", prop.ForAll(
		func() bool {
			a := PromiseRoot(digest(5), uuid.NewString(), nil)
			b := PromiseRoot(digest(5), uuid.NewString(), nil)
			return !a.Equal(b)
		},
	))

	properties.TestingRun(t)
}
