package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeStripsDefaultPortAndFragment(t *testing.T) {
	u, err := url.Parse("HTTPS://Example.COM:443/a/b?x=1#frag")
	require.NoError(t, err)

	c := Canonicalize(*u)
	assert.Equal(t, "https://example.com/a/b?x=1", c.String())
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	u, err := url.Parse("http://Example.com:80/path/")
	require.NoError(t, err)

	once := Canonicalize(*u)
	twice := Canonicalize(once)
	assert.Equal(t, once.String(), twice.String())
}

func TestResolveRejectsFragmentsAndMailto(t *testing.T) {
	base, err := url.Parse("https://example.com/page")
	require.NoError(t, err)

	_, ok := Resolve("#section", *base)
	assert.False(t, ok)

	_, ok = Resolve("mailto:a@b.com", *base)
	assert.False(t, ok)

	resolved, ok := Resolve("/other?x=1#frag", *base)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/other?x=1", resolved.String())
}

func TestHasBinaryExtension(t *testing.T) {
	assert.True(t, HasBinaryExtension("/file.PDF"))
	assert.True(t, HasBinaryExtension("/archive.tar.gz"))
	assert.False(t, HasBinaryExtension("/page.html"))
}

func TestContainsDomainSubstringMatch(t *testing.T) {
	assert.True(t, ContainsDomain("https://foogithub.com/x", []string{"github.com"}))
	assert.False(t, ContainsDomain("https://example.com/x", []string{"github.com"}))
}
