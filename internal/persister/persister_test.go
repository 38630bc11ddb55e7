package persister

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	p := New(t.TempDir(), 3)

	body := []byte("<html><body>hello tubingen</body></html>")
	key, err := p.Write("https://example.com/a", body)
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	readBack, err := p.Read(key)
	require.NoError(t, err)
	assert.Equal(t, body, readBack)
}

func TestReadMissingKeyErrors(t *testing.T) {
	p := New(t.TempDir(), 3)
	_, err := p.Read("deadbeefdeadbeef")
	assert.Error(t, err)
}
