package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/path?q=1": "example.com",
		"http://example.com:8080":          "example.com",
		"example.com":                      "example.com",
		"https://WWW.Example.COM":          "example.com",
		"https://user:pw@api.example.com/": "api.example.com",
	}
	for in, want := range cases {
		got, err := DomainFromURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := DomainFromURL("   ")
	assert.Error(t, err)
	_, err = DomainFromURL("https:///nohost")
	assert.Error(t, err)
}

func TestNormalizeDomain(t *testing.T) {
	got, err := NormalizeDomain(" Example.COM. ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", got)

	got, err = NormalizeDomain("bücher.de")
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.de", got)

	_, err = NormalizeDomain("bad domain.com")
	assert.Error(t, err)
	_, err = NormalizeDomain("")
	assert.Error(t, err)
}

func TestIsPublicSuffix(t *testing.T) {
	assert.True(t, IsPublicSuffix("com"))
	assert.True(t, IsPublicSuffix("co.uk"))
	assert.False(t, IsPublicSuffix("example.com"))
}
