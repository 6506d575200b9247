package hashutil_test

import (
	"encoding/hex"
	"testing"

	"github.com/rohmanhakim/fake-xhr/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"
)

func TestHashBytes(t *testing.T) {
	blake3Hex := func(data string) string {
		sum := blake3.Sum256([]byte(data))
		return hex.EncodeToString(sum[:])
	}

	tests := []struct {
		name string
		data string
		algo hashutil.HashAlgo
		want string
	}{
		{"sha256 empty body", "", hashutil.HashAlgoSHA256, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"sha256 text body", "hello world", hashutil.HashAlgoSHA256, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{"blake3 empty body", "", hashutil.HashAlgoBLAKE3, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{"blake3 json body", `{"user":{"name":"alice"}}`, hashutil.HashAlgoBLAKE3, blake3Hex(`{"user":{"name":"alice"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hashutil.HashBytes([]byte(tt.data), tt.algo)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 64)
		})
	}
}

func TestHashBytes_UnsupportedAlgorithm(t *testing.T) {
	_, err := hashutil.HashBytes([]byte("x"), hashutil.HashAlgo("md5"))
	assert.ErrorContains(t, err, "unsupported hash algorithm")
}

func TestHashBytes_AlgorithmsDiffer(t *testing.T) {
	sha, err := hashutil.HashBytes([]byte("name=bob"), hashutil.HashAlgoSHA256)
	require.NoError(t, err)
	b3, err := hashutil.HashBytes([]byte("name=bob"), hashutil.HashAlgoBLAKE3)
	require.NoError(t, err)

	assert.NotEqual(t, sha, b3)
}

type stringerBody struct{ text string }

func (s stringerBody) String() string { return s.text }

func TestDigestBody(t *testing.T) {
	expected, err := hashutil.HashBytes([]byte("name=bob"), hashutil.HashAlgoBLAKE3)
	require.NoError(t, err)

	tests := []struct {
		name string
		body any
		want string
	}{
		{name: "nil body", body: nil, want: ""},
		{name: "string body", body: "name=bob", want: expected},
		{name: "byte body", body: []byte("name=bob"), want: expected},
		{name: "stringer body", body: stringerBody{text: "name=bob"}, want: expected},
		{name: "other values use their default format", body: 42, want: mustHash(t, "42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hashutil.DigestBody(tt.body, hashutil.HashAlgoBLAKE3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHashAlgo(t *testing.T) {
	algo, err := hashutil.ParseHashAlgo("")
	require.NoError(t, err)
	assert.Equal(t, hashutil.HashAlgoBLAKE3, algo)

	algo, err = hashutil.ParseHashAlgo(" SHA256 ")
	require.NoError(t, err)
	assert.Equal(t, hashutil.HashAlgoSHA256, algo)

	_, err = hashutil.ParseHashAlgo("md5")
	assert.Error(t, err)
}

func mustHash(t *testing.T, data string) string {
	t.Helper()
	digest, err := hashutil.HashBytes([]byte(data), hashutil.HashAlgoBLAKE3)
	require.NoError(t, err)
	return digest
}
