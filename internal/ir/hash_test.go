package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptHashDeterminism(t *testing.T) {
	script := "function run(a, b) { return a + b }"

	h1 := ScriptHash(script)
	h2 := ScriptHash(script)

	assert.Equal(t, h1, h2, "ScriptHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestScriptHashChangesWithBody(t *testing.T) {
	assert.NotEqual(t, ScriptHash("function run() { return 1 }"), ScriptHash("function run() { return 2 }"))
}

func TestScriptHashNormalizesUnicode(t *testing.T) {
	assert.Equal(t, ScriptHash("\"caf\u00e9\""), ScriptHash("\"cafe\u0301\""))
}

func TestRunHash(t *testing.T) {
	sh := ScriptHash("function run(a) { return a }")
	inputs := []string{`{"data": 2, "type": "int"}`}

	h1, err := RunHash(sh, inputs)
	require.NoError(t, err)
	h2, err := RunHash(sh, inputs)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := RunHash(sh, []string{`{"data": 3, "type": "int"}`})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3, "Different inputs should produce different hashes")

	h4, err := RunHash(ScriptHash("function run(a) { return [a] }"), inputs)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4, "Different scripts should produce different hashes")
}

func TestDomainSeparation(t *testing.T) {
	data := []byte("same")
	assert.NotEqual(t, hashWithDomain(DomainScript, data), hashWithDomain(DomainRun, data))
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", ShortHash("abc"))
	assert.Equal(t, "0123456789ab", ShortHash("0123456789abcdef"))
}
