package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainScript = "runscript/script/v1"
	DomainRun    = "runscript/run/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ScriptHash is the content address of a script body.
// Bodies that differ only in Unicode normalization hash the same.
func ScriptHash(script string) string {
	canonical, err := MarshalCanonical(script)
	if err != nil {
		// strings always marshal
		panic(fmt.Sprintf("ScriptHash: %v", err))
	}
	return hashWithDomain(DomainScript, canonical)
}

// RunHash identifies a (script, inputs) pair. Two runs with the same hash
// executed the same program on the same raw inputs.
func RunHash(scriptHash string, inputs []string) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"script_hash": scriptHash,
		"inputs":      inputs,
	})
	if err != nil {
		return "", fmt.Errorf("RunHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// ShortHash returns the first 12 characters of a hash for display.
func ShortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
