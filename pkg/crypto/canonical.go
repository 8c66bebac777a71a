package crypto

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// CanonicalJSON marshals v to JSON and then transforms it into RFC 8785
// (JSON Canonicalization Scheme) form: map keys sorted, no insignificant
// whitespace, no HTML escaping, numbers in ECMAScript form. Two values that
// are JSON-equal but byte-distinct (differing key order, spacing, escaping)
// always produce identical canonical bytes, which is what makes the
// resulting hash a stable commitment.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("crypto: canonical marshal: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("crypto: jcs transform: %w", err)
	}
	return canonical, nil
}

// CanonicalHash returns the hex SHA-256 digest of v's canonical JSON form.
func CanonicalHash(v interface{}) (string, error) {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return SHA256Hex(canonical), nil
}

// MustCanonicalHash is CanonicalHash but panics on error. Reserved for values
// that are statically known to be JSON-marshalable (e.g. string slices),
// never for caller-supplied data.
func MustCanonicalHash(v interface{}) string {
	h, err := CanonicalHash(v)
	if err != nil {
		panic(err)
	}
	return h
}
