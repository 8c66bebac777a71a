package attestation

import (
	"sort"

	"github.com/mnemom/aip/pkg/crypto"
)

// merkleLeafDomain is a domain-separation prefix baked into every leaf
// preimage. Node hashing below has no such prefix: it MUST stay the exact
// hex(SHA-256(left_hex || right_hex)) preimage, or inclusion proofs stop
// verifying against roots published by existing verifiers.
const merkleLeafDomain = "aip:evidence:leaf:v1\x00"

// MerkleTree is a binary hash tree over a batch of certificate subjects.
// Internal nodes hash the concatenation of their children's HEX digest
// strings, not the raw bytes those hex strings decode to. Proof
// compatibility depends on this exact preimage; it must not be "corrected"
// to byte concatenation.
type MerkleTree struct {
	leafHashes []string
	levels     [][]string
	Root       string
}

// BuildMerkleTree hashes each canonicalized subject into a leaf (sorted by
// subject key for determinism) and folds the tree bottom-up. An odd level is
// completed by duplicating its last hash, matching standard unbalanced-tree
// handling.
func BuildMerkleTree(subjects map[string]interface{}) (*MerkleTree, error) {
	keys := make([]string, 0, len(subjects))
	for k := range subjects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	leaves := make([]string, 0, len(keys))
	for _, k := range keys {
		canonical, err := crypto.CanonicalJSON(subjects[k])
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leafHash(k, canonical))
	}

	if len(leaves) == 0 {
		return &MerkleTree{Root: ""}, nil
	}

	tree := &MerkleTree{leafHashes: leaves}
	level := append([]string{}, leaves...)
	tree.levels = append(tree.levels, level)

	for len(level) > 1 {
		level = nextLevel(level)
		tree.levels = append(tree.levels, level)
	}
	tree.Root = level[0]
	return tree, nil
}

func leafHash(key string, canonical []byte) string {
	preimage := merkleLeafDomain + key + "\x00" + string(canonical)
	return crypto.SHA256Hex([]byte(preimage))
}

func nextLevel(level []string) []string {
	if len(level)%2 != 0 {
		level = append(level, level[len(level)-1])
	}
	next := make([]string, len(level)/2)
	for i := 0; i < len(level); i += 2 {
		next[i/2] = nodeHash(level[i], level[i+1])
	}
	return next
}

func nodeHash(leftHex, rightHex string) string {
	return crypto.SHA256Hex([]byte(leftHex + rightHex))
}

// ProofFor builds the inclusion proof for the leaf at index i, walking from
// leaf to root. It returns ok=false if i is out of range.
func (t *MerkleTree) ProofFor(i int) ([]Sibling, bool) {
	if i < 0 || i >= len(t.leafHashes) {
		return nil, false
	}

	var siblings []Sibling
	index := i
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		if index%2 == 0 {
			if index+1 < len(nodes) {
				siblings = append(siblings, Sibling{Hash: nodes[index+1], Position: "right"})
			} else {
				siblings = append(siblings, Sibling{Hash: nodes[index], Position: "right"})
			}
		} else {
			siblings = append(siblings, Sibling{Hash: nodes[index-1], Position: "left"})
		}
		index /= 2
	}
	return siblings, true
}

// LeafHash returns the leaf hash at index i.
func (t *MerkleTree) LeafHash(i int) (string, bool) {
	if i < 0 || i >= len(t.leafHashes) {
		return "", false
	}
	return t.leafHashes[i], true
}

// Sibling is one step of an inclusion proof, independent of contracts so
// this package stays usable without pulling in the wire representation.
type Sibling struct {
	Hash     string
	Position string // "left" or "right"
}

// VerifyInclusion walks leafHash up through siblings and compares the result
// to expectedRoot.
func VerifyInclusion(leafHash string, siblings []Sibling, expectedRoot string) bool {
	current := leafHash
	for _, s := range siblings {
		if s.Position == "left" {
			current = nodeHash(s.Hash, current)
		} else {
			current = nodeHash(current, s.Hash)
		}
	}
	return current == expectedRoot
}
