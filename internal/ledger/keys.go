package ledger

import "encoding/binary"

var (
	nodePrefix = []byte("node/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/i/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyMeta builds the per-node metadata key.
func KeyMeta(node uint64) []byte {
	k := make([]byte, 0, len(nodePrefix)+8+len(metaSuffix))
	k = append(k, nodePrefix...)
	k = appendBE8(k, node)
	k = append(k, metaSuffix...)
	return k
}

// KeyEntry builds the entry key for id with a big-endian suffix so keys sort
// like the IDs.
func KeyEntry(node, id uint64) []byte {
	k := make([]byte, 0, len(nodePrefix)+8+len(entrySeg)+8)
	k = append(k, nodePrefix...)
	k = appendBE8(k, node)
	k = append(k, entrySeg...)
	k = appendBE8(k, id)
	return k
}

// entryID extracts the id from an entry key.
func entryID(key []byte) (uint64, bool) {
	if len(key) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(key)-8:]), true
}
