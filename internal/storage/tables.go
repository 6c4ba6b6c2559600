package storage

// Table is a logical key space inside the Badger database
type Table byte

const (
	// Metadata table: hash -> string
	TableID2Str Table = iota

	// Triple indexes, one per rotation of subject, predicate and object
	TableSPO
	TablePOS
	TableOSP
)

func (t Table) String() string {
	switch t {
	case TableID2Str:
		return "id2str"
	case TableSPO:
		return "spo"
	case TablePOS:
		return "pos"
	case TableOSP:
		return "osp"
	default:
		return "unknown"
	}
}

// prefixKey adds a table prefix to a key
func prefixKey(table Table, key []byte) []byte {
	result := make([]byte, 1+len(key))
	result[0] = byte(table)
	copy(result[1:], key)
	return result
}

// rotations gives, per index, the positions of s, p and o in key order
var rotations = map[Table][3]int{
	TableSPO: {0, 1, 2},
	TablePOS: {1, 2, 0},
	TableOSP: {2, 0, 1},
}
