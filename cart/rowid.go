package cart

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Namespace for row identifiers. Fixed so row ids stay stable across
// processes and restarts.
var rowIDNamespace = uuid.MustParse("8a6e0804-2bd0-4672-b79d-d97027f9071a")

// RowID derives the identifier for an (item, options) pair: options are
// sorted by key, serialized together with the item id into one canonical
// byte sequence, and digested into a 128-bit id. The caller's map
// insertion order never affects the result.
func RowID(itemID string, options map[string]string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(itemID)
	for _, k := range keys {
		b.WriteByte(0x00)
		b.WriteString(k)
		b.WriteByte(0x1f)
		b.WriteString(options[k])
	}
	return uuid.NewMD5(rowIDNamespace, []byte(b.String())).String()
}
