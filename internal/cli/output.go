package cli

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

var validKinds = strings.Join(types.StandardKinds, ", ")

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeArray writes the entities of seq as one indented JSON array. The
// array is only written once the sequence completed without error.
func writeArray(w io.Writer, seq iter.Seq2[any, error]) (int, error) {
	items := []any{}
	for e, err := range seq {
		if err != nil {
			return 0, err
		}
		items = append(items, e)
	}
	return len(items), writeJSON(w, items)
}

// writeNDJSON writes one compact JSON document per entity as rows arrive.
func writeNDJSON(w io.Writer, seq iter.Seq2[any, error]) (int, error) {
	enc := json.NewEncoder(w)
	n := 0
	for e, err := range seq {
		if err != nil {
			return n, err
		}
		if err := enc.Encode(e); err != nil {
			return n, fmt.Errorf("encode: %w", err)
		}
		n++
	}
	return n, nil
}
