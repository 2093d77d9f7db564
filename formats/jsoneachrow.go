package formats

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

// JSONEachRow implements Encoder for JSON Lines format
// Each document becomes a separate JSON object on its own line
type JSONEachRow struct{}

func (JSONEachRow) Format() string { return "jsoneachrow" }

func (JSONEachRow) ContentType() string { return "application/x-ndjson" }

// Encode serializes documents as JSON Lines (one JSON object per line)
func (JSONEachRow) Encode(docs []map[string]any) ([]byte, error) {
	var buf bytes.Buffer

	for i, doc := range docs {
		line, err := sonic.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("invalid document at index %d: %w", i, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
