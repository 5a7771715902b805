package sqlite

import (
	"encoding/json"
	"fmt"
)

// Nested sub-records (metadata, progress, positions, milestone lists) are
// persisted as JSON columns inside indexed rows, keeping the document flavor
// of the data model without giving up secondary indexes.

func marshalColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	return string(b), nil
}

func unmarshalColumn(data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}
