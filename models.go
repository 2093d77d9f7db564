package bright

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// IndexConfig represents the configuration for an index
type IndexConfig struct {
	ID         string `json:"id"`
	PrimaryKey string `json:"primaryKey,omitempty"`
}

// SearchParams describes one search request. Query, Filter and Range are
// compiled together into the server's query string; the rest map directly
// onto query parameters.
type SearchParams struct {
	Query  string
	Filter Filter
	Range  Range

	Offset int
	Limit  int
	Page   int

	Sort []SortField

	// AttributesToRetrieve and AttributesToExclude are mutually exclusive
	// projections. Exclusion is a hint honored by the server, not enforced
	// client-side.
	AttributesToRetrieve []string
	AttributesToExclude  []string
}

// SearchResponse represents a search response
type SearchResponse struct {
	Hits       []map[string]any `json:"hits"`
	TotalHits  uint64           `json:"totalHits"`
	TotalPages int              `json:"totalPages"`
}

// DecodeHits decodes the generic hits of a response into a typed slice
func DecodeHits[T any](resp *SearchResponse) ([]T, error) {
	hits := make([]T, 0, len(resp.Hits))
	for i, hit := range resp.Hits {
		raw, err := sonic.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("failed to encode hit %d: %w", i, err)
		}
		var v T
		if err := sonic.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode hit %d: %w", i, err)
		}
		hits = append(hits, v)
	}
	return hits, nil
}

// ListIndexesParams paginates index listing. Zero values use the server
// defaults; Page takes precedence over Offset when both are set.
type ListIndexesParams struct {
	Limit  int
	Offset int
	Page   int
}

// DeleteDocumentsParams selects documents for bulk deletion, either by
// explicit IDs or by a compiled filter/range query. IDs take precedence
// when both are given.
type DeleteDocumentsParams struct {
	IDs    []string
	Filter Filter
	Range  Range
}

type indexListResponse struct {
	Items []IndexConfig `json:"items"`
}

type addDocumentsResponse struct {
	Indexed int `json:"indexed"`
}
