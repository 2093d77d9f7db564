package bright

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nnstd/bright-go/formats"
)

// CreateIndex creates a new index. primaryKey may be empty, in which case
// the server generates document IDs itself.
func (c *Client) CreateIndex(ctx context.Context, id, primaryKey string) (*IndexConfig, error) {
	q := url.Values{}
	q.Set("id", id)
	if primaryKey != "" {
		q.Set("primaryKey", primaryKey)
	}

	var config IndexConfig
	if err := c.do(ctx, http.MethodPost, "/indexes", q, nil, nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GetIndex fetches the configuration of an index
func (c *Client) GetIndex(ctx context.Context, id string) (*IndexConfig, error) {
	var config IndexConfig
	if err := c.do(ctx, http.MethodGet, "/indexes/"+url.PathEscape(id), nil, nil, nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// UpdateIndex applies a partial configuration update to an index
func (c *Client) UpdateIndex(ctx context.Context, id string, config IndexConfig) (*IndexConfig, error) {
	var updated IndexConfig
	if err := c.doJSON(ctx, http.MethodPatch, "/indexes/"+url.PathEscape(id), nil, config, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteIndex deletes an index and all its documents
func (c *Client) DeleteIndex(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/indexes/"+url.PathEscape(id), nil, nil, nil, nil)
}

// ListIndexes lists index configurations
func (c *Client) ListIndexes(ctx context.Context, params ListIndexesParams) ([]IndexConfig, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	var resp indexListResponse
	if err := c.do(ctx, http.MethodGet, "/indexes", q, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// IndexExists reports whether an index exists. A not-found error becomes
// false; every other error is returned unchanged.
func (c *Client) IndexExists(ctx context.Context, id string) (bool, error) {
	if _, err := c.GetIndex(ctx, id); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Index is a stateless handle binding one index ID to all per-index
// operations
type Index struct {
	client *Client
	id     string
}

// ID returns the bound index ID
func (i *Index) ID() string {
	return i.id
}

// Exists reports whether the bound index exists
func (i *Index) Exists(ctx context.Context) (bool, error) {
	return i.client.IndexExists(ctx, i.id)
}

func (i *Index) path(sub string) string {
	p := "/indexes/" + url.PathEscape(i.id)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

// AddDocuments uploads documents as newline-delimited JSON and returns the
// number of documents indexed. An optional primaryKey overrides the index
// primary key for this batch.
func (i *Index) AddDocuments(ctx context.Context, docs []map[string]any, primaryKey ...string) (int, error) {
	return i.addDocuments(ctx, formats.JSONEachRow{}, docs, primaryKey)
}

// AddDocumentsMsgpack uploads documents encoded as MessagePack. Prefer this
// over AddDocuments for large batches of numeric-heavy documents.
func (i *Index) AddDocumentsMsgpack(ctx context.Context, docs []map[string]any, primaryKey ...string) (int, error) {
	return i.addDocuments(ctx, formats.Msgpack{}, docs, primaryKey)
}

func (i *Index) addDocuments(ctx context.Context, enc formats.Encoder, docs []map[string]any, primaryKey []string) (int, error) {
	payload, err := enc.Encode(docs)
	if err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("format", enc.Format())
	if len(primaryKey) > 0 && primaryKey[0] != "" {
		q.Set("primaryKey", primaryKey[0])
	}

	header := http.Header{}
	header.Set("Content-Type", enc.ContentType())

	var resp addDocumentsResponse
	if err := i.client.do(ctx, http.MethodPost, i.path("documents"), q, header, bytes.NewReader(payload), &resp); err != nil {
		return 0, err
	}
	return resp.Indexed, nil
}

// UpdateDocument merges a partial update into one document and returns the
// merged document
func (i *Index) UpdateDocument(ctx context.Context, documentID string, updates map[string]any) (map[string]any, error) {
	var merged map[string]any
	if err := i.client.doJSON(ctx, http.MethodPatch, i.path("documents/"+url.PathEscape(documentID)), nil, updates, &merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// DeleteDocument deletes one document by ID
func (i *Index) DeleteDocument(ctx context.Context, documentID string) error {
	return i.client.do(ctx, http.MethodDelete, i.path("documents/"+url.PathEscape(documentID)), nil, nil, nil, nil)
}

// DeleteDocuments bulk-deletes documents by ID list or by filter query.
// The server rejects a call with neither.
func (i *Index) DeleteDocuments(ctx context.Context, params DeleteDocumentsParams) error {
	q := url.Values{}
	for _, id := range params.IDs {
		q.Add("ids[]", id)
	}
	if len(params.IDs) == 0 {
		if compiled := compileQuery("", params.Filter, params.Range); compiled != "" {
			q.Set("filter", compiled)
		}
	}
	return i.client.do(ctx, http.MethodDelete, i.path("documents"), q, nil, nil, nil)
}

// Search runs a search against the index. Query, Filter and Range compile
// into a single query string; an empty compilation sends no q parameter and
// matches all documents.
func (i *Index) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	q := url.Values{}
	if compiled := compileQuery(params.Query, params.Filter, params.Range); compiled != "" {
		q.Set("q", compiled)
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	for _, token := range sortTokens(params.Sort) {
		q.Add("sort[]", token)
	}
	for _, attr := range params.AttributesToRetrieve {
		q.Add("attributesToRetrieve[]", attr)
	}
	for _, attr := range params.AttributesToExclude {
		q.Add("attributesToExclude[]", attr)
	}

	var resp SearchResponse
	if err := i.client.do(ctx, http.MethodPost, i.path("searches"), q, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
