// Package formats encodes document batches into the upload formats the
// Bright server accepts.
package formats

import "errors"

// Encoder serializes a batch of documents into one upload format
type Encoder interface {
	// Format is the format name sent in the format query parameter
	Format() string

	// ContentType is the MIME type of the encoded payload
	ContentType() string

	// Encode serializes the documents
	Encode(docs []map[string]any) ([]byte, error)
}

// ErrUnsupportedFormat is returned when the requested format is not supported
var ErrUnsupportedFormat = errors.New("unsupported format")

// GetEncoder returns the appropriate encoder for the given format
func GetEncoder(format string) (Encoder, error) {
	switch format {
	case "jsoneachrow":
		return JSONEachRow{}, nil
	case "msgpack":
		return Msgpack{}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}
