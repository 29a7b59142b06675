package document

import (
	"fmt"

	"github.com/viant/bintly"
)

// Provenance points back to the location a chunk was derived from.
type Provenance struct {
	Page      int    `json:"page,omitempty"`
	Sheet     string `json:"sheet,omitempty"`
	CellRange string `json:"cellRange,omitempty"`
}

// Chunk is a bounded, provenance-tagged segment of extracted text.
type Chunk struct {
	ChunkIndex int        `json:"chunkIndex"`
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// Chunks is an ordered chunk sequence of one extraction.
type Chunks []Chunk

// Validate checks that indexes are strictly increasing and texts are non-empty.
func (c Chunks) Validate() error {
	prev := -1
	for i, chunk := range c {
		if chunk.ChunkIndex <= prev {
			return fmt.Errorf("chunk %d: index %d not greater than %d", i, chunk.ChunkIndex, prev)
		}
		if chunk.Text == "" {
			return fmt.Errorf("chunk %d: empty text", i)
		}
		prev = chunk.ChunkIndex
	}
	return nil
}

// EncodeBinary encodes chunks to binary stream
func (c Chunks) EncodeBinary(stream *bintly.Writer) error {
	stream.Int(len(c))
	for _, chunk := range c {
		stream.Int(chunk.ChunkIndex)
		stream.String(chunk.Text)
		stream.Int(chunk.Provenance.Page)
		stream.String(chunk.Provenance.Sheet)
		stream.String(chunk.Provenance.CellRange)
	}
	return nil
}

// DecodeBinary decodes chunks from binary stream
func (c *Chunks) DecodeBinary(stream *bintly.Reader) error {
	var size int
	stream.Int(&size)
	if size < 0 {
		return fmt.Errorf("invalid chunk count: %d", size)
	}
	out := make(Chunks, size)
	for i := range out {
		stream.Int(&out[i].ChunkIndex)
		stream.String(&out[i].Text)
		stream.Int(&out[i].Provenance.Page)
		stream.String(&out[i].Provenance.Sheet)
		stream.String(&out[i].Provenance.CellRange)
	}
	*c = out
	return nil
}

var (
	writers = bintly.NewWriters()
	readers = bintly.NewReaders()
)

// MarshalChunks returns the binary form of chunks.
func MarshalChunks(chunks Chunks) ([]byte, error) {
	w := writers.Get()
	defer writers.Put(w)
	if err := chunks.EncodeBinary(w); err != nil {
		return nil, err
	}
	bs := w.Bytes()
	out := make([]byte, len(bs))
	copy(out, bs)
	return out, nil
}

// UnmarshalChunks decodes chunks produced by MarshalChunks.
func UnmarshalChunks(data []byte) (Chunks, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r := readers.Get()
	defer readers.Put(r)
	if err := r.FromBytes(data); err != nil {
		return nil, err
	}
	var chunks Chunks
	if err := chunks.DecodeBinary(r); err != nil {
		return nil, err
	}
	return chunks, nil
}
