// Package schema defines the data types carried through the RAG pipeline.
package schema

// Record is one chunk of a source document as stored in the vector index.
// Records are created by ingestion and never updated in place; re-ingesting
// the same directory creates new records with fresh id suffixes.
type Record struct {
	// ID is "{source_file}#{chunk_index}-{random suffix}". The random suffix
	// avoids identifier collisions across repeated ingestion runs.
	ID string

	// Embedding is the chunk vector, already normalized to the index
	// dimension.
	Embedding []float32

	// SourceFile is the base name of the originating document.
	SourceFile string

	// ChunkIndex is the zero-based position of the chunk within its document.
	ChunkIndex int

	// ChunkText is the chunk content.
	ChunkText string

	// URL is an optional citation link for the source document.
	URL string
}

// RetrievedDocument is one ranked match from an index query. It lives for a
// single chat request and is discarded afterwards.
type RetrievedDocument struct {
	// Score is the similarity score reported by the index.
	Score float32

	// Text is the chunk content from the record metadata, or empty.
	Text string

	// File is the source file name from the record metadata, or empty.
	File string

	// URL is the citation link from the record metadata, or empty.
	URL string
}
