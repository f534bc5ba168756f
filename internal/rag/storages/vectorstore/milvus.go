package vectorstore

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"hrassist/internal/rag/schema"
	"hrassist/pkg/logger"
)

// Field names of the Milvus collection holding the chunk records.
const (
	FieldID         = "id"
	FieldEmbedding  = "embedding"
	FieldSourceFile = "source_file"
	FieldChunkIndex = "chunk_index"
	FieldChunkText  = "chunk_text"
	FieldURL        = "url"
)

const (
	maxIDLength        = 256
	maxSourceFileLen   = 512
	maxChunkTextLength = 65535
	maxURLLength       = 2048
)

// MilvusStore implements VectorStore on a Milvus collection. The configured
// partition acts as the namespace isolating one document collection from
// others.
type MilvusStore struct {
	client     client.Client
	collection string
	partition  string
	dim        int
	log        *logger.Logger
}

// NewMilvusStore connects to Milvus and ensures the collection, its vector
// index and the namespace partition exist.
func NewMilvusStore(ctx context.Context, address, collection, partition string, dim int, log *logger.Logger) (*MilvusStore, error) {
	c, err := client.NewClient(ctx, client.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", address, err)
	}

	s := &MilvusStore{
		client:     c,
		collection: collection,
		partition:  partition,
		dim:        dim,
		log:        log,
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying Milvus connection.
func (s *MilvusStore) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}

	if !has {
		sch := entity.NewSchema().
			WithName(s.collection).
			WithDescription("HR policy document chunks").
			WithField(entity.NewField().WithName(FieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxIDLength).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(FieldEmbedding).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim))).
			WithField(entity.NewField().WithName(FieldSourceFile).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxSourceFileLen)).
			WithField(entity.NewField().WithName(FieldChunkIndex).WithDataType(entity.FieldTypeInt64)).
			WithField(entity.NewField().WithName(FieldChunkText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxChunkTextLength)).
			WithField(entity.NewField().WithName(FieldURL).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxURLLength))

		if err := s.client.CreateCollection(ctx, sch, 1); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return fmt.Errorf("failed to build index definition: %w", err)
		}
		if err := s.client.CreateIndex(ctx, s.collection, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create vector index: %w", err)
		}
		s.log.Info(fmt.Sprintf("Created Milvus collection '%s' (dim=%d)", s.collection, s.dim))
	}

	if s.partition != "" && s.partition != "_default" {
		hasPart, err := s.client.HasPartition(ctx, s.collection, s.partition)
		if err != nil {
			return fmt.Errorf("failed to check partition %s: %w", s.partition, err)
		}
		if !hasPart {
			if err := s.client.CreatePartition(ctx, s.collection, s.partition); err != nil {
				return fmt.Errorf("failed to create partition %s: %w", s.partition, err)
			}
			s.log.Info(fmt.Sprintf("Created Milvus partition '%s' in collection '%s'", s.partition, s.collection))
		}
	}

	return nil
}

// Upsert inserts a batch of records into the namespace partition.
func (s *MilvusStore) Upsert(ctx context.Context, records []*schema.Record) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, len(records))
	vectors := make([][]float32, len(records))
	files := make([]string, len(records))
	indexes := make([]int64, len(records))
	texts := make([]string, len(records))
	urls := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		vectors[i] = r.Embedding
		files[i] = r.SourceFile
		indexes[i] = int64(r.ChunkIndex)
		texts[i] = r.ChunkText
		urls[i] = r.URL
	}

	_, err := s.client.Insert(ctx, s.collection, s.partition,
		entity.NewColumnVarChar(FieldID, ids),
		entity.NewColumnFloatVector(FieldEmbedding, s.dim, vectors),
		entity.NewColumnVarChar(FieldSourceFile, files),
		entity.NewColumnInt64(FieldChunkIndex, indexes),
		entity.NewColumnVarChar(FieldChunkText, texts),
		entity.NewColumnVarChar(FieldURL, urls),
	)
	if err != nil {
		return fmt.Errorf("failed to insert records into milvus: %w", err)
	}

	if err := s.client.Flush(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to flush collection %s: %w", s.collection, err)
	}
	return nil
}

// Query searches the namespace partition for the nearest neighbors of the
// given vector. Only metadata fields are requested back, not the vectors.
func (s *MilvusStore) Query(ctx context.Context, vector []float32, topK int) ([]*schema.RetrievedDocument, error) {
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", s.collection, err)
	}

	sp, _ := entity.NewIndexIvfFlatSearchParam(10)
	outputFields := []string{FieldSourceFile, FieldChunkText, FieldURL}

	var partitions []string
	if s.partition != "" {
		partitions = []string{s.partition}
	}

	results, err := s.client.Search(
		ctx, s.collection, partitions, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		FieldEmbedding, entity.COSINE, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	var docs []*schema.RetrievedDocument
	for _, res := range results {
		files := varcharData(res.Fields, FieldSourceFile)
		texts := varcharData(res.Fields, FieldChunkText)
		urls := varcharData(res.Fields, FieldURL)

		for i := 0; i < res.ResultCount; i++ {
			doc := &schema.RetrievedDocument{Score: res.Scores[i]}
			if i < len(texts) {
				doc.Text = texts[i]
			}
			if i < len(files) {
				doc.File = files[i]
			}
			if i < len(urls) {
				doc.URL = urls[i]
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// varcharData extracts the string data of the named column, or nil when the
// column is missing or has another type.
func varcharData(fields []entity.Column, name string) []string {
	for _, field := range fields {
		if field.Name() != name {
			continue
		}
		if col, ok := field.(*entity.ColumnVarChar); ok {
			return col.Data()
		}
	}
	return nil
}

var _ VectorStore = (*MilvusStore)(nil)
