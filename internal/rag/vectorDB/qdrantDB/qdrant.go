package qdrantDB

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger = logger_i.NewLogger("Qdrant")

type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	PoolSize   uint
	Collection string
	Dimension  uint64
}

func DefaultConfig() Config {
	return Config{
		Host:       config.QdrantHostAddr,
		Port:       config.QdrantPort,
		APIKey:     config.QdrantAPIKey,
		UseTLS:     config.QdrantUseTLS,
		PoolSize:   config.QdrantPoolSize,
		Collection: config.VectorCollectionName,
		Dimension:  uint64(config.EmbeddingOutputDimensionality),
	}
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
}

// NewQdrantIndex dials Qdrant over gRPC. The client is closed when ctx is cancelled.
func NewQdrantIndex(ctx context.Context, cfg Config) (*ClientHolder, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: cfg.PoolSize,
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, docModel.StageError(docModel.ErrIndex, err)
	}
	go closeQdrant(ctx, client)

	return &ClientHolder{QObj: client, collection: cfg.Collection, dimension: cfg.Dimension}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

// EnsureCollection creates the cosine collection and the keyword indexes used by query filters.
func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	if db.collection == "" {
		return docModel.StageError(docModel.ErrIndex, errors.New("empty collection name"))
	}
	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return docModel.StageError(docModel.ErrIndex, err)
	}
	if exists {
		return nil
	}

	logger.Trace(ctx).Info("creating collection", "collection", db.collection, "dimension", db.dimension)
	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return docModel.StageError(docModel.ErrIndex, err)
	}

	for _, field := range []string{vectorDB.KeyDocumentID, vectorDB.KeyDomain} {
		_, err = db.QObj.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: db.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return docModel.StageError(docModel.ErrIndex, fmt.Errorf("payload index %s: %w", field, err))
		}
	}
	return nil
}

func (db *ClientHolder) Upsert(ctx context.Context, items []vectorDB.IndexItem) error {
	if len(items) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, len(items))
	for i, item := range items {
		if uint64(len(item.Vector)) != db.dimension {
			return docModel.StageError(docModel.ErrIndex,
				fmt.Errorf("chunk %s: vector has %d dimensions, collection expects %d", item.Chunk.ID, len(item.Vector), db.dimension))
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(item.Chunk.ID)),
			Vectors: qdrant.NewVectors(item.Vector...),
			Payload: qdrant.NewValueMap(vectorDB.BuildPayload(item)),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Trace(ctx).Error("qdrant upsert failed", "error", err, "points", len(points))
		return docModel.StageError(docModel.ErrIndex, err)
	}
	return nil
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, topK int, filter *vectorDB.Filter) ([]docModel.RetrievedResult, error) {
	log := logger.Trace(ctx)
	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         toQdrantFilter(filter),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, docModel.StageError(docModel.ErrIndex, err)
	}

	results := make([]docModel.RetrievedResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, vectorDB.ResultFromPayload(float64(hit.Score), payloadToMap(hit.Payload)))
	}
	log.Debug("Found matches", "count", len(results))
	return results, nil
}

// DeleteByDocument removes every point of the document. A missing collection counts as done.
func (db *ClientHolder) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(vectorDB.KeyDocumentID, documentID)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return docModel.StageError(docModel.ErrIndex, err)
	}
	return nil
}

// PointID converts the md5 chunk id into the UUID form Qdrant accepts. Other ids hash into a v5 UUID.
func PointID(chunkID string) string {
	if id, err := uuid.Parse(chunkID); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

func toQdrantFilter(f *vectorDB.Filter) *qdrant.Filter {
	if f.IsEmpty() {
		return nil
	}
	var must []*qdrant.Condition
	if f.Domain != "" {
		must = append(must, qdrant.NewMatch(vectorDB.KeyDomain, string(f.Domain)))
	}
	if len(f.DocumentIDs) > 0 {
		must = append(must, qdrant.NewMatchKeywords(vectorDB.KeyDocumentID, f.DocumentIDs...))
	}
	return &qdrant.Filter{Must: must}
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		out := make([]any, len(values))
		for i, item := range values {
			out[i] = valueToAny(item)
		}
		return out
	case *qdrant.Value_StructValue:
		return payloadToMap(kind.StructValue.GetFields())
	default:
		return nil
	}
}
