package mongoStore

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var logger = logger_i.NewLogger("Mongo Store")

// Store keeps documents, chunks and the query log in three collections of one database.
type Store struct {
	client    *mongo.Client
	documents *mongo.Collection
	chunks    *mongo.Collection
	queries   *mongo.Collection
}

// Connect dials the server, pings it and makes sure the lookup indexes exist.
// The client is disconnected when ctx is cancelled.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, config.MongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(config.MongoConnectTimeout).
		SetAppName(config.ServiceName))
	if err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	if err = client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("Mongo is offline", "error", err)
		return nil, docModel.StageError(docModel.ErrStore, err)
	}

	db := client.Database(database)
	s := &Store{
		client:    client,
		documents: db.Collection(config.DocumentsCollection),
		chunks:    db.Collection(config.ChunksCollection),
		queries:   db.Collection(config.QueriesCollection),
	}
	if err = s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	go func() {
		<-ctx.Done()
		logger.Info("Disconnecting Mongo")
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("could not disconnect", "error", err)
		}
	}()
	logger.Info("Mongo store ready", "database", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.chunks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "document_id", Value: 1}, {Key: "chunk_index", Value: 1}},
	})
	if err != nil {
		return docModel.StageError(docModel.ErrStore, fmt.Errorf("chunks index: %w", err))
	}
	_, err = s.queries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return docModel.StageError(docModel.ErrStore, fmt.Errorf("queries index: %w", err))
	}
	return nil
}

func (s *Store) SaveDocument(ctx context.Context, doc docModel.Document) error {
	_, err := s.documents.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		logger.Trace(ctx).Error("could not save document", "documentId", doc.ID, "error", err)
		return docModel.StageError(docModel.ErrStore, err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	var doc docModel.Document
	err := s.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("document %s: %w", id, docModel.ErrNotFound)
	}
	if err != nil {
		return doc, docModel.StageError(docModel.ErrStore, err)
	}
	return doc, nil
}

func (s *Store) MarkProcessed(ctx context.Context, id string) error {
	res, err := s.documents.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"processed": true}})
	if err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document %s: %w", id, docModel.ErrNotFound)
	}
	return nil
}

// SaveChunks upserts by chunk id so a replayed ingestion does not duplicate rows.
func (s *Store) SaveChunks(ctx context.Context, chunks []docModel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(chunks))
	for i, c := range chunks {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": c.ID}).
			SetReplacement(c).
			SetUpsert(true)
	}
	if _, err := s.chunks.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		logger.Trace(ctx).Error("could not save chunks", "count", len(chunks), "error", err)
		return docModel.StageError(docModel.ErrStore, err)
	}
	return nil
}

func (s *Store) GetChunks(ctx context.Context, documentID string) ([]docModel.Chunk, error) {
	cursor, err := s.chunks.Find(ctx, bson.M{"document_id": documentID},
		options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}}))
	if err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	chunks := make([]docModel.Chunk, 0)
	if err = cursor.All(ctx, &chunks); err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	return chunks, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.documents.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	if _, err := s.chunks.DeleteMany(ctx, bson.M{"document_id": id}); err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	logger.Trace(ctx).Info("Deleted document and chunks", "documentId", id)
	return nil
}

func (s *Store) LogQuery(ctx context.Context, entry docModel.QueryLogEntry) error {
	if _, err := s.queries.InsertOne(ctx, entry); err != nil {
		return docModel.StageError(docModel.ErrStore, err)
	}
	return nil
}

// RecentQueries returns up to n logged queries, newest last.
func (s *Store) RecentQueries(ctx context.Context, n int64) ([]docModel.QueryLogEntry, error) {
	cursor, err := s.queries.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(n))
	if err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	var entries []docModel.QueryLogEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, docModel.StageError(docModel.ErrStore, err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}
