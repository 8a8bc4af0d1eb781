package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
)

// OutboxCollection es la colección que comparten los repos de Mongo.
const OutboxCollection = "outbox"

// OutboxRepoMongoDB lee y marca el outbox que escriben los repos de Mongo.
type OutboxRepoMongoDB struct {
	outboxColl *mongo.Collection
}

var _ sharedDomain.OutboxRepository = (*OutboxRepoMongoDB)(nil)

func NewOutboxRepoMongoDB(client *mongo.Client, dbName string) *OutboxRepoMongoDB {
	return &OutboxRepoMongoDB{outboxColl: client.Database(dbName).Collection(OutboxCollection)}
}

// Los documentos usan el UUID en texto como _id.
type mongoOutboxEvent struct {
	ID            string      `bson:"_id"`
	AggregateType string      `bson:"aggregateType"`
	AggregateID   string      `bson:"aggregateId"`
	EventType     string      `bson:"eventType"`
	Payload       interface{} `bson:"payload"`
	CreatedAt     time.Time   `bson:"createdAt"`
	Processed     bool        `bson:"processed"`
}

// InsertOutbox escribe evt; llámalo con el SessionContext de la transacción.
func InsertOutbox(ctx context.Context, coll *mongo.Collection, evt sharedDomain.OutboxEvent) error {
	_, err := coll.InsertOne(ctx, mongoOutboxEvent{
		ID:            evt.ID.String(),
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID,
		EventType:     evt.EventType,
		Payload:       evt.Payload,
		CreatedAt:     evt.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func (r *OutboxRepoMongoDB) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.outboxColl.Find(ctx, bson.M{"processed": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []sharedDomain.OutboxEvent
	for cursor.Next(ctx) {
		var mo mongoOutboxEvent
		if err := cursor.Decode(&mo); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(mo.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in outbox document: %w", err)
		}
		events = append(events, sharedDomain.OutboxEvent{
			ID:            id,
			AggregateType: mo.AggregateType,
			AggregateID:   mo.AggregateID,
			EventType:     mo.EventType,
			Payload:       normalizePayload(mo.Payload),
			CreatedAt:     mo.CreatedAt,
			Processed:     mo.Processed,
		})
	}
	return events, cursor.Err()
}

func (r *OutboxRepoMongoDB) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.outboxColl.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"processed": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}

// normalizePayload convierte los documentos BSON en mapas normales para que
// el relayer los pueda pasar por encoding/json.
func normalizePayload(v interface{}) interface{} {
	switch p := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(p))
		for _, e := range p {
			m[e.Key] = normalizePayload(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(p))
		for k, e := range p {
			m[k] = normalizePayload(e)
		}
		return m
	case bson.A:
		out := make([]interface{}, len(p))
		for i, e := range p {
			out[i] = normalizePayload(e)
		}
		return out
	}
	return v
}
