package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedMongo "github.com/davicafu/makethechange/internal/shared/infra/platform/db/mongodb"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const PostsCollection = "posts"

// Nombres del dominio -> campos del documento.
var postFields = map[string]string{
	"published_at": "publishedAt",
}

// PostRepoMongoDB implementa PostRepository para MongoDB.
type PostRepoMongoDB struct {
	client     *mongo.Client
	postsColl  *mongo.Collection
	outboxColl *mongo.Collection
}

var _ blogDomain.PostRepository = (*PostRepoMongoDB)(nil)

func NewPostRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*PostRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &PostRepoMongoDB{
		client:     client,
		postsColl:  db.Collection(PostsCollection),
		outboxColl: db.Collection(sharedMongo.OutboxCollection),
	}, nil
}

// --- Structs de BSON para el mapeo ---

type mongoPost struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Slug        string    `bson:"slug"`
	Excerpt     string    `bson:"excerpt"`
	Author      string    `bson:"author"`
	Tags        []string  `bson:"tags"`
	Status      string    `bson:"status"`
	Featured    bool      `bson:"featured"`
	Views       int       `bson:"views"`
	ReadMinutes int       `bson:"readMinutes"`
	CoverURL    string    `bson:"coverUrl,omitempty"`
	PublishedAt time.Time `bson:"publishedAt"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// --- Escritura transaccional ---

// Update guarda los campos editables y el evento de outbox en una transacción.
func (r *PostRepoMongoDB) Update(ctx context.Context, p *blogDomain.Post, evt sharedDomain.OutboxEvent) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := r.postsColl.UpdateOne(sessCtx, bson.M{"_id": p.ID.String()}, bson.M{"$set": bson.M{
			"status":      string(p.Status),
			"featured":    p.Featured,
			"publishedAt": p.PublishedAt,
			"updatedAt":   p.UpdatedAt,
		}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, blogDomain.ErrPostNotFound
		}
		return nil, sharedMongo.InsertOutbox(sessCtx, r.outboxColl, evt)
	})
	return err
}

// Insert carga un post sin evento (seed). Ignora los que ya existen.
func (r *PostRepoMongoDB) Insert(ctx context.Context, p blogDomain.Post) error {
	_, err := r.postsColl.UpdateOne(ctx,
		bson.M{"_id": p.ID.String()},
		bson.M{"$setOnInsert": toMongoPost(p)},
		options.Update().SetUpsert(true),
	)
	return err
}

// EnsureIndexes crea los índices del listado por defecto.
func (r *PostRepoMongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := r.postsColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// --- Lectura ---

func (r *PostRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*blogDomain.Post, error) {
	var mp mongoPost
	err := r.postsColl.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, blogDomain.ErrPostNotFound
		}
		return nil, err
	}
	return fromMongoPost(mp)
}

// List pagina por cursor (keyset sobre el campo de orden y _id) o por offset.
func (r *PostRepoMongoDB) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) (sharedQuery.Page[blogDomain.Post], error) {
	var empty sharedQuery.Page[blogDomain.Post]
	filter := sharedMongo.CriteriaToFilter(criteria, postFields)

	total, err := r.postsColl.CountDocuments(ctx, filter)
	if err != nil {
		return empty, fmt.Errorf("count posts: %w", err)
	}

	limit := sharedQuery.LimitOf(pagination, blogDomain.PageSize)
	opts := options.Find().SetSort(sharedMongo.SortOf(sort, postFields))

	cursorMode := false
	switch p := pagination.(type) {
	case sharedQuery.CursorPagination:
		cursorMode = true
		if p.Cursor != "" {
			sortValue, id, err := sharedQuery.DecodeCursor(p.Cursor)
			if err != nil {
				return empty, err
			}
			bound, err := parseBound(sort.Field, sortValue)
			if err != nil {
				return empty, err
			}
			filter = append(filter, sharedMongo.After(sort, bound, id, postFields))
		}
		opts.SetLimit(int64(limit + 1))
	case sharedQuery.OffsetPagination:
		opts.SetSkip(int64(p.Offset)).SetLimit(int64(limit))
	default:
		opts.SetLimit(int64(limit))
	}

	cur, err := r.postsColl.Find(ctx, filter, opts)
	if err != nil {
		return empty, err
	}
	defer cur.Close(ctx)

	items := []blogDomain.Post{}
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return empty, err
		}
		p, err := fromMongoPost(mp)
		if err != nil {
			return empty, err
		}
		items = append(items, *p)
	}
	if err := cur.Err(); err != nil {
		return empty, err
	}

	if cursorMode {
		return sharedQuery.CursorPage(items, int(total), limit, func(p blogDomain.Post) string {
			return sharedQuery.EncodeCursor(cursorValue(p, sort.Field), p.ID.String())
		}), nil
	}
	return sharedQuery.Page[blogDomain.Post]{Items: items, Total: int(total)}, nil
}

// --- Helpers de Mapeo y Conversión ---

func toMongoPost(p blogDomain.Post) mongoPost {
	return mongoPost{
		ID: p.ID.String(), Title: p.Title, Slug: p.Slug, Excerpt: p.Excerpt, Author: p.Author,
		Tags: p.Tags, Status: string(p.Status), Featured: p.Featured, Views: p.Views,
		ReadMinutes: p.ReadMinutes, CoverURL: p.CoverURL,
		PublishedAt: p.PublishedAt, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func fromMongoPost(mp mongoPost) (*blogDomain.Post, error) {
	id, err := uuid.Parse(mp.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post id %q: %w", mp.ID, err)
	}
	tags := mp.Tags
	if tags == nil {
		tags = []string{}
	}
	return &blogDomain.Post{
		ID: id, Title: mp.Title, Slug: mp.Slug, Excerpt: mp.Excerpt, Author: mp.Author,
		Tags: tags, Status: blogDomain.PostStatus(mp.Status), Featured: mp.Featured, Views: mp.Views,
		ReadMinutes: mp.ReadMinutes, CoverURL: mp.CoverURL,
		PublishedAt: mp.PublishedAt.UTC(), CreatedAt: mp.CreatedAt.UTC(), UpdatedAt: mp.UpdatedAt.UTC(),
	}, nil
}

func cursorValue(p blogDomain.Post, field string) string {
	switch field {
	case "title":
		return p.Title
	case "views":
		return strconv.Itoa(p.Views)
	case "published_at":
		return p.PublishedAt.UTC().Format(time.RFC3339Nano)
	}
	return p.ID.String()
}

// parseBound devuelve el valor del cursor con el tipo BSON del campo.
func parseBound(field, value string) (interface{}, error) {
	switch field {
	case "views":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", sharedQuery.ErrInvalidCursor, err)
		}
		return n, nil
	case "published_at":
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", sharedQuery.ErrInvalidCursor, err)
		}
		return t, nil
	}
	return value, nil
}
