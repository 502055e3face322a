package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dtroode/postboard-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

type postDocument struct {
	ID        string    `bson:"_id"`
	Text      string    `bson:"text"`
	Img       string    `bson:"img"`
	Sender    string    `bson:"sender"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newPostDocument(p model.Post) postDocument {
	return postDocument{
		ID:        p.ID.String(),
		Text:      p.Text,
		Img:       p.Img,
		Sender:    p.Sender.String(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d postDocument) model() (model.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Post{}, fmt.Errorf("invalid post id %q: %w", d.ID, err)
	}
	sender, err := uuid.Parse(d.Sender)
	if err != nil {
		return model.Post{}, fmt.Errorf("invalid post sender %q: %w", d.Sender, err)
	}
	return model.Post{
		ID:        id,
		Text:      d.Text,
		Img:       d.Img,
		Sender:    sender,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(c *Client) *PostRepository {
	return &PostRepository{
		coll: c.collection(postsCollection),
	}
}

func (r *PostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	query := bson.D{}
	if filter.Sender != nil {
		query = append(query, bson.E{Key: "sender", Value: filter.Sender.String()})
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sortByCreation))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts, err := decodeAll(ctx, cursor, postDocument.model)
	if err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	return doc.model()
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	doc := newPostDocument(post)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Post{}, model.ErrConflict
		}
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return doc.model()
}

func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "text", Value: post.Text},
		{Key: "img", Value: post.Img},
		{Key: "updatedAt", Value: post.UpdatedAt},
	}}}

	var doc postDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: post.ID.String()}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return doc.model()
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (model.Post, error) {
	var doc postDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to delete post: %w", err)
	}
	return doc.model()
}
