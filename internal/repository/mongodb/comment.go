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

var _ model.CommentStore = (*CommentRepository)(nil)

type commentDocument struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"postId"`
	Sender    string    `bson:"sender"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newCommentDocument(c model.Comment) commentDocument {
	return commentDocument{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		Sender:    c.Sender.String(),
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d commentDocument) model() (model.Comment, error) {
	var (
		c   model.Comment
		err error
	)
	if c.ID, err = uuid.Parse(d.ID); err != nil {
		return model.Comment{}, fmt.Errorf("invalid comment id %q: %w", d.ID, err)
	}
	if c.PostID, err = uuid.Parse(d.PostID); err != nil {
		return model.Comment{}, fmt.Errorf("invalid comment post id %q: %w", d.PostID, err)
	}
	if c.Sender, err = uuid.Parse(d.Sender); err != nil {
		return model.Comment{}, fmt.Errorf("invalid comment sender %q: %w", d.Sender, err)
	}
	c.Message = d.Message
	c.CreatedAt = d.CreatedAt
	c.UpdatedAt = d.UpdatedAt
	return c, nil
}

type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(c *Client) *CommentRepository {
	return &CommentRepository{
		coll: c.collection(commentsCollection),
	}
}

func (r *CommentRepository) List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	query := bson.D{}
	if filter.PostID != nil {
		query = append(query, bson.E{Key: "postId", Value: filter.PostID.String()})
	}
	if filter.Sender != nil {
		query = append(query, bson.E{Key: "sender", Value: filter.Sender.String()})
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sortByCreation))
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments, err := decodeAll(ctx, cursor, commentDocument.model)
	if err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	var doc commentDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return model.Comment{}, model.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("failed to get comment: %w", err)
	}
	return doc.model()
}

func (r *CommentRepository) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	doc := newCommentDocument(comment)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Comment{}, model.ErrConflict
		}
		return model.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}
	return doc.model()
}

func (r *CommentRepository) Update(ctx context.Context, comment model.Comment) (model.Comment, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "message", Value: comment.Message},
		{Key: "updatedAt", Value: comment.UpdatedAt},
	}}}

	var doc commentDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: comment.ID.String()}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return model.Comment{}, model.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("failed to update comment: %w", err)
	}
	return doc.model()
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	var doc commentDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return model.Comment{}, model.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("failed to delete comment: %w", err)
	}
	return doc.model()
}
