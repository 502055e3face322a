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

var (
	_ model.UserStore         = (*UserRepository)(nil)
	_ model.RefreshTokenStore = (*UserRepository)(nil)
)

type userDocument struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	PasswordHash   string    `bson:"passwordHash"`
	UserName       string    `bson:"userName"`
	FirstName      string    `bson:"firstName"`
	LastName       string    `bson:"lastName"`
	Bio            string    `bson:"bio"`
	ProfilePicture string    `bson:"profilePicture"`
	RefreshTokens  []string  `bson:"refreshTokens"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func newUserDocument(u model.User) userDocument {
	tokens := u.RefreshTokens
	if tokens == nil {
		tokens = []string{}
	}
	return userDocument{
		ID:             u.ID.String(),
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		UserName:       u.UserName,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		RefreshTokens:  tokens,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (d userDocument) model() (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return model.User{
		ID:             id,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		UserName:       d.UserName,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		RefreshTokens:  d.RefreshTokens,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(c *Client) *UserRepository {
	return &UserRepository{
		coll: c.collection(usersCollection),
	}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.model()
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	query := bson.D{}
	if filter.Email != "" {
		query = append(query, bson.E{Key: "email", Value: filter.Email})
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sortByCreation))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := decodeAll(ctx, cursor, userDocument.model)
	if err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	doc := newUserDocument(user)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return doc.model()
}

// Update stores profile fields only.
func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "userName", Value: user.UserName},
		{Key: "firstName", Value: user.FirstName},
		{Key: "lastName", Value: user.LastName},
		{Key: "bio", Value: user.Bio},
		{Key: "profilePicture", Value: user.ProfilePicture},
		{Key: "updatedAt", Value: user.UpdatedAt},
	}}}

	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: user.ID.String()}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return doc.model()
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (model.User, error) {
	var doc userDocument
	err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return doc.model()
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateOne(ctx, "update password", id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "passwordHash", Value: passwordHash},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}})
}

func (r *UserRepository) AddRefreshToken(ctx context.Context, userID uuid.UUID, digest string) error {
	return r.updateOne(ctx, "add refresh token", userID, bson.D{{Key: "$push", Value: bson.D{
		{Key: "refreshTokens", Value: digest},
	}}})
}

// RotateRefreshToken matches only while presented is still in the array, so
// of several concurrent rotations of one token exactly one is applied.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID uuid.UUID, presented, next string) error {
	filter := bson.D{
		{Key: "_id", Value: userID.String()},
		{Key: "refreshTokens", Value: presented},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "refreshTokens", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$refreshTokens"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", presented}}}},
			}}},
			bson.A{next},
		}}}}}}},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrTokenNotFound
	}
	return nil
}

func (r *UserRepository) RemoveRefreshToken(ctx context.Context, userID uuid.UUID, digest string) (bool, error) {
	filter := bson.D{
		{Key: "_id", Value: userID.String()},
		{Key: "refreshTokens", Value: digest},
	}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "refreshTokens", Value: digest}}}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to remove refresh token: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return r.updateOne(ctx, "clear refresh tokens", userID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "refreshTokens", Value: bson.A{}},
	}}})
}

func (r *UserRepository) updateOne(ctx context.Context, op string, id uuid.UUID, update bson.D) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
