package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/model"
)

type sessionResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ID           uuid.UUID `json:"_id"`
}

type tokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type postResponse struct {
	ID        uuid.UUID `json:"_id"`
	Text      string    `json:"text"`
	Img       string    `json:"img"`
	Sender    uuid.UUID `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newPostResponse(p model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Text:      p.Text,
		Img:       p.Img,
		Sender:    p.Sender,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type commentResponse struct {
	ID        uuid.UUID `json:"_id"`
	PostID    uuid.UUID `json:"postId"`
	Sender    uuid.UUID `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCommentResponse(c model.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Sender:    c.Sender,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// userResponse never carries the password hash or refresh tokens.
type userResponse struct {
	ID             uuid.UUID `json:"_id"`
	Email          string    `json:"email"`
	UserName       string    `json:"userName"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		UserName:       u.UserName,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type mediaResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func mapSlice[T, R any](items []T, conv func(T) R) []R {
	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, conv(item))
	}
	return result
}
