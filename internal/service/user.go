package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// ProfilePatch lists the profile fields a client asked to change. Email,
// Password and ID are accepted only to reject them explicitly.
type ProfilePatch struct {
	ID             *uuid.UUID
	Email          *string
	Password       *string
	UserName       *string
	FirstName      *string
	LastName       *string
	Bio            *string
	ProfilePicture *string
}

// Users manages public profiles of registered users.
type Users struct {
	*Resource[model.User, model.UserFilter]
}

func NewUsers(store model.UserStore, logger *logger.Logger) *Users {
	return &Users{Resource: NewResource[model.User, model.UserFilter](store, "user", OwnerOnly[model.User]("profile"), logger)}
}

// Me returns the profile of the authenticated user.
func (s *Users) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	if userID == uuid.Nil {
		return model.User{}, apperrors.NewErrMissingAuthorizationToken()
	}
	return s.Get(ctx, userID)
}

// EditProfile applies patch to the profile of actor.
func (s *Users) EditProfile(ctx context.Context, actor, id uuid.UUID, patch ProfilePatch) (model.User, error) {
	return s.Update(ctx, actor, id, func(u *model.User) error {
		if patch.ID != nil && *patch.ID != u.ID {
			return apperrors.NewErrBadRequest("cannot change user ID")
		}
		if patch.Email != nil || patch.Password != nil {
			return apperrors.NewErrBadRequest("email and password cannot be changed here")
		}
		setIfPresent(&u.UserName, patch.UserName)
		setIfPresent(&u.FirstName, patch.FirstName)
		setIfPresent(&u.LastName, patch.LastName)
		setIfPresent(&u.Bio, patch.Bio)
		setIfPresent(&u.ProfilePicture, patch.ProfilePicture)
		u.UpdatedAt = s.now()
		return nil
	})
}

func setIfPresent(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
