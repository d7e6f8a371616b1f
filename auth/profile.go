package auth

import (
	"context"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/users"
	"github.com/pkg/errors"
)

// UpdateRequest carries the mutable profile fields.
type UpdateRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

// User fetches a user record by id.
func (s *Service) User(ctx context.Context, id string) (*users.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[Service.User] Users.GetByID")
	}
	return user, nil
}

// Users lists all user records.
func (s *Service) Users(ctx context.Context) ([]*users.User, error) {
	list, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Users] Users.List")
	}
	return list, nil
}

// FindByEmailOrPhone looks an account up for the storefront's
// "send to a friend" style account search.
func (s *Service) FindByEmailOrPhone(ctx context.Context, search string) (*users.User, error) {
	user, err := s.repos.Users.GetByEmailOrPhone(ctx, search)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[Service.FindByEmailOrPhone] Users.GetByEmailOrPhone")
	}
	return user, nil
}

// UpdateProfile applies the mutable profile fields.
//
// For local accounts the email must stay unique across users, and changing
// it clears the verify flag until the new address is confirmed again.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateRequest) (*users.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[Service.UpdateProfile] Users.GetByID")
	}

	if !user.IsFederated() && req.Email != "" {
		inUse, err := s.repos.Users.EmailInUse(ctx, req.Email, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, "[Service.UpdateProfile] Users.EmailInUse")
		}
		if inUse {
			return nil, apperrors.ErrEmailExists
		}
		if user.Email != req.Email {
			user.Verify = false
		}
	}

	if req.Fullname != "" {
		user.Fullname = req.Fullname
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateProfile] Users.Update")
	}

	return user, nil
}

// ChangePassword replaces a local user's password. The current password must
// match and the new one must differ from it.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return errors.Wrap(err, "[Service.ChangePassword] Users.GetByID")
	}

	if !users.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidPassword
	}
	if users.CheckPasswordHash(newPassword, user.PasswordHash) {
		return apperrors.ErrSamePassword
	}

	hashed, err := users.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[Service.ChangePassword] HashPassword")
	}

	if err := s.repos.Users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return errors.Wrap(err, "[Service.ChangePassword] Users.UpdatePassword")
	}

	return nil
}
