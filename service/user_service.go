package application

import (
	"context"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users          domain.UserStore
	accommodations domain.AccommodationStore
	tracer         trace.Tracer
}

func NewUserService(users domain.UserStore, accommodations domain.AccommodationStore, tracer trace.Tracer) *UserService {
	return &UserService{
		users:          users,
		accommodations: accommodations,
		tracer:         tracer,
	}
}

// GetAll lists users. Non-admin callers only ever see their own
// accommodation; adminView lets an admin skip the scoping.
func (service *UserService) GetAll(ctx context.Context, principal authorization.Principal, adminView bool, filter domain.UserFilter) ([]*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetAll")
	defer span.End()

	if !principal.TestBypass && principal.AccommodationID == "" && !principal.IsAdmin() {
		return nil, errors.Forbidden()
	}

	if !principal.IsAdmin() || !adminView {
		if principal.AccommodationID != "" {
			accommodationID, err := primitive.ObjectIDFromHex(principal.AccommodationID)
			if err != nil {
				return nil, errors.BadRequest()
			}
			filter.AccommodationID = &accommodationID
		}
	}

	users, err := service.users.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return users, nil
}

func (service *UserService) Get(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Get")
	defer span.End()

	if !principal.TestBypass && !principal.IsAdmin() && id.Hex() != principal.UserID {
		if principal.Role == domain.RoleUser {
			return nil, errors.Forbidden()
		}
	}

	user, err := service.users.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeUserNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	// A moderator only sees members of their own accommodation.
	if !principal.TestBypass && principal.Role == domain.RoleModerator && user.AccommodationID != nil &&
		!authorization.HasAccessToAccommodation(principal, user.AccommodationHex()) {
		return nil, errors.Forbidden()
	}

	return user, nil
}

// JoinByCode attaches a user to the accommodation matching the join
// code. Self or admin only.
func (service *UserService) JoinByCode(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, code string) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.JoinByCode")
	defer span.End()

	if code == "" {
		return nil, errors.BadRequest()
	}

	if !authorization.CanModifyObject(principal, id.Hex()) {
		return nil, errors.Forbidden()
	}

	accommodation, err := service.accommodations.GetByCode(ctx, code)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeAccommodationNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	user, err := service.users.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeUserNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !principal.IsAdmin() && user.AccommodationID != nil {
		return nil, errors.BadRequestCode(errors.CodeUserAlreadyBelongs, "User already belongs to an accommodation")
	}

	user.AccommodationID = &accommodation.ID
	if err := service.users.Update(ctx, user); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	return user, nil
}

// Update applies a partial update. Moderators touching another member
// may only change role and accommodationId, inside their own
// accommodation.
func (service *UserService) Update(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, patch map[string]interface{}) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Update")
	defer span.End()

	if !principal.TestBypass && principal.Role == domain.RoleUser && principal.UserID != id.Hex() {
		return nil, errors.Forbidden()
	}

	// Password changes go through UpdatePassword only.
	delete(patch, "id")
	delete(patch, "password")

	if username, ok := patch["username"].(string); ok {
		existing, err := service.users.GetByUsername(ctx, username)
		if err != nil && err != domain.ErrNotFound {
			span.SetStatus(codes.Error, err.Error())
			return nil, errors.Internal()
		}
		if existing != nil && existing.ID != id {
			return nil, errors.Conflict(errors.CodeUsernameTaken, "Username already taken")
		}
	}

	if email, ok := patch["email"].(string); ok {
		existing, err := service.users.GetByEmail(ctx, email)
		if err != nil && err != domain.ErrNotFound {
			span.SetStatus(codes.Error, err.Error())
			return nil, errors.Internal()
		}
		if existing != nil && existing.ID != id {
			return nil, errors.Conflict(errors.CodeEmailTaken, "Email already taken")
		}
	}

	if role, ok := patch["role"]; ok {
		roleString, ok := role.(string)
		if !ok || (domain.Role(roleString) != domain.RoleUser && domain.Role(roleString) != domain.RoleModerator) {
			return nil, errors.BadRequest()
		}
	}

	user, err := service.users.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeUserNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !principal.TestBypass && user.AccommodationID == nil {
		return nil, errors.Forbidden()
	}

	if !authorization.ModeratorCheckNotNeeded(principal, id.Hex()) {
		for field := range patch {
			if field != "role" && field != "accommodationId" {
				return nil, errors.New(http.StatusForbidden, errors.CodeForbidden, "Moderators can only update role and accommodationId")
			}
		}
		if user.AccommodationID != nil && !authorization.HasAccessToAccommodation(principal, user.AccommodationHex()) {
			return nil, errors.Forbidden()
		}
	}

	if err := mergeUserPatch(user, patch); err != nil {
		return nil, errors.BadRequest()
	}

	if err := user.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	if err := service.users.Update(ctx, user); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	return user, nil
}

func mergeUserPatch(user *domain.User, patch map[string]interface{}) error {
	if raw, ok := patch["accommodationId"]; ok {
		hex, ok := raw.(string)
		if !ok {
			return errors.BadRequest()
		}
		accommodationID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return err
		}
		user.AccommodationID = &accommodationID
		delete(patch, "accommodationId")
	}

	if raw, ok := patch["role"]; ok {
		user.Role = domain.Role(raw.(string))
		delete(patch, "role")
	}

	return mapstructure.Decode(patch, user)
}

func (service *UserService) UpdatePassword(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, currentPassword, newPassword string) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdatePassword")
	defer span.End()

	if !authorization.CanModifyObject(principal, id.Hex()) {
		return nil, errors.Forbidden()
	}

	user, err := service.users.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeUserNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return nil, errors.BadRequestCode(errors.CodeIncorrectPassword, "Current password is incorrect")
	}

	if newPassword == "" {
		return nil, errors.BadRequestCode(errors.CodePasswordRequired, "New password is required")
	}

	if !validPasswordLength(newPassword) {
		return nil, errors.BadRequestCode(errors.CodePasswordLength, "Password must be between 8 and 72 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	user.Password = string(hash)
	if err := service.users.Update(ctx, user); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	return user, nil
}

func (service *UserService) Delete(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "UserService.Delete")
	defer span.End()

	if !authorization.CanModifyObject(principal, id.Hex()) {
		return errors.Forbidden()
	}

	err := service.users.Delete(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeUserNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	return nil
}
