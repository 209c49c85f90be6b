package application

import (
	"context"
	"math"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type RefundService struct {
	refunds domain.RefundStore
	users   domain.UserStore
	tracer  trace.Tracer
}

func NewRefundService(refunds domain.RefundStore, users domain.UserStore, tracer trace.Tracer) *RefundService {
	return &RefundService{
		refunds: refunds,
		users:   users,
		tracer:  tracer,
	}
}

// Split divides an amount between count parties, rounded to cents.
func Split(amount float64, count int) float64 {
	return math.Round(amount/float64(count)*100) / 100
}

func (service *RefundService) GetAll(ctx context.Context, principal authorization.Principal, adminView bool, filter domain.RefundFilter) ([]*domain.Refund, error) {
	ctx, span := service.tracer.Start(ctx, "RefundService.GetAll")
	defer span.End()

	if !adminView || !principal.IsAdmin() {
		scope, err := principalAccommodationID(principal)
		if err != nil {
			return nil, err
		}
		if scope != nil {
			filter.AccommodationID = scope
		}
	}

	refunds, err := service.refunds.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return refunds, nil
}

func (service *RefundService) Get(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) (*domain.Refund, error) {
	ctx, span := service.tracer.Start(ctx, "RefundService.Get")
	defer span.End()

	refund, err := service.refunds.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeRefundNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, refund.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	return refund, nil
}

// CreateSplit splits an expense between the payer and the given
// roommates, one refund document per roommate. The payer's own share is
// implicit, so each roommate owes amount/(roommates+1).
func (service *RefundService) CreateSplit(ctx context.Context, principal authorization.Principal, title string, toSplit float64, userID, accommodationID primitive.ObjectID, roommateIDs []primitive.ObjectID) ([]*domain.Refund, error) {
	ctx, span := service.tracer.Start(ctx, "RefundService.CreateSplit")
	defer span.End()

	if !authorization.HasAccessToAccommodation(principal, accommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	// Only the payer themselves, or an admin, may record the split.
	if !authorization.CanModifyObject(principal, userID.Hex()) {
		return nil, errors.Forbidden()
	}

	if title == "" || toSplit <= 0 || len(roommateIDs) == 0 {
		return nil, errors.BadRequest()
	}

	candidates, err := service.users.GetManyByIDs(ctx, roommateIDs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	// Only actual members of the accommodation count, and the payer
	// never owes themselves.
	var roommates []*domain.User
	for _, candidate := range candidates {
		if candidate.ID == userID {
			continue
		}
		if candidate.AccommodationID == nil || *candidate.AccommodationID != accommodationID {
			continue
		}
		roommates = append(roommates, candidate)
	}
	if len(roommates) == 0 {
		return nil, errors.BadRequestCode(errors.CodeRoommateNotFound, "No valid roommates to split with")
	}

	share := Split(toSplit, len(roommates)+1)

	refunds := make([]*domain.Refund, 0, len(roommates))
	for _, roommate := range roommates {
		refund := &domain.Refund{
			Title:           title,
			ToRefund:        share,
			Done:            false,
			UserID:          userID,
			RoommateID:      roommate.ID,
			AccommodationID: accommodationID,
		}
		if err := refund.Validate(); err != nil {
			return nil, errors.BadRequest()
		}
		created, err := service.refunds.Insert(ctx, refund)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, errors.Internal()
		}
		refunds = append(refunds, created)
	}
	return refunds, nil
}

func (service *RefundService) Update(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, patch map[string]interface{}) (*domain.Refund, error) {
	ctx, span := service.tracer.Start(ctx, "RefundService.Update")
	defer span.End()

	refund, err := service.refunds.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeRefundNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, refund.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	if !authorization.CanModifyObject(principal, refund.UserID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := rejectOwnershipPatch(patch, "userId", "roommateId", "accommodationId"); err != nil {
		return nil, err
	}
	delete(patch, "id")
	if err := mapstructure.Decode(patch, refund); err != nil {
		return nil, errors.BadRequest()
	}

	if err := refund.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	if err := service.refunds.Update(ctx, refund); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return refund, nil
}

func (service *RefundService) Delete(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "RefundService.Delete")
	defer span.End()

	refund, err := service.refunds.Get(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeRefundNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, refund.AccommodationID.Hex()) {
		return errors.Forbidden()
	}
	if !authorization.CanModifyObject(principal, refund.UserID.Hex()) {
		return errors.Forbidden()
	}

	if err := service.refunds.Delete(ctx, id); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	return nil
}
