package application

import (
	"context"
	"testing"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSplit(t *testing.T) {
	assert.Equal(t, 20.0, Split(60, 3))
	assert.Equal(t, 50.0, Split(100, 2))
	assert.Equal(t, 33.33, Split(100, 3))
	assert.Equal(t, 0.01, Split(0.02, 2))
}

type refundFixture struct {
	service         *RefundService
	refunds         *fakeRefundStore
	payer           *domain.User
	roommates       []*domain.User
	accommodationID primitive.ObjectID
}

func newRefundFixture(t *testing.T, roommateCount int) *refundFixture {
	t.Helper()

	users := newFakeUserStore()
	refunds := newFakeRefundStore()
	accommodationID := primitive.NewObjectID()

	payer, err := users.Insert(context.Background(), &domain.User{
		Username:        "payer",
		Email:           "payer@example.com",
		Role:            domain.RoleUser,
		AccommodationID: &accommodationID,
	})
	require.NoError(t, err)

	var roommates []*domain.User
	for i := 0; i < roommateCount; i++ {
		roommate, err := users.Insert(context.Background(), &domain.User{
			Username:        "roommate",
			Email:           "roommate@example.com",
			Role:            domain.RoleUser,
			AccommodationID: &accommodationID,
		})
		require.NoError(t, err)
		roommates = append(roommates, roommate)
	}

	return &refundFixture{
		service:         NewRefundService(refunds, users, testTracer()),
		refunds:         refunds,
		payer:           payer,
		roommates:       roommates,
		accommodationID: accommodationID,
	}
}

func (fixture *refundFixture) principal() authorization.Principal {
	return authorization.Principal{
		UserID:          fixture.payer.ID.Hex(),
		Role:            domain.RoleUser,
		AccommodationID: fixture.accommodationID.Hex(),
	}
}

func (fixture *refundFixture) roommateIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(fixture.roommates))
	for _, roommate := range fixture.roommates {
		ids = append(ids, roommate.ID)
	}
	return ids
}

func TestCreateSplitThreeRoommates(t *testing.T) {
	fixture := newRefundFixture(t, 3)

	refunds, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Groceries", 60, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.NoError(t, err)
	require.Len(t, refunds, 3)

	// 60 split between payer and 3 roommates.
	for _, refund := range refunds {
		assert.Equal(t, 15.0, refund.ToRefund)
		assert.Equal(t, fixture.payer.ID, refund.UserID)
		assert.Equal(t, fixture.accommodationID, refund.AccommodationID)
		assert.False(t, refund.Done)
	}
	assert.Len(t, fixture.refunds.refunds, 3)
}

func TestCreateSplitSingleRoommate(t *testing.T) {
	fixture := newRefundFixture(t, 1)

	refunds, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Internet", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, 50.0, refunds[0].ToRefund)
	assert.Equal(t, fixture.roommates[0].ID, refunds[0].RoommateID)
}

func TestCreateSplitRejectsNonPositiveAmount(t *testing.T) {
	fixture := newRefundFixture(t, 2)

	for _, amount := range []float64{0, -10} {
		_, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
			"Rent", amount, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
		require.Error(t, err)
		assert.Equal(t, errors.CodeBadRequest, errorCode(t, err))
	}
	assert.Empty(t, fixture.refunds.refunds, "no documents on a rejected split")
}

func TestCreateSplitRejectsEmptyRoommates(t *testing.T) {
	fixture := newRefundFixture(t, 0)

	_, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Rent", 100, fixture.payer.ID, fixture.accommodationID, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeBadRequest, errorCode(t, err))
}

func TestCreateSplitIgnoresPayerAndOutsiders(t *testing.T) {
	fixture := newRefundFixture(t, 2)

	// An outsider from another accommodation plus the payer themselves
	// sneak into the list; both are dropped before splitting.
	otherAccommodation := primitive.NewObjectID()
	outsider, err := fixture.service.users.Insert(context.Background(), &domain.User{
		Username:        "outsider",
		Email:           "outsider@example.com",
		Role:            domain.RoleUser,
		AccommodationID: &otherAccommodation,
	})
	require.NoError(t, err)

	ids := append(fixture.roommateIDs(), fixture.payer.ID, outsider.ID)
	refunds, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Cleaning", 90, fixture.payer.ID, fixture.accommodationID, ids)
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	assert.Equal(t, 30.0, refunds[0].ToRefund)
}

func TestCreateSplitAllInvalidRoommates(t *testing.T) {
	fixture := newRefundFixture(t, 0)

	_, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Rent", 100, fixture.payer.ID, fixture.accommodationID,
		[]primitive.ObjectID{fixture.payer.ID, primitive.NewObjectID()})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRoommateNotFound, errorCode(t, err))
	assert.Empty(t, fixture.refunds.refunds)
}

func TestCreateSplitForbiddenOutsideAccommodation(t *testing.T) {
	fixture := newRefundFixture(t, 1)

	stranger := authorization.Principal{
		UserID:          primitive.NewObjectID().Hex(),
		Role:            domain.RoleUser,
		AccommodationID: primitive.NewObjectID().Hex(),
	}
	_, err := fixture.service.CreateSplit(context.Background(), stranger,
		"Rent", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestCreateSplitOnBehalfOfAnotherForbidden(t *testing.T) {
	fixture := newRefundFixture(t, 2)

	// A roommate names the payer as creditor on a split they did not pay.
	caller := authorization.Principal{
		UserID:          fixture.roommates[0].ID.Hex(),
		Role:            domain.RoleUser,
		AccommodationID: fixture.accommodationID.Hex(),
	}
	_, err := fixture.service.CreateSplit(context.Background(), caller,
		"Rent", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
	assert.Empty(t, fixture.refunds.refunds)
}

func TestCreateSplitByAdminOnBehalfOfPayer(t *testing.T) {
	fixture := newRefundFixture(t, 1)

	admin := authorization.Principal{UserID: primitive.NewObjectID().Hex(), Role: domain.RoleAdmin}
	refunds, err := fixture.service.CreateSplit(context.Background(), admin,
		"Internet", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, fixture.payer.ID, refunds[0].UserID)
}

func TestRefundUpdateOwnershipFieldRejected(t *testing.T) {
	fixture := newRefundFixture(t, 1)

	refunds, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Internet", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.NoError(t, err)

	for _, field := range []string{"userId", "roommateId", "accommodationId"} {
		_, err := fixture.service.Update(context.Background(), fixture.principal(),
			refunds[0].ID, map[string]interface{}{
				"done": true,
				field:  primitive.NewObjectID().Hex(),
			})
		require.Error(t, err)
		assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
	}

	kept, err := fixture.service.Get(context.Background(), fixture.principal(), refunds[0].ID)
	require.NoError(t, err)
	assert.False(t, kept.Done)
	assert.Equal(t, fixture.roommates[0].ID, kept.RoommateID)
}

func TestRefundWriteByNonPayerForbidden(t *testing.T) {
	fixture := newRefundFixture(t, 1)

	refunds, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Internet", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.NoError(t, err)

	counterparty := authorization.Principal{
		UserID:          fixture.roommates[0].ID.Hex(),
		Role:            domain.RoleUser,
		AccommodationID: fixture.accommodationID.Hex(),
	}
	_, err = fixture.service.Update(context.Background(), counterparty,
		refunds[0].ID, map[string]interface{}{"done": true})
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))

	err = fixture.service.Delete(context.Background(), counterparty, refunds[0].ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestRefundDeleteTwice(t *testing.T) {
	fixture := newRefundFixture(t, 1)

	refunds, err := fixture.service.CreateSplit(context.Background(), fixture.principal(),
		"Internet", 100, fixture.payer.ID, fixture.accommodationID, fixture.roommateIDs())
	require.NoError(t, err)

	require.NoError(t, fixture.service.Delete(context.Background(), fixture.principal(), refunds[0].ID))

	err = fixture.service.Delete(context.Background(), fixture.principal(), refunds[0].ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeRefundNotFound, errorCode(t, err))
}
