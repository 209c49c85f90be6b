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
	"golang.org/x/crypto/bcrypt"
)

type userFixture struct {
	service        *UserService
	users          *fakeUserStore
	accommodations *fakeAccommodationStore
}

func newUserFixture() *userFixture {
	users := newFakeUserStore()
	accommodations := newFakeAccommodationStore(users)
	return &userFixture{
		service:        NewUserService(users, accommodations, testTracer()),
		users:          users,
		accommodations: accommodations,
	}
}

func (fixture *userFixture) addUser(t *testing.T, username string, role domain.Role, accommodationID *primitive.ObjectID) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := fixture.users.Insert(context.Background(), &domain.User{
		Username:        username,
		Email:           username + "@example.com",
		Password:        string(hash),
		Role:            role,
		AccommodationID: accommodationID,
	})
	require.NoError(t, err)
	return user
}

func principalFor(user *domain.User) authorization.Principal {
	return authorization.Principal{
		UserID:          user.ID.Hex(),
		Role:            user.Role,
		AccommodationID: user.AccommodationHex(),
	}
}

func (fixture *userFixture) addAccommodation(t *testing.T, code string) *domain.Accommodation {
	t.Helper()
	accommodation := &domain.Accommodation{
		ID:   primitive.NewObjectID(),
		Name: "Flat", Code: code, Location: "Paris", PostalCode: 75001, Country: "France",
	}
	fixture.accommodations.accommodations[accommodation.ID] = accommodation
	return accommodation
}

func TestJoinByCode(t *testing.T) {
	fixture := newUserFixture()
	accommodation := fixture.addAccommodation(t, "AB12CD34")
	user := fixture.addUser(t, "newcomer", domain.RoleUser, nil)

	joined, err := fixture.service.JoinByCode(context.Background(), principalFor(user), user.ID, "AB12CD34")
	require.NoError(t, err)
	require.NotNil(t, joined.AccommodationID)
	assert.Equal(t, accommodation.ID, *joined.AccommodationID)
}

func TestJoinByCodeUnknownCode(t *testing.T) {
	fixture := newUserFixture()
	user := fixture.addUser(t, "newcomer", domain.RoleUser, nil)

	_, err := fixture.service.JoinByCode(context.Background(), principalFor(user), user.ID, "NOPE")
	require.Error(t, err)
	assert.Equal(t, errors.CodeAccommodationNotFound, errorCode(t, err))
}

func TestJoinByCodeOnlySelf(t *testing.T) {
	fixture := newUserFixture()
	fixture.addAccommodation(t, "AB12CD34")
	user := fixture.addUser(t, "newcomer", domain.RoleUser, nil)
	other := fixture.addUser(t, "other", domain.RoleUser, nil)

	// Joining on someone else's behalf is an admin-only move.
	_, err := fixture.service.JoinByCode(context.Background(), principalFor(other), user.ID, "AB12CD34")
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestJoinByCodeAlreadyMember(t *testing.T) {
	fixture := newUserFixture()
	accommodation := fixture.addAccommodation(t, "AB12CD34")
	user := fixture.addUser(t, "member", domain.RoleUser, &accommodation.ID)

	_, err := fixture.service.JoinByCode(context.Background(), principalFor(user), user.ID, "AB12CD34")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUserAlreadyBelongs, errorCode(t, err))
}

func TestGetScopedToAccommodation(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	moderator := fixture.addUser(t, "moderator", domain.RoleModerator, &accommodationID)
	member := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)
	outsider := fixture.addUser(t, "outsider", domain.RoleUser, &otherID)

	_, err := fixture.service.Get(context.Background(), principalFor(moderator), member.ID)
	require.NoError(t, err)

	_, err = fixture.service.Get(context.Background(), principalFor(moderator), outsider.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestGetSelfAlwaysAllowed(t *testing.T) {
	fixture := newUserFixture()
	user := fixture.addUser(t, "loner", domain.RoleUser, nil)

	got, err := fixture.service.Get(context.Background(), principalFor(user), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserGetOtherForbidden(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	member := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)
	other := fixture.addUser(t, "other", domain.RoleUser, &accommodationID)

	_, err := fixture.service.Get(context.Background(), principalFor(member), other.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestModeratorUpdateRestrictedFields(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	moderator := fixture.addUser(t, "moderator", domain.RoleModerator, &accommodationID)
	member := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)

	_, err := fixture.service.Update(context.Background(), principalFor(moderator), member.ID,
		map[string]interface{}{"firstName": "Eve"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))

	updated, err := fixture.service.Update(context.Background(), principalFor(moderator), member.ID,
		map[string]interface{}{"role": "moderator"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, updated.Role)
}

func TestUpdateSelf(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	user := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)

	updated, err := fixture.service.Update(context.Background(), principalFor(user), user.ID,
		map[string]interface{}{"firstName": "Grace", "lastName": "Hopper"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "Hopper", updated.LastName)
}

func TestUpdateOtherUserForbidden(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	user := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)
	other := fixture.addUser(t, "other", domain.RoleUser, &accommodationID)

	_, err := fixture.service.Update(context.Background(), principalFor(user), other.ID,
		map[string]interface{}{"firstName": "Eve"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestUpdateRejectsAdminRole(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	user := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)

	_, err := fixture.service.Update(context.Background(), principalFor(user), user.ID,
		map[string]interface{}{"role": "admin"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeBadRequest, errorCode(t, err))
}

func TestUpdateTakenUsername(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	user := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)
	fixture.addUser(t, "taken", domain.RoleUser, &accommodationID)

	_, err := fixture.service.Update(context.Background(), principalFor(user), user.ID,
		map[string]interface{}{"username": "taken"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUsernameTaken, errorCode(t, err))
}

func TestUpdatePassword(t *testing.T) {
	fixture := newUserFixture()
	user := fixture.addUser(t, "member", domain.RoleUser, nil)

	_, err := fixture.service.UpdatePassword(context.Background(), principalFor(user), user.ID,
		"wrong", "newpassword123")
	require.Error(t, err)
	assert.Equal(t, errors.CodeIncorrectPassword, errorCode(t, err))

	_, err = fixture.service.UpdatePassword(context.Background(), principalFor(user), user.ID,
		"password123", "short")
	require.Error(t, err)
	assert.Equal(t, errors.CodePasswordLength, errorCode(t, err))

	updated, err := fixture.service.UpdatePassword(context.Background(), principalFor(user), user.ID,
		"password123", "newpassword123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword123")))
}

func TestDeleteTwice(t *testing.T) {
	fixture := newUserFixture()
	user := fixture.addUser(t, "member", domain.RoleUser, nil)
	admin := authorization.Principal{UserID: primitive.NewObjectID().Hex(), Role: domain.RoleAdmin}

	require.NoError(t, fixture.service.Delete(context.Background(), admin, user.ID))

	err := fixture.service.Delete(context.Background(), admin, user.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUserNotFound, errorCode(t, err))
}

func TestGetAllScopesToOwnAccommodation(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	member := fixture.addUser(t, "member", domain.RoleUser, &accommodationID)
	fixture.addUser(t, "neighbor", domain.RoleUser, &accommodationID)
	fixture.addUser(t, "outsider", domain.RoleUser, &otherID)

	users, err := fixture.service.GetAll(context.Background(), principalFor(member), false, domain.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestGetAllWithoutAccommodationForbidden(t *testing.T) {
	fixture := newUserFixture()
	loner := fixture.addUser(t, "loner", domain.RoleUser, nil)

	_, err := fixture.service.GetAll(context.Background(), principalFor(loner), false, domain.UserFilter{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errorCode(t, err))
}

func TestGetAllAdminSeesEveryone(t *testing.T) {
	fixture := newUserFixture()
	accommodationID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	fixture.addUser(t, "member", domain.RoleUser, &accommodationID)
	fixture.addUser(t, "outsider", domain.RoleUser, &otherID)

	admin := authorization.Principal{UserID: primitive.NewObjectID().Hex(), Role: domain.RoleAdmin}
	users, err := fixture.service.GetAll(context.Background(), admin, true, domain.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
