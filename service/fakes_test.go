package application

import (
	"context"
	"strings"
	"time"

	"github.com/TheYassAnz/coabi-backend/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*domain.User)}
}

func (store *fakeUserStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.ID = primitive.NewObjectID()
	store.users[user.ID] = user
	return user, nil
}

func (store *fakeUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (store *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range store.users {
		if user.Username == username {
			copy := *user
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (store *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range store.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (store *fakeUserStore) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	var users []*domain.User
	for _, id := range ids {
		if user, ok := store.users[id]; ok {
			copy := *user
			users = append(users, &copy)
		}
	}
	return users, nil
}

func (store *fakeUserStore) GetAll(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	var users []*domain.User
	for _, user := range store.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.AccommodationID != nil &&
			(user.AccommodationID == nil || *user.AccommodationID != *filter.AccommodationID) {
			continue
		}
		if filter.Name != "" {
			name := strings.ToLower(filter.Name)
			if !strings.Contains(strings.ToLower(user.FirstName), name) &&
				!strings.Contains(strings.ToLower(user.LastName), name) &&
				!strings.Contains(strings.ToLower(user.Username), name) {
				continue
			}
		}
		copy := *user
		users = append(users, &copy)
	}
	return users, nil
}

func (store *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := store.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	copy := *user
	store.users[user.ID] = &copy
	return nil
}

func (store *fakeUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(store.users, id)
	return nil
}

type fakeAccommodationStore struct {
	accommodations map[primitive.ObjectID]*domain.Accommodation
	users          *fakeUserStore
}

func newFakeAccommodationStore(users *fakeUserStore) *fakeAccommodationStore {
	return &fakeAccommodationStore{
		accommodations: make(map[primitive.ObjectID]*domain.Accommodation),
		users:          users,
	}
}

func (store *fakeAccommodationStore) CreateWithModerator(ctx context.Context, accommodation *domain.Accommodation, userID primitive.ObjectID) (*domain.Accommodation, error) {
	user, ok := store.users.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	accommodation.ID = primitive.NewObjectID()
	store.accommodations[accommodation.ID] = accommodation
	user.AccommodationID = &accommodation.ID
	user.Role = domain.RoleModerator
	return accommodation, nil
}

func (store *fakeAccommodationStore) GetAll(ctx context.Context) ([]*domain.Accommodation, error) {
	var accommodations []*domain.Accommodation
	for _, accommodation := range store.accommodations {
		accommodations = append(accommodations, accommodation)
	}
	return accommodations, nil
}

func (store *fakeAccommodationStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Accommodation, error) {
	accommodation, ok := store.accommodations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return accommodation, nil
}

func (store *fakeAccommodationStore) GetByCode(ctx context.Context, code string) (*domain.Accommodation, error) {
	for _, accommodation := range store.accommodations {
		if accommodation.Code == code {
			return accommodation, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (store *fakeAccommodationStore) Update(ctx context.Context, accommodation *domain.Accommodation) error {
	if _, ok := store.accommodations[accommodation.ID]; !ok {
		return domain.ErrNotFound
	}
	store.accommodations[accommodation.ID] = accommodation
	return nil
}

func (store *fakeAccommodationStore) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.accommodations[id]; !ok {
		return domain.ErrNotFound
	}
	for _, user := range store.users.users {
		if user.AccommodationID != nil && *user.AccommodationID == id {
			user.AccommodationID = nil
			if user.Role == domain.RoleModerator {
				user.Role = domain.RoleUser
			}
		}
	}
	delete(store.accommodations, id)
	return nil
}

type fakeTaskStore struct {
	tasks map[primitive.ObjectID]*domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[primitive.ObjectID]*domain.Task)}
}

func (store *fakeTaskStore) Insert(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	store.tasks[task.ID] = task
	return task, nil
}

func (store *fakeTaskStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	task, ok := store.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *task
	return &copy, nil
}

func (store *fakeTaskStore) GetAll(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, task := range store.tasks {
		if filter.AccommodationID != nil && task.AccommodationID != *filter.AccommodationID {
			continue
		}
		if filter.UserID != nil && task.UserID != *filter.UserID {
			continue
		}
		if filter.Weekly != nil && task.Weekly != *filter.Weekly {
			continue
		}
		if filter.Done != nil && task.Done != *filter.Done {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(task.Name), strings.ToLower(filter.Name)) {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (store *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := store.tasks[task.ID]; !ok {
		return domain.ErrNotFound
	}
	task.UpdatedAt = time.Now()
	copy := *task
	store.tasks[task.ID] = &copy
	return nil
}

func (store *fakeTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(store.tasks, id)
	return nil
}

type fakeRuleStore struct {
	rules map[primitive.ObjectID]*domain.Rule
}

func newFakeRuleStore() *fakeRuleStore {
	return &fakeRuleStore{rules: make(map[primitive.ObjectID]*domain.Rule)}
}

func (store *fakeRuleStore) Insert(ctx context.Context, rule *domain.Rule) (*domain.Rule, error) {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	store.rules[rule.ID] = rule
	return rule, nil
}

func (store *fakeRuleStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Rule, error) {
	rule, ok := store.rules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *rule
	return &copy, nil
}

func (store *fakeRuleStore) GetAll(ctx context.Context, filter domain.RuleFilter) ([]*domain.Rule, error) {
	var rules []*domain.Rule
	for _, rule := range store.rules {
		if filter.AccommodationID != nil && rule.AccommodationID != *filter.AccommodationID {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(rule.Title), strings.ToLower(filter.Title)) {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (store *fakeRuleStore) Update(ctx context.Context, rule *domain.Rule) error {
	if _, ok := store.rules[rule.ID]; !ok {
		return domain.ErrNotFound
	}
	rule.UpdatedAt = time.Now()
	copy := *rule
	store.rules[rule.ID] = &copy
	return nil
}

func (store *fakeRuleStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.rules[id]; !ok {
		return domain.ErrNotFound
	}
	delete(store.rules, id)
	return nil
}

type fakeEventStore struct {
	events map[primitive.ObjectID]*domain.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[primitive.ObjectID]*domain.Event)}
}

func (store *fakeEventStore) Insert(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	store.events[event.ID] = event
	return event, nil
}

func (store *fakeEventStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Event, error) {
	event, ok := store.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *event
	return &copy, nil
}

func (store *fakeEventStore) GetAll(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	var events []*domain.Event
	for _, event := range store.events {
		if filter.AccommodationID != nil && event.AccommodationID != *filter.AccommodationID {
			continue
		}
		if filter.UserID != nil && event.UserID != *filter.UserID {
			continue
		}
		if filter.PlannedDateStart != nil && event.PlannedDate.Before(*filter.PlannedDateStart) {
			continue
		}
		if filter.PlannedDateEnd != nil && event.PlannedDate.After(*filter.PlannedDateEnd) {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(filter.Title)) {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (store *fakeEventStore) Update(ctx context.Context, event *domain.Event) error {
	if _, ok := store.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	event.UpdatedAt = time.Now()
	copy := *event
	store.events[event.ID] = &copy
	return nil
}

func (store *fakeEventStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(store.events, id)
	return nil
}

type fakeRefundStore struct {
	refunds map[primitive.ObjectID]*domain.Refund
}

func newFakeRefundStore() *fakeRefundStore {
	return &fakeRefundStore{refunds: make(map[primitive.ObjectID]*domain.Refund)}
}

func (store *fakeRefundStore) Insert(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	refund.ID = primitive.NewObjectID()
	refund.CreatedAt = time.Now()
	refund.UpdatedAt = refund.CreatedAt
	store.refunds[refund.ID] = refund
	return refund, nil
}

func (store *fakeRefundStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Refund, error) {
	refund, ok := store.refunds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *refund
	return &copy, nil
}

func (store *fakeRefundStore) GetAll(ctx context.Context, filter domain.RefundFilter) ([]*domain.Refund, error) {
	var refunds []*domain.Refund
	for _, refund := range store.refunds {
		if filter.AccommodationID != nil && refund.AccommodationID != *filter.AccommodationID {
			continue
		}
		if filter.UserID != nil && refund.UserID != *filter.UserID {
			continue
		}
		if filter.RoommateID != nil && refund.RoommateID != *filter.RoommateID {
			continue
		}
		if filter.ToRefundStart != nil && refund.ToRefund < *filter.ToRefundStart {
			continue
		}
		if filter.ToRefundEnd != nil && refund.ToRefund > *filter.ToRefundEnd {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(refund.Title), strings.ToLower(filter.Title)) {
			continue
		}
		refunds = append(refunds, refund)
	}
	return refunds, nil
}

func (store *fakeRefundStore) Update(ctx context.Context, refund *domain.Refund) error {
	if _, ok := store.refunds[refund.ID]; !ok {
		return domain.ErrNotFound
	}
	refund.UpdatedAt = time.Now()
	copy := *refund
	store.refunds[refund.ID] = &copy
	return nil
}

func (store *fakeRefundStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.refunds[id]; !ok {
		return domain.ErrNotFound
	}
	delete(store.refunds, id)
	return nil
}
