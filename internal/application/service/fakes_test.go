package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/internal/domain/repository"
)

// In-memory repository fakes. They implement the persistence contracts well
// enough for service-level tests: nil on not-found, copies on read so a test
// can't mutate stored state by accident.

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*entity.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[uuid.UUID]*entity.Transaction)}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	stored := *t
	f.transactions[t.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	stored := *t
	f.transactions[t.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.transactions, id)
	return nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var result []entity.Transaction
	for _, t := range f.transactions {
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Employee != nil && t.Employee != *params.Employee {
			continue
		}
		if params.CreatedBy != nil && t.CreatedBy != *params.CreatedBy {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, int64(len(result)), nil
}

type membershipKey struct {
	businessID uuid.UUID
	userID     uuid.UUID
}

type fakeBusinessRepo struct {
	businesses  map[uuid.UUID]*entity.Business
	memberships map[membershipKey]*entity.BusinessUser
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{
		businesses:  make(map[uuid.UUID]*entity.Business),
		memberships: make(map[membershipKey]*entity.BusinessUser),
	}
}

func (f *fakeBusinessRepo) CreateWithOwner(ctx context.Context, business *entity.Business, owner *entity.BusinessUser) error {
	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	owner.BusinessID = business.ID
	storedBusiness := *business
	storedOwner := *owner
	f.businesses[business.ID] = &storedBusiness
	f.memberships[membershipKey{business.ID, owner.UserID}] = &storedOwner
	return nil
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBusinessRepo) GetByName(ctx context.Context, name string) (*entity.Business, error) {
	for _, b := range f.businesses {
		if b.Name == name {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBusinessRepo) Update(ctx context.Context, business *entity.Business) error {
	stored := *business
	f.businesses[business.ID] = &stored
	return nil
}

func (f *fakeBusinessRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Business, error) {
	var result []entity.Business
	for key, m := range f.memberships {
		if key.userID == userID && m.IsActive {
			if b, ok := f.businesses[key.businessID]; ok {
				result = append(result, *b)
			}
		}
	}
	return result, nil
}

func (f *fakeBusinessRepo) AddMember(ctx context.Context, membership *entity.BusinessUser) error {
	key := membershipKey{membership.BusinessID, membership.UserID}
	// The real table has a composite primary key; an insert over an
	// existing row (even a deactivated one) must fail like postgres would
	if _, ok := f.memberships[key]; ok {
		return errors.New(`duplicate key value violates unique constraint "business_users_pkey"`)
	}
	stored := *membership
	f.memberships[key] = &stored
	return nil
}

func (f *fakeBusinessRepo) SaveMember(ctx context.Context, membership *entity.BusinessUser) error {
	stored := *membership
	f.memberships[membershipKey{membership.BusinessID, membership.UserID}] = &stored
	return nil
}

func (f *fakeBusinessRepo) GetMembership(ctx context.Context, businessID, userID uuid.UUID) (*entity.BusinessUser, error) {
	m, ok := f.memberships[membershipKey{businessID, userID}]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (f *fakeBusinessRepo) GetMembers(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessUser, error) {
	var result []entity.BusinessUser
	for key, m := range f.memberships {
		if key.businessID == businessID && m.IsActive {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeBusinessRepo) DeactivateMember(ctx context.Context, businessID, userID uuid.UUID) error {
	if m, ok := f.memberships[membershipKey{businessID, userID}]; ok {
		m.IsActive = false
	}
	return nil
}

func (f *fakeBusinessRepo) UpdateMemberRole(ctx context.Context, businessID, userID uuid.UUID, role enum.Role) error {
	if m, ok := f.memberships[membershipKey{businessID, userID}]; ok {
		m.Role = role
		m.Permissions = entity.CapabilitiesForRole(role)
	}
	return nil
}

func (f *fakeBusinessRepo) FirstActiveMembership(ctx context.Context, userID uuid.UUID) (*entity.BusinessUser, error) {
	var candidates []*entity.BusinessUser
	for key, m := range f.memberships {
		if key.userID == userID && m.IsActive {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	copied := *candidates[0]
	return &copied, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) SetCurrentBusiness(ctx context.Context, userID, businessID uuid.UUID) error {
	if u, ok := f.users[userID]; ok {
		id := businessID
		u.CurrentBusinessID = &id
	}
	return nil
}

type fakeInvitationRepo struct {
	invitations map[uuid.UUID]*entity.BusinessInvitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[uuid.UUID]*entity.BusinessInvitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, invitation *entity.BusinessInvitation) error {
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}
	stored := *invitation
	f.invitations[invitation.ID] = &stored
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*entity.BusinessInvitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) MarkAccepted(ctx context.Context, id uuid.UUID) (bool, error) {
	inv, ok := f.invitations[id]
	if !ok || inv.Status != enum.InvitationStatusPending {
		return false, nil
	}
	inv.Status = enum.InvitationStatusAccepted
	return true, nil
}

func (f *fakeInvitationRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	if inv, ok := f.invitations[id]; ok && inv.Status == enum.InvitationStatusPending {
		inv.Status = enum.InvitationStatusExpired
	}
	return nil
}

func (f *fakeInvitationRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	if inv, ok := f.invitations[id]; ok && inv.Status == enum.InvitationStatusPending {
		inv.Status = enum.InvitationStatusCancelled
	}
	return nil
}

func (f *fakeInvitationRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessInvitation, error) {
	var result []entity.BusinessInvitation
	for _, inv := range f.invitations {
		if inv.BusinessID == businessID {
			result = append(result, *inv)
		}
	}
	return result, nil
}
