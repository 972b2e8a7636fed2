package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	users  map[int]*User
	nextID int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[int]*User{}, nextID: 1}
}

func (m *memoryRepository) Create(_ context.Context, user *User) (*User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrEmailExists
		}
	}
	user.UserID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.UserID] = &stored
	return user, nil
}

func (m *memoryRepository) List(_ context.Context, _ ListFilter) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryRepository) GetByID(_ context.Context, id int) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepository) Update(_ context.Context, user *User, _ ...string) error {
	if _, ok := m.users[user.UserID]; !ok {
		return ErrUserNotFound
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      "instructor",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleInstructor, created.Role)
	assert.True(t, created.IsActive)

	_, err = svc.CreateUser(ctx, CreateUserRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "ADA@example.com",
		Role:      RoleIT,
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.CreateUser(ctx, CreateUserRequest{
		FirstName: "Bad",
		LastName:  "Role",
		Email:     "bad@example.com",
		Role:      "JANITOR",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestService_UpdateUser_Partial(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(repo)

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Role:      RoleAdmin,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.UserID, UpdateUserRequest{LastName: strPtr("Murray")})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "Murray", updated.LastName)
	assert.Equal(t, "grace@example.com", updated.Email)
	assert.Equal(t, RoleAdmin, updated.Role)

	_, err = svc.UpdateUser(ctx, created.UserID, UpdateUserRequest{Role: strPtr("nobody")})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.UpdateUser(ctx, 99, UpdateUserRequest{LastName: strPtr("X")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_UpdateUser_EmailConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())

	first, err := svc.CreateUser(ctx, CreateUserRequest{FirstName: "A", LastName: "A", Email: "a@example.com", Role: RoleIT})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, CreateUserRequest{FirstName: "B", LastName: "B", Email: "b@example.com", Role: RoleIT})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, first.UserID, UpdateUserRequest{Email: strPtr("b@example.com")})
	assert.ErrorIs(t, err, ErrEmailExists)

	same, err := svc.UpdateUser(ctx, first.UserID, UpdateUserRequest{Email: strPtr("a@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", same.Email)
}

func TestService_DeactivateUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(repo)

	created, err := svc.CreateUser(ctx, CreateUserRequest{FirstName: "C", LastName: "D", Email: "c@example.com", Role: RoleIT})
	require.NoError(t, err)

	deactivated, err := svc.DeactivateUser(ctx, created.UserID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	stored, err := svc.GetUser(ctx, created.UserID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestUpdateUserRequest_ApplyColumns(t *testing.T) {
	active := true
	u := &User{FirstName: "x", Role: RoleIT}
	cols := UpdateUserRequest{FirstName: strPtr(" Y "), IsActive: &active}.Apply(u)

	assert.Equal(t, []string{"first_name", "is_active"}, cols)
	assert.Equal(t, "Y", u.FirstName)
	assert.Empty(t, UpdateUserRequest{}.Apply(u))
}
