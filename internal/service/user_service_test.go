package service

import (
	"context"
	"testing"
	"time"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Username]; ok {
		return store.ErrDuplicate
	}
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.Username] = &cp
	return nil
}

func (f *fakeUserStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeTokenStore struct {
	tokens map[string]int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]int64{}}
}

func (f *fakeTokenStore) SaveToken(_ context.Context, token string, userID int64, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) UserIDByToken(_ context.Context, token string) (int64, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, store.ErrNotFound
	}
	return userID, nil
}

func (f *fakeTokenStore) DeleteToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func newTestUserService() (*UserService, *fakeUserStore, *fakeTokenStore, *stubPublisher) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	pub := &stubPublisher{}
	return NewUserService(users, tokens, pub, time.Hour), users, tokens, pub
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:  "buyer",
		Email:     "buyer@example.com",
		Password:  "correct horse",
		Password2: "correct horse",
	}
}

func TestRegisterHashesPasswordAndNotifies(t *testing.T) {
	svc, users, _, pub := newTestUserService()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	stored := users.users["buyer"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)

	require.Len(t, pub.emails, 1)
	assert.Equal(t, []string{"buyer@example.com"}, pub.emails[0].recipients)
}

func TestRegisterPasswordChecks(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	short := validRegistration()
	short.Password, short.Password2 = "short", "short"
	_, err := svc.Register(context.Background(), short)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	mismatch := validRegistration()
	mismatch.Password2 = "something else"
	_, err = svc.Register(context.Background(), mismatch)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, tokens, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	token, err := svc.Login(ctx, "buyer", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	require.NoError(t, svc.Logout(ctx, token))
	assert.Empty(t, tokens.tokens)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "buyer", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
