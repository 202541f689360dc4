package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"nutriscan-backend/domain"
	"nutriscan-backend/entities"
	"nutriscan-backend/internal/testutil"
	"nutriscan-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendWelcome(toEmail string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func setup(t *testing.T) (UserService, UserRepository, jwt.TokenIssuer, *recordingMailer) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	issuer := jwt.NewLocalJWTService("test-secret")
	mailer := &recordingMailer{}
	return NewUserService(repo, issuer, mailer), repo, issuer, mailer
}

func token(t *testing.T, issuer jwt.TokenIssuer, identity jwt.Identity) string {
	t.Helper()
	tok, err := issuer.GenerateTokenUser(identity, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestLogin_CreatesUserOnFirstSight(t *testing.T) {
	svc, repo, issuer, mailer := setup(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, domain.LoginRequest{Token: token(t, issuer, jwt.Identity{UID: "uid-1", Email: "ana.silva@example.com"})})
	require.NoError(t, err)

	assert.True(t, res.IsNewUser)
	assert.Equal(t, "ana.silva", res.User.Name)
	assert.Equal(t, "uid-1", res.User.FirebaseUID)

	stored, err := repo.GetUserByFirebaseUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, stored.ID.String())

	assert.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestLogin_UpdatesChangedFieldsAndKeepsID(t *testing.T) {
	svc, _, issuer, _ := setup(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, domain.LoginRequest{Token: token(t, issuer, jwt.Identity{UID: "uid-1", Email: "a@example.com", Name: "Ana"})})
	require.NoError(t, err)

	second, err := svc.Login(ctx, domain.LoginRequest{Token: token(t, issuer, jwt.Identity{UID: "uid-1", Email: "b@example.com"})})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "b@example.com", second.User.Email)
	assert.Equal(t, "Ana", second.User.Name, "empty name must not overwrite")
}

func TestLogin_NotNewOnceProfileExists(t *testing.T) {
	svc, repo, issuer, _ := setup(t)
	ctx := context.Background()
	tok := token(t, issuer, jwt.Identity{UID: "uid-1", Email: "a@example.com"})

	_, err := svc.Login(ctx, domain.LoginRequest{Token: tok})
	require.NoError(t, err)

	user, err := repo.GetUserByFirebaseUID(ctx, "uid-1")
	require.NoError(t, err)
	db := repo.(*userRepository).db
	require.NoError(t, db.Create(&entities.Profile{UserID: user.ID, Age: 30, Gender: "male", Height: 175, Weight: 70, ActivityLevel: "sedentary"}).Error)

	res, err := svc.Login(ctx, domain.LoginRequest{Token: tok})
	require.NoError(t, err)
	assert.False(t, res.IsNewUser)
}

func TestLogin_InvalidToken(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{Token: "garbage"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestMeAndResolveUserID(t *testing.T) {
	svc, _, issuer, _ := setup(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, domain.LoginRequest{Token: token(t, issuer, jwt.Identity{UID: "uid-1", Email: "a@example.com"})})
	require.NoError(t, err)

	id, err := svc.ResolveUserID(ctx, &jwt.Identity{UID: "uid-1"})
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, id)

	me, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", me.User.Email)
	assert.Empty(t, me.User.FirebaseUID)
	assert.False(t, me.HasProfile)

	_, err = svc.ResolveUserID(ctx, &jwt.Identity{UID: "never-logged-in"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
