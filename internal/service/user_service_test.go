package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"asset-tracker/internal/mailer"
	"asset-tracker/internal/repository"
	"asset-tracker/internal/repository/sqlite"
)

// fakeSender records delivery attempts and optionally fails them.
type fakeSender struct {
	err  error
	sent chan mailer.Message
}

func newFakeSender(err error) *fakeSender {
	return &fakeSender{err: err, sent: make(chan mailer.Message, 8)}
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.sent <- msg
	return f.err
}

func (f *fakeSender) waitForSend(t *testing.T) mailer.Message {
	t.Helper()
	select {
	case msg := <-f.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail was never dispatched")
		return mailer.Message{}
	}
}

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newUserServiceFixture(t *testing.T, sender mailer.Sender) (UserService, repository.UserRepository) {
	t.Helper()
	db, err := sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	return NewUserService(users, sender, testLogger()), users
}

var hexKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestRegisterCreatesUnverifiedAccountWithAPIKey(t *testing.T) {
	sender := newFakeSender(nil)
	svc, users := newUserServiceFixture(t, sender)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)
	require.False(t, user.IsVerified)
	require.Regexp(t, hexKeyPattern, user.APIKey)
	require.Empty(t, user.PasswordHash)

	stored, err := users.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.NotEqual(t, "pw", stored.PasswordHash)
	require.Equal(t, user.APIKey, stored.APIKey)

	msg := sender.waitForSend(t)
	require.Equal(t, "bob@x.com", msg.To)
	require.Contains(t, msg.HTML, "bob")
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newUserServiceFixture(t, newFakeSender(nil))
	ctx := context.Background()

	for _, tc := range []struct{ username, email, password string }{
		{"", "bob@x.com", "pw"},
		{"bob", "", "pw"},
		{"bob", "bob@x.com", ""},
		{"   ", "bob@x.com", "pw"},
	} {
		_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, users := newUserServiceFixture(t, newFakeSender(nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "robert", "bob@x.com", "other")
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)

	stored, err := users.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.Equal(t, "bob", stored.Username)
}

func TestRegisterSucceedsWhenMailDeliveryFails(t *testing.T) {
	sender := newFakeSender(errors.New("smtp relay down"))
	svc, users := newUserServiceFixture(t, sender)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)
	sender.waitForSend(t)

	// The account exists even though the notification failed.
	_, err = users.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
}

func TestLoginConstantShapeFailure(t *testing.T) {
	svc, _ := newUserServiceFixture(t, newFakeSender(nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable.
	_, unknownErr := svc.Login(ctx, "nobody@x.com", "pw")
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
}

func TestLoginGatesOnVerification(t *testing.T) {
	svc, users := newUserServiceFixture(t, newFakeSender(nil))
	ctx := context.Background()

	registered, err := svc.Register(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)

	// Unverified accounts are rejected regardless of password correctness.
	_, err = svc.Login(ctx, "bob@x.com", "pw")
	require.ErrorIs(t, err, ErrNotVerified)
	_, err = svc.Login(ctx, "bob@x.com", "wrong")
	require.ErrorIs(t, err, ErrNotVerified)

	require.NoError(t, users.MarkVerified(ctx, "bob@x.com"))

	_, err = svc.Login(ctx, "bob@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.Login(ctx, "bob@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, registered.APIKey, user.APIKey)

	// The credential is never regenerated on login.
	again, err := svc.Login(ctx, "bob@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, user.APIKey, again.APIKey)
}

func TestGetByAPIKey(t *testing.T) {
	svc, _ := newUserServiceFixture(t, newFakeSender(nil))
	ctx := context.Background()

	registered, err := svc.Register(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)

	user, err := svc.GetByAPIKey(ctx, registered.APIKey)
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.Empty(t, user.PasswordHash)

	_, err = svc.GetByAPIKey(ctx, "bogus")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.GetByAPIKey(ctx, "")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
