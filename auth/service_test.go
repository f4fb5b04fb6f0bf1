package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/goldenaqar/marketplace/backend/utils"
)

type memoryStore struct {
	users map[string]*models.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]*models.User)}
}

func (m *memoryStore) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &Credential{ID: u.UserID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}

func (m *memoryStore) Insert(ctx context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func newTestService() (*Service, *memoryStore) {
	utils.InitJWT([]byte("test-key"))
	store := newMemoryStore()
	return NewService(store, utils.RoleUser), store
}

func TestRegisterPasswordLengthBoundary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{
		Email: "short@x.com", Password: "12345", ConfirmPassword: "12345",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("length 5: want ErrPasswordTooShort, got %v", err)
	}

	user, token, err := svc.Register(ctx, RegisterInput{
		Email: "ok@x.com", Password: "123456", ConfirmPassword: "123456",
	})
	if err != nil {
		t.Fatalf("length 6: unexpected error %v", err)
	}
	if user.UserID == "" || token == "" {
		t.Fatal("successful registration must return an id and a token")
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret2",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("want ErrPasswordMismatch, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	in := RegisterInput{Email: "dup@x.com", Password: "secret1", ConfirmPassword: "secret1"}

	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("second registration: want ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{
		Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, "a@x.com", "wrong-password")
	_, _, noUser := svc.Login(ctx, "ghost@x.com", "whatever")

	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials, got %v and %v", wrongPass, noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPass, noUser)
	}
}

func TestRegisterThenLoginReturnsSameIdentity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{
		Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1",
		FirstName: "Amal", Phone: "+971501234567",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	cred, token, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login after logout: %v", err)
	}
	if cred.ID != user.UserID {
		t.Fatalf("login returned a different identity: %s vs %s", cred.ID, user.UserID)
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		t.Fatalf("session token invalid: %v", err)
	}
	if claims.UserID != user.UserID || claims.Role != utils.RoleUser {
		t.Fatalf("unexpected session claims: %+v", claims)
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc, _ := newTestService()
	if _, _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("missing email: got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@x.com", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("missing password: got %v", err)
	}
}

func TestEmailNormalization(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{
		Email: "  Mixed@X.Com ", Password: "secret1", ConfirmPassword: "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "mixed@x.com", "secret1"); err != nil {
		t.Fatalf("login with normalized email: %v", err)
	}
}
