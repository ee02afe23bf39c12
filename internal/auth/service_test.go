package auth

import (
	"errors"
	"testing"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
)

type fakeRepo struct {
	users  map[string]*User
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) Create(user *User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return nil
}

func (f *fakeRepo) FindByEmail(email string) (*User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, errors.New("record not found")
	}
	return user, nil
}

func (f *fakeRepo) FindByID(userID uint) (User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return *user, nil
		}
	}
	return User{}, errors.New("record not found")
}

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	user, err := svc.Register(RegisterInput{
		Email:     "  Sara@Example.com ",
		Password:  "s3cret-pass",
		FirstName: "Sara",
		LastName:  "Amrani",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "sara@example.com" {
		t.Errorf("email = %s, want normalized lowercase", user.Email)
	}
	if user.Role != RoleParticipant {
		t.Errorf("role = %s, want %s", user.Role, RoleParticipant)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in clear")
	}

	pair, logged, err := svc.Login(LoginInput{Email: "sara@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("token pair incomplete")
	}
	if logged.ID != user.ID {
		t.Errorf("logged user id = %d, want %d", logged.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	in := RegisterInput{Email: "sara@example.com", Password: "s3cret-pass", FirstName: "Sara", LastName: "Amrani"}
	if _, err := svc.Register(in); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(in); err == nil {
		t.Fatal("duplicate registration must fail")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	in := RegisterInput{Email: "sara@example.com", Password: "s3cret-pass", FirstName: "Sara", LastName: "Amrani"}
	if _, err := svc.Register(in); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := svc.Login(LoginInput{Email: "sara@example.com", Password: "wrong"}); err == nil {
		t.Fatal("login with wrong password must fail")
	}
	if _, _, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"}); err == nil {
		t.Fatal("login with unknown email must fail")
	}
}

func TestRefreshToken(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	if _, err := svc.Register(RegisterInput{Email: "sara@example.com", Password: "s3cret-pass", FirstName: "Sara", LastName: "Amrani"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	pair, _, err := svc.Login(LoginInput{Email: "sara@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	access, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if access == "" {
		t.Error("empty access token")
	}

	// An access token is signed with a different secret and must be rejected
	if _, err := svc.Refresh(pair.AccessToken); err == nil {
		t.Fatal("refresh with an access token must fail")
	}
}
