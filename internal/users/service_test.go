package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/types"
)

type stubRepo struct {
	users     map[uuid.UUID]*models.User
	createErr error
	saveErr   error
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_users_email"`)
		}
	}
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubRepo) Save(ctx context.Context, user *models.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, PasswordConfig: testPasswordConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "Myles",
		Email:    "myles@example.com",
		Password: "hunter2",
		Language: &types.OptionPair{Value: "en", Label: "English"},
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %q, got %q (%v)", code, appErr.Code(), err)
	}
	return appErr
}

func TestRegisterCreatesUserWithoutExposingHash(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
	if dto.Email != "myles@example.com" {
		t.Fatalf("unexpected email %q", dto.Email)
	}
	if dto.WatchList == nil || dto.WishList == nil {
		t.Fatal("expected empty lists, not nil")
	}

	stored := repo.users[dto.ID]
	if stored.PasswordHash == "" || strings.Contains(stored.PasswordHash, "hunter2") {
		t.Fatal("expected password to be hashed")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	input := validRegisterInput()
	input.Email = "  Myles@Example.COM "
	dto, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "myles@example.com" {
		t.Fatalf("expected lowercased email, got %q", dto.Email)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short name", func(in *RegisterInput) { in.Name = "ab" }},
		{"long name", func(in *RegisterInput) { in.Name = strings.Repeat("x", 51) }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"double dot email", func(in *RegisterInput) { in.Email = "a..b@example.com" }},
		{"long tld", func(in *RegisterInput) { in.Email = "user@example.technology" }},
		{"short password", func(in *RegisterInput) { in.Password = "abcd" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.users[dto.ID].IsAdmin {
		t.Fatal("registration must never create a privileged account")
	}
	if dto.IsAdmin != nil && *dto.IsAdmin {
		t.Fatal("registration must never report a privileged account")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, validRegisterInput())
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestListAdminSeesAllAccounts(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	second := validRegisterInput()
	second.Email = "yoshi@example.com"
	if _, err := svc.Register(ctx, second); err != nil {
		t.Fatalf("register: %v", err)
	}

	all, err := svc.List(ctx, Caller{ID: uuid.New(), IsAdmin: true})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}
	for _, dto := range all {
		if dto.IsAdmin == nil {
			t.Fatal("admin listing should include the admin flag")
		}
	}
}

func TestListNonAdminSeesOnlySelf(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	other := validRegisterInput()
	other.Email = "yoshi@example.com"
	if _, err := svc.Register(ctx, other); err != nil {
		t.Fatalf("register: %v", err)
	}

	own, err := svc.List(ctx, Caller{ID: dto.ID, Email: "Myles@Example.com"})
	if err != nil {
		t.Fatalf("self list: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected exactly the caller's record, got %d", len(own))
	}
	if own[0].Email != "myles@example.com" {
		t.Fatalf("expected caller's own record, got %q", own[0].Email)
	}
	if own[0].IsAdmin != nil {
		t.Fatal("self listing must not expose the admin flag")
	}

	none, err := svc.List(ctx, Caller{ID: uuid.New(), Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("unknown caller list: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no records for unknown email, got %d", len(none))
	}
}

func TestGetEnforcesSelfOrAdmin(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Get(ctx, Caller{ID: dto.ID}, dto.ID); err != nil {
		t.Fatalf("self get: %v", err)
	}
	if _, err := svc.Get(ctx, Caller{ID: uuid.New(), IsAdmin: true}, dto.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}

	_, err = svc.Get(ctx, Caller{ID: uuid.New()}, dto.ID)
	expectCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Get(ctx, Caller{ID: uuid.New(), IsAdmin: true}, uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	originalHash := repo.users[dto.ID].PasswordHash

	newName := "Yoshi"
	region := types.OptionPair{Value: "jp", Label: "Japan"}
	updated, err := svc.Update(ctx, Caller{ID: dto.ID}, dto.ID, UpdateInput{
		Name:   &newName,
		Region: &region,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Yoshi" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.Region == nil || updated.Region.Value != "jp" {
		t.Fatalf("expected region set, got %+v", updated.Region)
	}
	if updated.Email != dto.Email {
		t.Fatalf("email should not change, got %q", updated.Email)
	}
	if repo.users[dto.ID].PasswordHash != originalHash {
		t.Fatal("hash should not change without a new password")
	}
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	originalHash := repo.users[dto.ID].PasswordHash

	newPassword := "correct horse"
	if _, err := svc.Update(ctx, Caller{ID: dto.ID}, dto.ID, UpdateInput{Password: &newPassword}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.users[dto.ID].PasswordHash == originalHash {
		t.Fatal("expected hash to change")
	}
}

func TestUpdateAdminFlagRequiresAdmin(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	flag := true
	_, err = svc.Update(ctx, Caller{ID: dto.ID}, dto.ID, UpdateInput{IsAdmin: &flag})
	expectCode(t, err, pkgerrors.CodeForbidden)

	updated, err := svc.Update(ctx, Caller{ID: uuid.New(), IsAdmin: true}, dto.ID, UpdateInput{IsAdmin: &flag})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.IsAdmin == nil || !*updated.IsAdmin {
		t.Fatal("expected admin flag set")
	}
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bad := "no"
	_, err = svc.Update(ctx, Caller{ID: dto.ID}, dto.ID, UpdateInput{Name: &bad})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteEnforcesOwnershipAndExistence(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	err = svc.Delete(ctx, Caller{ID: uuid.New()}, dto.ID)
	expectCode(t, err, pkgerrors.CodeForbidden)

	if err := svc.Delete(ctx, Caller{ID: dto.ID}, dto.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = svc.Delete(ctx, Caller{ID: uuid.New(), IsAdmin: true}, dto.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}
