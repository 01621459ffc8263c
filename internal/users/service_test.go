package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/config"
	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(
		NewRepository(conn),
		config.JWTConfig{Secret: "unit-test-secret", Issuer: "zenmart", ExpirationMinutes: 60},
		config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16},
	)
	require.NoError(t, err)
	return svc, conn
}

func TestRegister_CreatesUserAndMintsToken(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha Rao",
		Email:    "Asha@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", result.User.Email)
	assert.Equal(t, enums.UserRoleUser, result.User.Role)
	assert.NotEmpty(t, result.Token)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)

	input := RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret-pass"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.c", Password: "short"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLogin_Flow(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginInput{Email: "ASHA@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(context.Background(), LoginInput{Email: "asha@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret-pass"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestPromoteAndDemote(t *testing.T) {
	svc, _ := newTestService(t)

	admin, err := svc.Register(context.Background(), RegisterInput{
		Name: "Admin", Email: "admin@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)
	target, err := svc.Register(context.Background(), RegisterInput{
		Name: "Target", Email: "target@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)

	promoted, err := svc.PromoteUser(context.Background(), admin.User.ID, target.User.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, promoted.Role)

	demoted, err := svc.DemoteUser(context.Background(), admin.User.ID, target.User.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleUser, demoted.Role)

	// self-demotion is rejected
	_, err = svc.DemoteUser(context.Background(), admin.User.ID, admin.User.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteUser_SelfGuard(t *testing.T) {
	svc, _ := newTestService(t)

	admin, err := svc.Register(context.Background(), RegisterInput{
		Name: "Admin", Email: "admin@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)
	target, err := svc.Register(context.Background(), RegisterInput{
		Name: "Target", Email: "target@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), admin.User.ID, admin.User.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	require.NoError(t, svc.DeleteUser(context.Background(), admin.User.ID, target.User.ID))

	err = svc.DeleteUser(context.Background(), admin.User.ID, target.User.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListUsers(t *testing.T) {
	svc, _ := newTestService(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "User", Email: email, Password: "secret-pass",
		})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
