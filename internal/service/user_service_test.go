package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/service"
)

func newUserFixture(t *testing.T) (*fakeUserRepo, service.UserService) {
	t.Helper()

	userRepo := newFakeUserRepo()
	users := []*models.User{
		{ID: "admin-001", Name: "System Admin", Email: "admin@northsouth.edu", Role: "admin", NSUID: "ADM-0001", Verified: true},
		{ID: "teacher-001", Name: "Dr. Rahman Khan", Email: "rahman.khan@northsouth.edu", Role: "teacher", NSUID: "FAC-1001", Verified: false},
		{ID: "student-001", Name: "Ariful Islam", Email: "ariful.islam@northsouth.edu", Role: "student", NSUID: "2012345678", Verified: true},
	}
	for _, user := range users {
		require.NoError(t, userRepo.Create(context.Background(), user))
	}

	return userRepo, service.NewUserService(userRepo, zerolog.Nop())
}

func TestGetUsersByRole_AdminOnly(t *testing.T) {
	_, users := newUserFixture(t)

	teachers, err := users.GetUsersByRole(context.Background(), "admin-001", "teacher")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "teacher-001", teachers[0].ID)

	_, err = users.GetUsersByRole(context.Background(), "teacher-001", "student")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = users.GetUsersByRole(context.Background(), "student-001", "student")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = users.GetUsersByRole(context.Background(), "admin-001", "superuser")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestGetStudentOptions(t *testing.T) {
	_, users := newUserFixture(t)

	options, err := users.GetStudentOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "student-001", options[0].ID)
	assert.Equal(t, "Ariful Islam", options[0].Name)
	assert.Equal(t, "2012345678", options[0].NSUID)
}

func TestToggleVerification(t *testing.T) {
	userRepo, users := newUserFixture(t)

	updated, err := users.ToggleVerification(context.Background(), "admin-001", "teacher-001", true)
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	stored, err := userRepo.GetByID(context.Background(), "teacher-001")
	require.NoError(t, err)
	assert.True(t, stored.Verified)

	// Только админ и только над преподавателями
	_, err = users.ToggleVerification(context.Background(), "teacher-001", "teacher-001", true)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = users.ToggleVerification(context.Background(), "admin-001", "student-001", false)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = users.ToggleVerification(context.Background(), "admin-001", "ghost", true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	userRepo, users := newUserFixture(t)

	require.NoError(t, users.DeleteUser(context.Background(), "admin-001", "student-001"))

	deleted, err := userRepo.GetByID(context.Background(), "student-001")
	require.NoError(t, err)
	assert.Nil(t, deleted)

	// Админские учетки защищены от удаления
	err = users.DeleteUser(context.Background(), "admin-001", "admin-001")
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = users.DeleteUser(context.Background(), "teacher-001", "teacher-001")
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = users.DeleteUser(context.Background(), "admin-001", "ghost")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
