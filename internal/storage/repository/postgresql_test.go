package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, models.User{
		Email:        "advogado@example.com",
		Username:     "advogado",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	got, err := storage.GetUserByUsername(ctx, "advogado")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "advogado@example.com", got.Email)
	assert.Empty(t, got.Roles)

	// Повторная регистрация с тем же username нарушает уникальность
	_, err = storage.RegisterUser(ctx, models.User{
		Email:        "other@example.com",
		Username:     "advogado",
		PasswordHash: "hashedpassword",
	})
	require.Error(t, err)
}

func TestStorage_Roles(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "editor1", "editor1@example.com", "hash")

	require.NoError(t, storage.GrantRole(ctx, uid, models.RoleEditor))
	require.NoError(t, storage.GrantRole(ctx, uid, models.RoleModerator))
	// Повторное назначение не создает дубликата
	require.NoError(t, storage.GrantRole(ctx, uid, models.RoleEditor))

	roles, err := storage.ListRoles(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleEditor, models.RoleModerator}, roles)

	affected, err := storage.RevokeRole(ctx, uid, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	// Снятие отсутствующей роли не находит строк
	affected, err = storage.RevokeRole(ctx, uid, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	user, err := storage.GetUserByUsername(ctx, "editor1")
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleEditor}, user.Roles)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	uid1 := factory.CreateUser(t, "user1", "user1@example.com", "hash1")
	factory.CreateUser(t, "user2", "user2@example.com", "hash2")
	factory.GrantRole(t, uid1, models.RoleAdmin)
	factory.GrantRole(t, uid1, models.RoleEditor)

	users, err := storage.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user1", users[0].Username)
	assert.Equal(t, []string{models.RoleAdmin, models.RoleEditor}, users[0].Roles)
	assert.Empty(t, users[1].Roles)

	users, err = storage.ListUsers(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user2", users[0].Username)
}

func TestStorage_Plans(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	plans, err := storage.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "basico", plans[0].Name)
	assert.Equal(t, 10, plans[0].MonthlyCredits)

	plan, err := storage.GetPlan(ctx, plans[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "profissional", plan.Name)
	assert.Equal(t, 30, plan.MonthlyCredits)

	_, err = storage.GetPlan(ctx, 9999)
	require.Error(t, err)
}

func TestStorage_GetActiveSubscription(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		status     string
		periodEnd  time.Time
		wantActive bool
	}{
		{
			name:       "active subscription in current period",
			status:     models.SubscriptionActive,
			periodEnd:  now.AddDate(0, 1, 0),
			wantActive: true,
		},
		{
			name:       "active subscription with expired period",
			status:     models.SubscriptionActive,
			periodEnd:  now.AddDate(0, -1, 0),
			wantActive: false,
		},
		{
			name:       "inactive subscription",
			status:     models.SubscriptionInactive,
			periodEnd:  now.AddDate(0, 1, 0),
			wantActive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			ctx := context.Background()
			factory := NewTestDataFactory(storage)
			uid := factory.CreateUser(t, "subuser", "subuser@example.com", "hash")
			factory.CreateSubscription(t, uid, 1, tt.status, now.AddDate(0, -2, 0), tt.periodEnd)

			sub, err := storage.GetActiveSubscription(ctx, uid)
			require.NoError(t, err)
			if tt.wantActive {
				require.NotNil(t, sub)
				assert.Equal(t, uid, sub.UserUID)
				assert.Equal(t, models.SubscriptionActive, sub.Status)
			} else {
				assert.Nil(t, sub)
			}
		})
	}
}

func TestStorage_CreateSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "subuser", "subuser@example.com", "hash")

	start := time.Now()
	end := start.AddDate(0, 1, 0)

	firstID, err := storage.CreateSubscription(ctx, uid, 1, start, end)
	require.NoError(t, err)
	assert.NotZero(t, firstID)

	// Учётная запись расхода заведена с нулевым счётчиком
	usage, err := storage.GetUsage(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 0, usage.UsedCredits)

	affected, err := storage.ConsumeCredit(ctx, uid, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	// Повторное оформление деактивирует прежнюю подписку и сбрасывает расход
	secondID, err := storage.CreateSubscription(ctx, uid, 2, start, end)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	sub, err := storage.GetActiveSubscription(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, secondID, sub.ID)
	assert.Equal(t, 2, sub.PlanID)

	usage, err = storage.GetUsage(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 0, usage.UsedCredits)
}

func TestStorage_ConsumeCredit(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "subuser", "subuser@example.com", "hash")

	start := time.Now()
	factory.CreateUsage(t, uid, 0, start, start.AddDate(0, 1, 0))

	// Квота в три кредита списывается ровно три раза
	for i := range 3 {
		affected, err := storage.ConsumeCredit(ctx, uid, 3)
		require.NoError(t, err, "attempt %d", i+1)
		assert.Equal(t, 1, affected)
	}

	affected, err := storage.ConsumeCredit(ctx, uid, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	usage, err := storage.GetUsage(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 3, usage.UsedCredits)

	// Для пользователя без учётной записи строк не находится
	otherUID := factory.CreateUser(t, "other", "other@example.com", "hash")
	affected, err = storage.ConsumeCredit(ctx, otherUID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestStorage_ResetUsageIfExpired(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "subuser", "subuser@example.com", "hash")

	expiredStart := time.Now().AddDate(0, -2, 0)
	factory.CreateUsage(t, uid, 7, expiredStart, expiredStart.AddDate(0, 1, 0))

	newStart := time.Now()
	newEnd := newStart.AddDate(0, 1, 0)

	affected, err := storage.ResetUsageIfExpired(ctx, uid, newStart, newEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	usage, err := storage.GetUsage(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.UsedCredits)

	// Повторный сброс не находит строк: период уже перенесён
	affected, err = storage.ResetUsageIfExpired(ctx, uid, newStart, newEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestStorage_GetUsage_NoRecord(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "subuser", "subuser@example.com", "hash")

	usage, err := storage.GetUsage(context.Background(), uid)
	require.NoError(t, err)
	assert.Nil(t, usage)
}

func TestCheckDatabaseReady(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	err := storage.CheckDatabaseReady(context.Background())
	require.NoError(t, err)
}
