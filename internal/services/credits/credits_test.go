package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetPlan(ctx context.Context, planID int) (*models.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *RepoMock) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *RepoMock) GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) CreateSubscription(ctx context.Context, userUID string, planID int, periodStart, periodEnd time.Time) (int, error) {
	args := m.Called(ctx, userUID, planID, periodStart, periodEnd)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUsage(ctx context.Context, userUID string) (*models.UsageRecord, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageRecord), args.Error(1)
}
func (m *RepoMock) ConsumeCredit(ctx context.Context, userUID string, monthlyCredits int) (int, error) {
	args := m.Called(ctx, userUID, monthlyCredits)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ResetUsageIfExpired(ctx context.Context, userUID string, periodStart, periodEnd time.Time) (int, error) {
	args := m.Called(ctx, userUID, periodStart, periodEnd)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func activeSub() *models.Subscription {
	now := time.Now()
	return &models.Subscription{
		ID:                 1,
		UserUID:            "uid-1",
		PlanID:             2,
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: now.AddDate(0, 0, -10),
		CurrentPeriodEnd:   now.AddDate(0, 0, 20),
	}
}

func TestLedgerService_CreditsRemaining(t *testing.T) {
	plan := &models.Plan{ID: 2, Name: "basico", MonthlyCredits: 10}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		want       int
		wantErr    bool
	}{
		{
			name: "partially used period",
			setupMocks: func(r *RepoMock) {
				sub := activeSub()
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
				r.On("ResetUsageIfExpired", mock.Anything, "uid-1", sub.CurrentPeriodStart, sub.CurrentPeriodEnd).Return(0, nil)
				r.On("GetUsage", mock.Anything, "uid-1").Return(&models.UsageRecord{UserUID: "uid-1", UsedCredits: 3}, nil)
				r.On("GetPlan", mock.Anything, 2).Return(plan, nil)
			},
			want: 7,
		},
		{
			name: "no subscription means zero",
			setupMocks: func(r *RepoMock) {
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(nil, nil)
			},
			want: 0,
		},
		{
			name: "no usage record means zero",
			setupMocks: func(r *RepoMock) {
				sub := activeSub()
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
				r.On("ResetUsageIfExpired", mock.Anything, "uid-1", mock.Anything, mock.Anything).Return(0, nil)
				r.On("GetUsage", mock.Anything, "uid-1").Return(nil, nil)
			},
			want: 0,
		},
		{
			name: "never negative even when used exceeds quota",
			setupMocks: func(r *RepoMock) {
				sub := activeSub()
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
				r.On("ResetUsageIfExpired", mock.Anything, "uid-1", mock.Anything, mock.Anything).Return(0, nil)
				r.On("GetUsage", mock.Anything, "uid-1").Return(&models.UsageRecord{UserUID: "uid-1", UsedCredits: 15}, nil)
				r.On("GetPlan", mock.Anything, 2).Return(plan, nil)
			},
			want: 0,
		},
		{
			name: "storage error is propagated",
			setupMocks: func(r *RepoMock) {
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := NewLedgerService(repo, newNoopLogger())

			got, err := svc.CreditsRemaining(context.Background(), "uid-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			repo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_CanPublish_QuotaExhausted(t *testing.T) {
	repo := new(RepoMock)
	sub := activeSub()
	plan := &models.Plan{ID: 2, Name: "basico", MonthlyCredits: 10}
	repo.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
	repo.On("ResetUsageIfExpired", mock.Anything, "uid-1", mock.Anything, mock.Anything).Return(0, nil)
	repo.On("GetUsage", mock.Anything, "uid-1").Return(&models.UsageRecord{UserUID: "uid-1", UsedCredits: 10}, nil)
	repo.On("GetPlan", mock.Anything, 2).Return(plan, nil)

	svc := NewLedgerService(repo, newNoopLogger())
	can, err := svc.CanPublish(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.False(t, can)

	status, err := svc.Status(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.False(t, status.CanPublish)
	assert.Equal(t, models.ReasonNoCredits, status.Reason)
	assert.Equal(t, 0, status.CreditsRemaining)
}

func TestLedgerService_ConsumeCredit(t *testing.T) {
	plan := &models.Plan{ID: 2, Name: "basico", MonthlyCredits: 10}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *RepoMock) {
				sub := activeSub()
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
				r.On("ResetUsageIfExpired", mock.Anything, "uid-1", mock.Anything, mock.Anything).Return(0, nil)
				r.On("GetPlan", mock.Anything, 2).Return(plan, nil)
				r.On("ConsumeCredit", mock.Anything, "uid-1", 10).Return(1, nil)
			},
		},
		{
			name: "no subscription",
			setupMocks: func(r *RepoMock) {
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(nil, nil)
			},
			wantErr: ErrNoSubscription,
		},
		{
			name: "conditional update misses when quota reached",
			setupMocks: func(r *RepoMock) {
				sub := activeSub()
				r.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
				r.On("ResetUsageIfExpired", mock.Anything, "uid-1", mock.Anything, mock.Anything).Return(0, nil)
				r.On("GetPlan", mock.Anything, 2).Return(plan, nil)
				r.On("ConsumeCredit", mock.Anything, "uid-1", 10).Return(0, nil)
			},
			wantErr: ErrNoCredits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := NewLedgerService(repo, newNoopLogger())

			err := svc.ConsumeCredit(context.Background(), "uid-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

// Повторный перенос периода не выполняет второй сброс: условное обновление
// в хранилище не находит строк, и сервис лишь повторяет вызов.
func TestLedgerService_RolloverIdempotent(t *testing.T) {
	repo := new(RepoMock)
	sub := activeSub()
	plan := &models.Plan{ID: 2, Name: "basico", MonthlyCredits: 10}
	repo.On("GetActiveSubscription", mock.Anything, "uid-1").Return(sub, nil)
	repo.On("ResetUsageIfExpired", mock.Anything, "uid-1", sub.CurrentPeriodStart, sub.CurrentPeriodEnd).
		Return(1, nil).Once()
	repo.On("ResetUsageIfExpired", mock.Anything, "uid-1", sub.CurrentPeriodStart, sub.CurrentPeriodEnd).
		Return(0, nil).Once()
	repo.On("GetUsage", mock.Anything, "uid-1").Return(&models.UsageRecord{UserUID: "uid-1", UsedCredits: 0}, nil)
	repo.On("GetPlan", mock.Anything, 2).Return(plan, nil)

	svc := NewLedgerService(repo, newNoopLogger())

	first, err := svc.CreditsRemaining(context.Background(), "uid-1")
	require.NoError(t, err)
	second, err := svc.CreditsRemaining(context.Background(), "uid-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "ResetUsageIfExpired", 2)
}

func TestLedgerService_Subscribe(t *testing.T) {
	repo := new(RepoMock)
	plan := &models.Plan{ID: 3, Name: "profissional", MonthlyCredits: 30}
	repo.On("GetPlan", mock.Anything, 3).Return(plan, nil)
	repo.On("CreateSubscription", mock.Anything, "uid-1", 3, mock.Anything, mock.Anything).Return(7, nil)

	svc := NewLedgerService(repo, newNoopLogger())
	sub, err := svc.Subscribe(context.Background(), "uid-1", 3)
	require.NoError(t, err)

	assert.Equal(t, 7, sub.ID)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), sub.CurrentPeriodEnd, time.Minute)
}
