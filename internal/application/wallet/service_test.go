package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/domain/wallet"
)

type MockCheckRepository struct {
	mock.Mock
}

func (m *MockCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.Check, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Check), args.Error(1)
}

func (m *MockCheckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]wallet.Check, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]wallet.Check), args.Error(1)
}

func (m *MockCheckRepository) FindPending(ctx context.Context) ([]wallet.Check, error) {
	args := m.Called(ctx)
	return args.Get(0).([]wallet.Check), args.Error(1)
}

func (m *MockCheckRepository) Save(ctx context.Context, check *wallet.Check) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 4, 15, 16, 45, 0, 0, time.UTC)

func newCheckService() (*CheckService, *MockCheckRepository, *MockEventPublisher) {
	repo := new(MockCheckRepository)
	publisher := new(MockEventPublisher)
	svc := NewCheckService(repo, nil)
	svc.SetEventPublisher(publisher)
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, repo, publisher
}

func pendingCheck(t *testing.T, due time.Time) *wallet.Check {
	t.Helper()
	check, err := wallet.NewCheck(wallet.NewCheckInput{
		CheckType:   wallet.CheckTypePhysical,
		CheckNumber: "0001",
		BankName:    "Banco Provincia",
		Amount:      decimal.NewFromInt(1000),
		IssueDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     due,
		IssuerName:  "Cliente SA",
	})
	require.NoError(t, err)
	check.ClearDomainEvents()
	return check
}

func TestCheckService_CreateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("stores pending check", func(t *testing.T) {
		svc, repo, publisher := newCheckService()
		repo.On("Save", ctx, mock.AnythingOfType("*wallet.Check")).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateCheck(ctx, CreateCheckRequest{
			CheckType:   "echeq",
			CheckNumber: "E-778",
			BankName:    "Banco Galicia",
			Amount:      "25000.50",
			IssueDate:   "2026-04-01",
			DueDate:     "2026-05-01",
			IssuerName:  "Constructora Sur",
		}, "cashier-1")
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "25000.50", resp.Amount)
		assert.Equal(t, "2026-05-01", resp.DueDate)
		assert.Equal(t, "cashier-1", resp.ReceivedBy)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		svc, repo, _ := newCheckService()
		_, err := svc.CreateCheck(ctx, CreateCheckRequest{
			CheckType: "physical", CheckNumber: "1", BankName: "B", Amount: "1",
			IssueDate: "01/04/2026", DueDate: "2026-05-01", IssuerName: "X",
		}, "cashier-1")
		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, _, _ := newCheckService()
		_, err := svc.CreateCheck(ctx, CreateCheckRequest{
			CheckType: "physical", CheckNumber: "1", BankName: "B", Amount: "0",
			IssueDate: "2026-04-01", DueDate: "2026-05-01", IssuerName: "X",
		}, "cashier-1")
		assert.Equal(t, shared.CodeInvalidAmount, shared.ErrorCode(err))
	})
}

func TestCheckService_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit stamps date from clock", func(t *testing.T) {
		svc, repo, publisher := newCheckService()
		check := pendingCheck(t, fixedNow.AddDate(0, 0, 5))
		repo.On("FindByID", ctx, check.ID).Return(check, nil)
		repo.On("Save", ctx, check).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.DepositCheck(ctx, check.ID, DepositCheckRequest{DepositAccountID: "acc-1"})
		require.NoError(t, err)
		assert.Equal(t, "deposited", resp.Status)
		require.NotNil(t, resp.DepositDate)
		assert.Equal(t, fixedNow, *resp.DepositDate)
	})

	t.Run("endorse", func(t *testing.T) {
		svc, repo, publisher := newCheckService()
		check := pendingCheck(t, fixedNow)
		repo.On("FindByID", ctx, check.ID).Return(check, nil)
		repo.On("Save", ctx, check).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.EndorseCheck(ctx, check.ID, EndorseCheckRequest{EndorsedTo: "Mayorista Tornillos"})
		require.NoError(t, err)
		assert.Equal(t, "endorsed", resp.Status)
		assert.Equal(t, "Mayorista Tornillos", *resp.EndorsedTo)
	})

	t.Run("reject of an already deposited check is invalid", func(t *testing.T) {
		svc, repo, _ := newCheckService()
		check := pendingCheck(t, fixedNow)
		require.NoError(t, check.Deposit("acc-1", fixedNow))
		repo.On("FindByID", ctx, check.ID).Return(check, nil)

		_, err := svc.RejectCheck(ctx, check.ID, RejectCheckRequest{Reason: "sin fondos"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown check", func(t *testing.T) {
		svc, repo, _ := newCheckService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.DepositCheck(ctx, id, DepositCheckRequest{DepositAccountID: "acc-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCheckService_GetChecksWithAlerts(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	svc, repo, _ := newCheckService()
	overdue := pendingCheck(t, today.AddDate(0, 0, -1))
	urgent := pendingCheck(t, today)
	warning := pendingCheck(t, today.AddDate(0, 0, 7))
	normal := pendingCheck(t, today.AddDate(0, 0, 8))
	repo.On("FindPending", ctx).Return([]wallet.Check{*normal, *urgent, *overdue, *warning}, nil)

	alerts, err := svc.GetChecksWithAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	assert.Equal(t, overdue.ID, alerts[0].ID)
	assert.Equal(t, "overdue", alerts[0].AlertLevel)
	assert.Equal(t, -1, alerts[0].DaysUntilDue)
	assert.True(t, alerts[0].IsOverdue)

	assert.Equal(t, "urgent", alerts[1].AlertLevel)
	assert.Equal(t, 0, alerts[1].DaysUntilDue)
	assert.Equal(t, "warning", alerts[2].AlertLevel)
	assert.Equal(t, "normal", alerts[3].AlertLevel)
	assert.Equal(t, 8, alerts[3].DaysUntilDue)
}

func TestCheckService_ListChecks(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCheckService()

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == wallet.CheckStatusPending && f.OrderBy == "due_date"
	})).Return([]wallet.Check{*pendingCheck(t, fixedNow)}, nil)

	checks, err := svc.ListChecks(ctx, CheckListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, checks, 1)

	_, err = svc.ListChecks(ctx, CheckListFilter{Status: "lost"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
