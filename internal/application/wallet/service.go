package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/domain/shared/valueobject"
	"github.com/ferreteria/backoffice/internal/domain/wallet"
)

// CheckService manages the check wallet and computes due-date alerts on read
type CheckService struct {
	checkRepo      wallet.CheckRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
	location       *time.Location
}

// NewCheckService creates a new CheckService
func NewCheckService(checkRepo wallet.CheckRepository, logger *zap.Logger) *CheckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckService{
		checkRepo: checkRepo,
		logger:    logger.Named("wallet"),
		now:       time.Now,
		location:  time.UTC,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CheckService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock replaces the time source (tests)
func (s *CheckService) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation sets the timezone "today" is evaluated in
func (s *CheckService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

func (s *CheckService) publishDomainEvents(ctx context.Context, check *wallet.Check) {
	events := check.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("check_id", check.ID.String()),
			zap.Error(err),
		)
	}
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// CreateCheck stores a received check as pending
func (s *CheckService) CreateCheck(ctx context.Context, req CreateCheckRequest, actorID string) (*CheckResponse, error) {
	amount, err := valueobject.ParsePositiveAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	issueDate, err := parseDate("issueDate", req.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}

	check, err := wallet.NewCheck(wallet.NewCheckInput{
		CheckType:   wallet.CheckType(req.CheckType),
		CheckNumber: req.CheckNumber,
		BankName:    req.BankName,
		Amount:      amount,
		IssueDate:   issueDate,
		DueDate:     dueDate,
		IssuerName:  req.IssuerName,
		IssuerTaxID: req.IssuerTaxID,
		Notes:       req.Notes,
		ReceivedBy:  actorID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkRepo.Save(ctx, check); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, check)

	response := ToCheckResponse(check)
	return &response, nil
}

// GetCheck retrieves a check by ID
func (s *CheckService) GetCheck(ctx context.Context, id uuid.UUID) (*CheckResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCheckResponse(check)
	return &response, nil
}

// ListChecks lists checks, optionally by status, ordered by due date
func (s *CheckService) ListChecks(ctx context.Context, filter CheckListFilter) ([]CheckResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "due_date"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := wallet.CheckStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Invalid check status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
	}

	checks, err := s.checkRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]CheckResponse, len(checks))
	for i := range checks {
		responses[i] = ToCheckResponse(&checks[i])
	}
	return responses, nil
}

// transition loads a check, applies fn and saves it
func (s *CheckService) transition(ctx context.Context, id uuid.UUID, fn func(check *wallet.Check, at time.Time) error) (*CheckResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(check, s.now()); err != nil {
		return nil, err
	}
	if err := s.checkRepo.Save(ctx, check); err != nil {
		return nil, err
	}

	s.logger.Info("check status changed",
		zap.String("check_id", check.ID.String()),
		zap.String("status", check.Status.String()),
	)
	s.publishDomainEvents(ctx, check)

	response := ToCheckResponse(check)
	return &response, nil
}

// DepositCheck marks a pending check as deposited
func (s *CheckService) DepositCheck(ctx context.Context, id uuid.UUID, req DepositCheckRequest) (*CheckResponse, error) {
	return s.transition(ctx, id, func(check *wallet.Check, at time.Time) error {
		return check.Deposit(req.DepositAccountID, at)
	})
}

// EndorseCheck marks a pending check as endorsed to a third party
func (s *CheckService) EndorseCheck(ctx context.Context, id uuid.UUID, req EndorseCheckRequest) (*CheckResponse, error) {
	return s.transition(ctx, id, func(check *wallet.Check, at time.Time) error {
		return check.Endorse(req.EndorsedTo, at)
	})
}

// RejectCheck marks a pending check as rejected
func (s *CheckService) RejectCheck(ctx context.Context, id uuid.UUID, req RejectCheckRequest) (*CheckResponse, error) {
	return s.transition(ctx, id, func(check *wallet.Check, at time.Time) error {
		return check.Reject(req.Reason, at)
	})
}

// GetChecksWithAlerts classifies every pending check against today.
// Nothing is persisted; the result is recomputed on each call.
func (s *CheckService) GetChecksWithAlerts(ctx context.Context) ([]CheckAlertResponse, error) {
	checks, err := s.checkRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	alerts := wallet.BuildAlerts(checks, s.now(), s.location)
	responses := make([]CheckAlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToCheckAlertResponse(&alerts[i])
	}
	return responses, nil
}
