package cashregister

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/domain/shared/valueobject"
)

// LedgerMetrics receives ledger observations. Implemented by the telemetry package.
type LedgerMetrics interface {
	RecordSessionOpened(ctx context.Context, registerID uuid.UUID)
	RecordSessionClosed(ctx context.Context, registerID uuid.UUID, difference decimal.Decimal)
	RecordMovement(ctx context.Context, movementType string, amount decimal.Decimal)
}

// CashRegisterService runs the session manager and the movement ledger.
// Every write happens inside one TransactionScope call; domain events are
// published only after the transaction commits.
type CashRegisterService struct {
	registerRepo   cashregister.CashRegisterRepository
	sessionRepo    cashregister.SessionRepository
	movementRepo   cashregister.MovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        LedgerMetrics
	logger         *zap.Logger
}

// NewCashRegisterService creates a new CashRegisterService
func NewCashRegisterService(
	registerRepo cashregister.CashRegisterRepository,
	sessionRepo cashregister.SessionRepository,
	movementRepo cashregister.MovementRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *CashRegisterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CashRegisterService{
		registerRepo: registerRepo,
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger.Named("cashregister"),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CashRegisterService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the ledger metrics recorder
func (s *CashRegisterService) SetMetrics(metrics LedgerMetrics) {
	s.metrics = metrics
}

// publishDomainEvents publishes and clears pending events of the given aggregates.
// Publishing happens after commit; a failure is logged and never undoes the write.
func (s *CashRegisterService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, agg.PullDomainEvents()...)
	}
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

// =============================================================================
// Registers
// =============================================================================

// CreateRegister creates a new active cash register
func (s *CashRegisterService) CreateRegister(ctx context.Context, req CreateRegisterRequest) (*RegisterResponse, error) {
	register, err := cashregister.NewCashRegister(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.registerRepo.Save(ctx, register); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	response := ToRegisterResponse(register)
	return &response, nil
}

// GetRegister retrieves a cash register by ID
func (s *CashRegisterService) GetRegister(ctx context.Context, id uuid.UUID) (*RegisterResponse, error) {
	register, err := s.registerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRegisterResponse(register)
	return &response, nil
}

// ListRegisters lists cash registers
func (s *CashRegisterService) ListRegisters(ctx context.Context, filter RegisterListFilter) ([]RegisterResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	registers, err := s.registerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]RegisterResponse, len(registers))
	for i := range registers {
		responses[i] = ToRegisterResponse(&registers[i])
	}
	return responses, nil
}

// DeactivateRegister soft-deletes a register. A register with an open session
// cannot be deactivated.
func (s *CashRegisterService) DeactivateRegister(ctx context.Context, id uuid.UUID) (*RegisterResponse, error) {
	var register *cashregister.CashRegister
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		register, err = repos.RegisterRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := repos.SessionRepo().FindOpenByRegister(ctx, id); err == nil {
			return shared.NewDomainError(shared.CodeInvalidState, "Cannot deactivate a cash register with an open session")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if err := register.Deactivate(); err != nil {
			return err
		}
		return repos.RegisterRepo().Save(ctx, register)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	response := ToRegisterResponse(register)
	return &response, nil
}

// ActivateRegister re-enables a deactivated register
func (s *CashRegisterService) ActivateRegister(ctx context.Context, id uuid.UUID) (*RegisterResponse, error) {
	var register *cashregister.CashRegister
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		register, err = repos.RegisterRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := register.Activate(); err != nil {
			return err
		}
		return repos.RegisterRepo().Save(ctx, register)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	response := ToRegisterResponse(register)
	return &response, nil
}

// =============================================================================
// Sessions
// =============================================================================

// OpenSession opens a session on a register. The register row is locked for
// the duration of the check-then-insert so two concurrent opens cannot both
// see "no open session".
func (s *CashRegisterService) OpenSession(ctx context.Context, req OpenSessionRequest, actorID string) (*SessionResponse, error) {
	opening, err := valueobject.ParseNonNegativeAmount("openingBalance", req.OpeningBalance)
	if err != nil {
		return nil, err
	}

	var session *cashregister.Session
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		register, err := repos.RegisterRepo().FindByIDForUpdate(ctx, req.RegisterID)
		if err != nil {
			return err
		}

		existing, err := repos.SessionRepo().FindOpenByRegister(ctx, register.ID)
		if err == nil {
			return shared.NewDomainError(shared.CodeConflict,
				"Cash register already has an open session ("+existing.ID.String()+")")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		session, err = cashregister.OpenSession(register, opening, actorID)
		if err != nil {
			return err
		}
		return repos.SessionRepo().Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cash session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("register_id", session.RegisterID.String()),
		zap.String("opening_balance", valueobject.FormatAmount(opening)),
		zap.String("opened_by", session.OpenedBy),
	)
	if s.metrics != nil {
		s.metrics.RecordSessionOpened(ctx, session.RegisterID)
	}
	s.publishDomainEvents(ctx, session)

	response := ToSessionResponse(session)
	return &response, nil
}

// CloseSession reconciles the counted cash against the replayed ledger,
// closes the session and moves the counted cash into the register balance.
func (s *CashRegisterService) CloseSession(ctx context.Context, sessionID uuid.UUID, req CloseSessionRequest, actorID string) (*SessionResponse, error) {
	closing, err := valueobject.ParseNonNegativeAmount("closingBalance", req.ClosingBalance)
	if err != nil {
		return nil, err
	}
	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	var session *cashregister.Session
	var register *cashregister.CashRegister
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return shared.NewDomainError(shared.CodeAlreadyClosed, "Cash session "+sessionID.String()+" is already closed")
		}

		movements, err := repos.MovementRepo().FindBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		if verr := cashregister.VerifyRunningBalances(session.OpeningBalance, movements); verr != nil {
			s.logger.Error("stored running balances diverge from replay",
				zap.String("session_id", session.ID.String()),
				zap.Error(verr),
			)
		}

		if err := session.Close(actorID, closing, movements, notes); err != nil {
			return err
		}

		register, err = repos.RegisterRepo().FindByIDForUpdate(ctx, session.RegisterID)
		if err != nil {
			return err
		}
		register.ApplyClose(closing, *session.ClosedAt)

		if err := repos.SessionRepo().Save(ctx, session); err != nil {
			return err
		}
		return repos.RegisterRepo().Save(ctx, register)
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("session_id", session.ID.String()),
		zap.String("register_id", session.RegisterID.String()),
		zap.String("closing_balance", valueobject.FormatAmount(*session.ClosingBalance)),
		zap.String("expected_balance", valueobject.FormatAmount(*session.ExpectedBalance)),
		zap.String("difference", valueobject.FormatAmount(*session.Difference)),
	}
	switch {
	case session.HasShortage():
		s.logger.Warn("cash session closed short", fields...)
	case session.HasSurplus():
		s.logger.Warn("cash session closed over", fields...)
	default:
		s.logger.Info("cash session closed", fields...)
	}
	if s.metrics != nil {
		s.metrics.RecordSessionClosed(ctx, session.RegisterID, *session.Difference)
	}
	s.publishDomainEvents(ctx, session, register)

	response := ToSessionResponse(session)
	return &response, nil
}

// GetCurrentSession returns the open session of a register, or nil when none is open
func (s *CashRegisterService) GetCurrentSession(ctx context.Context, registerID uuid.UUID) (*SessionResponse, error) {
	if _, err := s.registerRepo.FindByID(ctx, registerID); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.FindOpenByRegister(ctx, registerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// ListSessions lists the sessions of a register, newest first
func (s *CashRegisterService) ListSessions(ctx context.Context, registerID uuid.UUID, page, pageSize int) ([]SessionResponse, error) {
	if _, err := s.registerRepo.FindByID(ctx, registerID); err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.OrderBy = "opened_at"
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	sessions, err := s.sessionRepo.FindByRegister(ctx, registerID, filter)
	if err != nil {
		return nil, err
	}
	return ToSessionResponses(sessions), nil
}

// GetSessionWithMovements returns a session with its whole ledger
func (s *CashRegisterService) GetSessionWithMovements(ctx context.Context, sessionID uuid.UUID) (*SessionDetailResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := cashregister.Summarize(movements)
	return &SessionDetailResponse{
		SessionResponse: ToSessionResponse(session),
		Movements:       ToMovementResponses(movements),
		TotalIncome:     valueobject.FormatAmount(summary.TotalIncome),
		TotalExpense:    valueobject.FormatAmount(summary.TotalExpense),
		Net:             valueobject.FormatAmount(summary.Net()),
	}, nil
}

// =============================================================================
// Movements
// =============================================================================

// CreateMovement appends a movement to an open session. The session row is
// locked so read-last-balance, append and register update are atomic per session.
func (s *CashRegisterService) CreateMovement(ctx context.Context, req CreateMovementRequest, actorID string) (*MovementResponse, error) {
	movementType := cashregister.MovementType(req.Type)
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Invalid movement type: " + req.Type)
	}
	amount, err := valueobject.ParsePositiveAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	var session *cashregister.Session
	var movement *cashregister.Movement
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindByIDForUpdate(ctx, req.SessionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.CodeSessionNotOpen, "Cash session "+req.SessionID.String()+" does not exist")
			}
			return err
		}
		if err := session.EnsureOpen(); err != nil {
			return err
		}

		last, err := repos.MovementRepo().FindLastBySession(ctx, session.ID)
		if err != nil {
			return err
		}

		movement, err = session.RecordMovement(req.RegisterID, last, cashregister.MovementInput{
			Type:            movementType,
			Amount:          amount,
			Category:        req.Category,
			PaymentMethodID: req.PaymentMethodID,
			SaleID:          req.SaleID,
			Description:     req.Description,
			Reference:       req.Reference,
			UserID:          actorID,
		})
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}

		register, err := repos.RegisterRepo().FindByIDForUpdate(ctx, session.RegisterID)
		if err != nil {
			return err
		}
		register.ApplyRunningBalance(movement.RunningBalance)
		return repos.RegisterRepo().Save(ctx, register)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cash movement recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("session_id", movement.SessionID.String()),
		zap.Int64("sequence", movement.Sequence),
		zap.String("type", movement.Type.String()),
		zap.String("amount", valueobject.FormatAmount(movement.Amount)),
		zap.String("running_balance", valueobject.FormatAmount(movement.RunningBalance)),
	)
	if s.metrics != nil {
		s.metrics.RecordMovement(ctx, movement.Type.String(), movement.Amount)
	}
	s.publishDomainEvents(ctx, session)

	response := ToMovementResponse(movement)
	return &response, nil
}

// ListMovements returns the ledger of a session in creation order
func (s *CashRegisterService) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]MovementResponse, error) {
	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// GetCashRegisterSummary sums the open session's movements by direction.
// Recomputed on every call. Without an open session the totals are zero.
func (s *CashRegisterService) GetCashRegisterSummary(ctx context.Context, registerID uuid.UUID) (*RegisterSummaryResponse, error) {
	register, err := s.registerRepo.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}

	response := &RegisterSummaryResponse{
		RegisterID:     register.ID,
		TotalIncome:    valueobject.FormatAmount(decimal.Zero),
		TotalExpense:   valueobject.FormatAmount(decimal.Zero),
		Net:            valueobject.FormatAmount(decimal.Zero),
		CurrentBalance: valueobject.FormatAmount(register.CurrentBalance),
	}

	session, err := s.sessionRepo.FindOpenByRegister(ctx, registerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return response, nil
		}
		return nil, err
	}
	movements, err := s.movementRepo.FindBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	summary := cashregister.Summarize(movements)
	sessionID := session.ID
	response.SessionID = &sessionID
	response.TotalIncome = valueobject.FormatAmount(summary.TotalIncome)
	response.TotalExpense = valueobject.FormatAmount(summary.TotalExpense)
	response.Net = valueobject.FormatAmount(summary.Net())
	response.MovementCount = summary.Count
	return response, nil
}
