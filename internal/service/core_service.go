package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outland-server/internal/game"
	"outland-server/internal/messaging"
	"outland-server/internal/models"
	"outland-server/internal/repository"
)

// Максимум повторов коммита при проигранной гонке версий: перечитываем
// состояние, заново проверяем предусловия и резолвим.
const maxCommitRetries = 3

// TxManager abstracts the transaction runner so the service can be tested
// against mocks without a live pool.
type TxManager interface {
	Pool() repository.DBTX
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.DBTX) error) error
}

// AccountState - снимок состояния аккаунта для наблюдения: аккаунт после
// принудительного регена плюс разбивка боевой силы.
type AccountState struct {
	Account *models.Account     `json:"account"`
	Power   game.PowerBreakdown `json:"power"`
}

// ContractResult - исход выполнения контракта вместе с состоянием после
// коммита.
type ContractResult struct {
	Outcome   *game.ContractOutcome `json:"outcome"`
	LeveledUp bool                  `json:"leveled_up"`
	LootItem  *models.Item          `json:"loot_item,omitempty"`
	Account   *models.Account       `json:"account"`
}

// SkirmishResult - исход стычки вместе с состоянием после коммита.
type SkirmishResult struct {
	Outcome   *game.CombatOutcome `json:"outcome"`
	Opponent  *models.Opponent    `json:"opponent"`
	LeveledUp bool                `json:"leveled_up"`
	LootItem  *models.Item        `json:"loot_item,omitempty"`
	Account   *models.Account     `json:"account"`
}

// CollectResult - результат явного сбора дохода аутпоста.
type CollectResult struct {
	FacilityID uuid.UUID       `json:"facility_id"`
	Credits    int64           `json:"credits"`
	Account    *models.Account `json:"account"`
}

// OutpostReport - результат прохода начисления эффектов аутпостов.
type OutpostReport struct {
	Accrual *game.AccrualResult `json:"accrual"`
	Items   []*models.Item      `json:"items,omitempty"`
	Account *models.Account     `json:"account"`
}

// CoreService is the transport-agnostic surface of the resolution core:
// one method per resolver plus the observation and onboarding operations.
type CoreService interface {
	// CreateAccount onboards a new account with fixed starting values.
	CreateAccount(ctx context.Context, userID uuid.UUID, handle string) (*models.Account, error)

	// GetAccountState forces a regen tick and returns the current state.
	GetAccountState(ctx context.Context, userID uuid.UUID) (*AccountState, error)

	// ListMissions returns catalog missions within the account's level reach.
	ListMissions(ctx context.Context, userID uuid.UUID) ([]*models.Mission, error)

	// ExecuteContract resolves one mission run.
	ExecuteContract(ctx context.Context, userID, missionID uuid.UUID) (*ContractResult, error)

	// ScoutOpponents generates ephemeral opponents around the account level.
	ScoutOpponents(ctx context.Context, userID uuid.UUID, count int) ([]*models.Opponent, error)

	// EngageOpponent resolves a skirmish against a previously scouted opponent.
	EngageOpponent(ctx context.Context, userID, opponentID uuid.UUID) (*SkirmishResult, error)

	// ApplyOutpostEffects runs the passive accrual pass over owned outposts.
	ApplyOutpostEffects(ctx context.Context, userID uuid.UUID) (*OutpostReport, error)

	// CollectOutpostIncome collects the accumulated income of one outpost.
	CollectOutpostIncome(ctx context.Context, userID, facilityID uuid.UUID) (*CollectResult, error)

	// SetEquipped flips the equipped flag on an owned holding.
	SetEquipped(ctx context.Context, userID, holdingID uuid.UUID, equipped bool) error

	// ListResolutionLogs returns recent resolver outcomes, newest first.
	ListResolutionLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ResolutionLog, error)
}

type coreService struct {
	accountRepo  repository.AccountRepository
	missionRepo  repository.MissionRepository
	itemRepo     repository.ItemRepository
	facilityRepo repository.FacilityRepository
	logRepo      repository.ResolutionLogRepository
	opponents    messaging.OpponentCache
	publisher    messaging.ResolutionEventPublisher
	tx           TxManager
	rng          game.Rand
	logger       *zap.Logger
}

// NewCoreService создает сервис ядра. Источник случайности инжектируется,
// чтобы исходы были воспроизводимы в тестах.
func NewCoreService(
	accountRepo repository.AccountRepository,
	missionRepo repository.MissionRepository,
	itemRepo repository.ItemRepository,
	facilityRepo repository.FacilityRepository,
	logRepo repository.ResolutionLogRepository,
	opponents messaging.OpponentCache,
	publisher messaging.ResolutionEventPublisher,
	tx TxManager,
	rng game.Rand,
	logger *zap.Logger,
) CoreService {
	return &coreService{
		accountRepo:  accountRepo,
		missionRepo:  missionRepo,
		itemRepo:     itemRepo,
		facilityRepo: facilityRepo,
		logRepo:      logRepo,
		opponents:    opponents,
		publisher:    publisher,
		tx:           tx,
		rng:          rng,
		logger:       logger.Named("CoreService"),
	}
}

// applyXP прогоняет начисление опыта через модуль прогрессии и
// перевычисляет денормализованное звание.
func applyXP(acc *models.Account, xpGained int) (leveledUp bool) {
	newLevel, newXP, toNext, leveledUp := game.LevelUp(acc.Level, acc.XP, xpGained)
	acc.Level = newLevel
	acc.XP = newXP
	acc.XPToNext = toNext
	acc.Rank = game.RankForLevel(newLevel)
	return leveledUp
}

// spendCharge списывает заряд и сбрасывает его таймер регенерации:
// пул уменьшился, отсчет идет от момента траты.
func spendCharge(acc *models.Account, amount int, now time.Time) {
	acc.Charge -= amount
	acc.ChargeTick = now
}

func spendAdrenal(acc *models.Account, amount int, now time.Time) {
	acc.Adrenal -= amount
	acc.AdrenalTick = now
}

// loseVitality отнимает живучесть (пол - ноль) и сбрасывает ее таймер,
// если значение действительно уменьшилось.
func loseVitality(acc *models.Account, amount int, now time.Time) {
	if amount <= 0 {
		return
	}
	before := acc.Vitality
	acc.Vitality -= amount
	if acc.Vitality < 0 {
		acc.Vitality = 0
	}
	if acc.Vitality < before {
		acc.VitalityTick = now
	}
}

// publishLog - best-effort публикация лога в sink: ошибка логируется,
// но уже закоммиченную мутацию не откатывает.
func (s *coreService) publishLog(ctx context.Context, entry *models.ResolutionLog) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishResolution(ctx, entry); err != nil {
		s.logger.Warn("Failed to publish resolution log (best-effort)",
			zap.String("logID", entry.ID.String()),
			zap.Error(err))
	}
}
