package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"outland-server/internal/authutils"
	"outland-server/internal/game"
	"outland-server/internal/middleware"
	"outland-server/internal/models"
	"outland-server/internal/service"
)

// CoreValidator оборачивает go-playground/validator для echo.Context.Validate.
type CoreValidator struct {
	validate *validator.Validate
}

// NewCoreValidator создает валидатор запросов.
func NewCoreValidator() *CoreValidator {
	return &CoreValidator{validate: validator.New()}
}

// Validate реализует echo.Validator.
func (v *CoreValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// CoreHandler обрабатывает HTTP запросы ядра симуляции.
type CoreHandler struct {
	service           service.CoreService
	logger            *zap.Logger
	userTokenVerifier *authutils.JWTVerifier
}

// NewCoreHandler создает новый CoreHandler.
func NewCoreHandler(s service.CoreService, logger *zap.Logger, jwtSecret string) *CoreHandler {
	userVerifier, err := authutils.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create User JWT Verifier", zap.Error(err))
	}

	return &CoreHandler{
		service:           s,
		logger:            logger.Named("CoreHandler"),
		userTokenVerifier: userVerifier,
	}
}

// RegisterRoutes регистрирует маршруты ядра.
func (h *CoreHandler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewCoreValidator()

	authMiddleware := middleware.EchoAuthMiddleware(h.userTokenVerifier.VerifyToken, h.logger)

	accountsGroup := e.Group("/accounts", authMiddleware)
	{
		accountsGroup.POST("", h.createAccount)
		accountsGroup.GET("/me", h.getAccountState)
		accountsGroup.GET("/me/logs", h.listResolutionLogs)
	}

	missionsGroup := e.Group("/missions", authMiddleware)
	{
		missionsGroup.GET("", h.listMissions)
		missionsGroup.POST("/:id/execute", h.executeContract)
	}

	skirmishGroup := e.Group("/skirmish", authMiddleware)
	{
		skirmishGroup.POST("/scout", h.scoutOpponents)
		skirmishGroup.POST("/:id/engage", h.engageOpponent)
	}

	outpostsGroup := e.Group("/outposts", authMiddleware)
	{
		outpostsGroup.POST("/effects", h.applyOutpostEffects)
		outpostsGroup.POST("/:id/collect", h.collectOutpostIncome)
	}

	holdingsGroup := e.Group("/holdings", authMiddleware)
	{
		holdingsGroup.PUT("/:id/equip", h.setEquipped)
	}
}

// getUserIDFromContext извлекает userID, положенный auth middleware.
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := models.GetUserIDFromContext(c.Request().Context())
	if !ok || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("user_id не найден в контексте")
	}
	return userID, nil
}

func handleServiceError(c echo.Context, err error) error {
	var pre *game.PreconditionError
	var cooldown *service.CooldownError

	switch {
	case errors.As(err, &pre):
		// Отказ по предусловию: состояние аккаунта не позволяет операцию.
		return c.JSON(http.StatusConflict, APIError{
			Message:   pre.Error(),
			Reason:    pre.Reason,
			Required:  pre.Required,
			Available: pre.Available,
		})
	case errors.As(err, &cooldown):
		return c.JSON(http.StatusTooManyRequests, APIError{
			Message:       cooldown.Error(),
			RetryAfterSec: int(cooldown.Remaining.Seconds()),
		})
	case errors.Is(err, service.ErrAccountAlreadyExists):
		return c.JSON(http.StatusConflict, APIError{Message: err.Error()})
	case errors.Is(err, models.ErrConflict):
		return c.JSON(http.StatusConflict, APIError{Message: "Concurrent modification, please retry"})
	case errors.Is(err, models.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, APIError{Message: "Unauthorized"})
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, APIError{Message: "Forbidden"})
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrMissionNotFound),
		errors.Is(err, models.ErrOpponentNotFound),
		errors.Is(err, models.ErrFacilityNotFound):
		return c.JSON(http.StatusNotFound, APIError{Message: err.Error()})
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, APIError{Message: "Internal server error"})
	}
}
