package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"outland-server/internal/game"
	"outland-server/internal/models"
	"outland-server/internal/service"
)

func (h *CoreHandler) createAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	acc, err := h.service.CreateAccount(c.Request().Context(), userID, req.Handle)
	if err != nil {
		if !errors.Is(err, service.ErrAccountAlreadyExists) {
			h.logger.Error("Error creating account", zap.String("userID", userID.String()), zap.Error(err))
		}
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, acc)
}

func (h *CoreHandler) getAccountState(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	state, err := h.service.GetAccountState(c.Request().Context(), userID)
	if err != nil {
		if !errors.Is(err, models.ErrAccountNotFound) {
			h.logger.Error("Error reading account state", zap.String("userID", userID.String()), zap.Error(err))
		}
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, state)
}

func (h *CoreHandler) listMissions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	missions, err := h.service.ListMissions(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, missions)
}

func (h *CoreHandler) executeContract(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid mission ID format"})
	}

	res, err := h.service.ExecuteContract(c.Request().Context(), userID, missionID)
	if err != nil {
		var pre *game.PreconditionError
		if !errors.As(err, &pre) && !errors.Is(err, models.ErrMissionNotFound) && !errors.Is(err, models.ErrAccountNotFound) {
			h.logger.Error("Error executing contract",
				zap.String("userID", userID.String()),
				zap.String("missionID", missionID.String()),
				zap.Error(err))
		}
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

func (h *CoreHandler) scoutOpponents(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	var req scoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	opponents, err := h.service.ScoutOpponents(c.Request().Context(), userID, req.Count)
	if err != nil {
		h.logger.Error("Error scouting opponents", zap.String("userID", userID.String()), zap.Error(err))
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, opponents)
}

func (h *CoreHandler) engageOpponent(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	opponentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid opponent ID format"})
	}

	res, err := h.service.EngageOpponent(c.Request().Context(), userID, opponentID)
	if err != nil {
		var pre *game.PreconditionError
		var cooldown *service.CooldownError
		if !errors.As(err, &pre) && !errors.As(err, &cooldown) && !errors.Is(err, models.ErrOpponentNotFound) {
			h.logger.Error("Error engaging opponent",
				zap.String("userID", userID.String()),
				zap.String("opponentID", opponentID.String()),
				zap.Error(err))
		}
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

func (h *CoreHandler) applyOutpostEffects(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	report, err := h.service.ApplyOutpostEffects(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Error applying outpost effects", zap.String("userID", userID.String()), zap.Error(err))
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

func (h *CoreHandler) collectOutpostIncome(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid facility ID format"})
	}

	res, err := h.service.CollectOutpostIncome(c.Request().Context(), userID, facilityID)
	if err != nil {
		if !errors.Is(err, models.ErrFacilityNotFound) && !errors.Is(err, models.ErrForbidden) {
			h.logger.Error("Error collecting outpost income",
				zap.String("userID", userID.String()),
				zap.String("facilityID", facilityID.String()),
				zap.Error(err))
		}
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

func (h *CoreHandler) setEquipped(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	holdingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid holding ID format"})
	}

	var req equipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}

	if err := h.service.SetEquipped(c.Request().Context(), userID, holdingID, req.Equipped); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CoreHandler) listResolutionLogs(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid 'limit' parameter"})
		}
	}

	logs, err := h.service.ListResolutionLogs(c.Request().Context(), userID, limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}
