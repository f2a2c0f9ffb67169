package get_stats

import (
	"errors"
	"net/http"

	"github.com/vkarpenko/shine-booking/internal/api/handlers"
	getStats "github.com/vkarpenko/shine-booking/internal/usecase/get_stats"
)

const (
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPeriod = "некорректный период"
)

type Handler struct {
	useCase GetStatsUseCase
	logger  Logger
}

func NewHandler(useCase GetStatsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stats
// Query params: from (YYYY-MM-DD), to (YYYY-MM-DD) - опциональны,
// по умолчанию последние 30 дней
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	useCaseReq, err := ToUseCaseRequest(query.Get("from"), query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /stats - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getStats.ErrInvalidInput):
			h.logger.Warn("GET /stats - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /stats - Failed to get stats: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stats - Stats retrieved successfully: period=%s..%s, total=%d",
		result.From.Format("2006-01-02"), result.To.Format("2006-01-02"), result.TotalReservations)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
