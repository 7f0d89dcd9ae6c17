package batch_import

import (
	"net/http"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
)

const (
	msgMissingOwnerID      = "отсутствует ID владельца"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgSessionTypeNotFound = "тип сессии не найден"
)

type Handler struct {
	useCase BatchImportUseCase
	logger  Logger
}

func NewHandler(useCase BatchImportUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleParse POST /api/v1/booking/batch-import/parse
// Только проверка, хранилище не меняется
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	const route = "POST /batch-import/parse"
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing owner ID", route)
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	var req ParseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Parse(r.Context(), req.ToUseCaseRequest(ownerID))
	if err != nil {
		h.respondError(w, route, ownerID, err)
		return
	}

	h.logger.Info("%s - Parsed: owner_id=%d, valid=%d, warning=%d, error=%d",
		route, ownerID, result.Valid, result.Warning, result.Error)
	handlers.RespondJSON(w, http.StatusOK, FromParseResponse(result))
}

// HandleExecute POST /api/v1/booking/batch-import/execute
// Каждая строка резервируется отдельно, ошибка строки не откатывает предыдущие
func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	const route = "POST /batch-import/execute"
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing owner ID", route)
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	var req ExecuteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(ownerID))
	if err != nil {
		h.respondError(w, route, ownerID, err)
		return
	}

	h.logger.Info("%s - Imported: owner_id=%d, created=%d, failed=%d", route, ownerID, result.Created, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, FromExecuteResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, ownerID int64, err error) {
	if handlers.RespondDomainError(w, err, msgSessionTypeNotFound) {
		h.logger.Warn("%s - Rejected: owner_id=%d, error=%v", route, ownerID, err)
		return
	}
	h.logger.Error("%s - Failed: owner_id=%d, error=%v", route, ownerID, err)
}
