package get_owner_bookings

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задает один день и имеет приоритет над startDate/endDate
func ToServiceRequest(ownerID int64, r *http.Request, loc *time.Location) (*models.ListBookingsRequest, error) {
	query := r.URL.Query()
	req := &models.ListBookingsRequest{
		OwnerID:         ownerID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if query.Get("date") != "" {
		date, err := handlers.QueryDate(r, "date", loc)
		if err != nil {
			return nil, err
		}
		req.StartDate = date
		req.EndDate = date
	} else {
		start, err := handlers.QueryDate(r, "startDate", loc)
		if err != nil {
			return nil, err
		}
		end, err := handlers.QueryDate(r, "endDate", loc)
		if err != nil {
			return nil, err
		}
		req.StartDate = start
		req.EndDate = end
	}

	if statusStr := query.Get("status"); statusStr != "" {
		req.Status = &statusStr
		// Запрос конкретного неактивного статуса без includeInactive вернул бы пустой список
		req.IncludeInactive = true
	}

	sessionTypeID, err := handlers.QueryInt64(r, "sessionTypeId")
	if err != nil {
		return nil, err
	}
	req.SessionTypeID = sessionTypeID

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = req.IncludeInactive || includeInactive
	}

	return req, nil
}
