package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Request модели

// CreateSessionTypeRequest запрос на создание типа сессии
type CreateSessionTypeRequest struct {
	OwnerID            int64    `json:"-"`
	Key                string   `json:"key" validate:"required,max=64"`
	Name               string   `json:"name" validate:"required,max=200"`
	Description        *string  `json:"description,omitempty"`
	Color              string   `json:"color" validate:"omitempty,hexcolor"`
	Price              *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationMinutes    int      `json:"durationMinutes" validate:"required,gt=0"`
	BufferAfterMinutes int      `json:"bufferAfterMinutes" validate:"gte=0"`
	MaxParticipants    *int     `json:"maxParticipants,omitempty" validate:"omitempty,gt=0"`
	LocationType       string   `json:"locationType" validate:"required"`
	DefaultLocation    *string  `json:"defaultLocation,omitempty"`
	RequiresApproval   bool     `json:"requiresApproval"`
	AutoConfirm        bool     `json:"autoConfirm"`
	MinNoticeHours     *int     `json:"minNoticeHours,omitempty" validate:"omitempty,gte=0"`
	MaxAdvanceDays     *int     `json:"maxAdvanceDays,omitempty" validate:"omitempty,gte=0"`
	IsPublic           *bool    `json:"isPublic,omitempty"` // По умолчанию true
}

// UpdateSessionTypeRequest частичное обновление, nil поля не меняются
type UpdateSessionTypeRequest struct {
	OwnerID            int64    `json:"-"`
	Key                *string  `json:"key,omitempty" validate:"omitempty,max=64"`
	Name               *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description        *string  `json:"description,omitempty"`
	Color              *string  `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Price              *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationMinutes    *int     `json:"durationMinutes,omitempty" validate:"omitempty,gt=0"`
	BufferAfterMinutes *int     `json:"bufferAfterMinutes,omitempty" validate:"omitempty,gte=0"`
	MaxParticipants    *int     `json:"maxParticipants,omitempty" validate:"omitempty,gt=0"`
	LocationType       *string  `json:"locationType,omitempty"`
	DefaultLocation    *string  `json:"defaultLocation,omitempty"`
	RequiresApproval   *bool    `json:"requiresApproval,omitempty"`
	AutoConfirm        *bool    `json:"autoConfirm,omitempty"`
	MinNoticeHours     *int     `json:"minNoticeHours,omitempty" validate:"omitempty,gte=0"`
	MaxAdvanceDays     *int     `json:"maxAdvanceDays,omitempty" validate:"omitempty,gte=0"`
	IsPublic           *bool    `json:"isPublic,omitempty"`
	IsActive           *bool    `json:"isActive,omitempty"`
}

// Response модели

// SessionTypeResponse ответ с данными типа сессии
type SessionTypeResponse struct {
	ID                 int64     `json:"id"`
	Key                string    `json:"key"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	Color              string    `json:"color"`
	Price              *float64  `json:"price,omitempty"`
	DurationMinutes    int       `json:"durationMinutes"`
	BufferAfterMinutes int       `json:"bufferAfterMinutes"`
	MaxParticipants    *int      `json:"maxParticipants,omitempty"`
	LocationType       string    `json:"locationType"`
	DefaultLocation    *string   `json:"defaultLocation,omitempty"`
	RequiresApproval   bool      `json:"requiresApproval"`
	AutoConfirm        bool      `json:"autoConfirm"`
	MinNoticeHours     *int      `json:"minNoticeHours,omitempty"`
	MaxAdvanceDays     *int      `json:"maxAdvanceDays,omitempty"`
	IsPublic           bool      `json:"isPublic"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SessionTypeListResponse ответ со списком типов сессий
type SessionTypeListResponse struct {
	SessionTypes []SessionTypeResponse `json:"sessionTypes"`
}

// Методы конвертации

// ToDomain конвертирует запрос в domain модель
func (r *CreateSessionTypeRequest) ToDomain() *domain.SessionType {
	st := &domain.SessionType{
		OwnerID:            r.OwnerID,
		Key:                strings.TrimSpace(r.Key),
		Name:               strings.TrimSpace(r.Name),
		Description:        r.Description,
		Color:              r.Color,
		Price:              r.Price,
		DurationMinutes:    r.DurationMinutes,
		BufferAfterMinutes: r.BufferAfterMinutes,
		MaxParticipants:    r.MaxParticipants,
		LocationType:       domain.LocationType(r.LocationType),
		DefaultLocation:    r.DefaultLocation,
		RequiresApproval:   r.RequiresApproval,
		AutoConfirm:        r.AutoConfirm,
		MinNoticeHours:     r.MinNoticeHours,
		MaxAdvanceDays:     r.MaxAdvanceDays,
		IsPublic:           true,
		IsActive:           true,
	}
	if r.IsPublic != nil {
		st.IsPublic = *r.IsPublic
	}
	return st
}

// ApplyTo применяет обновления к существующему типу сессии
func (r *UpdateSessionTypeRequest) ApplyTo(st *domain.SessionType) {
	if r.Key != nil {
		st.Key = strings.TrimSpace(*r.Key)
	}
	if r.Name != nil {
		st.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		st.Description = r.Description
	}
	if r.Color != nil {
		st.Color = *r.Color
	}
	if r.Price != nil {
		st.Price = r.Price
	}
	if r.DurationMinutes != nil {
		st.DurationMinutes = *r.DurationMinutes
	}
	if r.BufferAfterMinutes != nil {
		st.BufferAfterMinutes = *r.BufferAfterMinutes
	}
	if r.MaxParticipants != nil {
		st.MaxParticipants = r.MaxParticipants
	}
	if r.LocationType != nil {
		st.LocationType = domain.LocationType(*r.LocationType)
	}
	if r.DefaultLocation != nil {
		st.DefaultLocation = r.DefaultLocation
	}
	if r.RequiresApproval != nil {
		st.RequiresApproval = *r.RequiresApproval
	}
	if r.AutoConfirm != nil {
		st.AutoConfirm = *r.AutoConfirm
	}
	if r.MinNoticeHours != nil {
		st.MinNoticeHours = r.MinNoticeHours
	}
	if r.MaxAdvanceDays != nil {
		st.MaxAdvanceDays = r.MaxAdvanceDays
	}
	if r.IsPublic != nil {
		st.IsPublic = *r.IsPublic
	}
	if r.IsActive != nil {
		st.IsActive = *r.IsActive
	}
}

// FromDomain конвертирует domain модель в DTO
func FromDomain(st *domain.SessionType) *SessionTypeResponse {
	if st == nil {
		return nil
	}
	return &SessionTypeResponse{
		ID:                 st.ID,
		Key:                st.Key,
		Name:               st.Name,
		Description:        st.Description,
		Color:              st.Color,
		Price:              st.Price,
		DurationMinutes:    st.DurationMinutes,
		BufferAfterMinutes: st.BufferAfterMinutes,
		MaxParticipants:    st.MaxParticipants,
		LocationType:       string(st.LocationType),
		DefaultLocation:    st.DefaultLocation,
		RequiresApproval:   st.RequiresApproval,
		AutoConfirm:        st.AutoConfirm,
		MinNoticeHours:     st.MinNoticeHours,
		MaxAdvanceDays:     st.MaxAdvanceDays,
		IsPublic:           st.IsPublic,
		IsActive:           st.IsActive,
		CreatedAt:          st.CreatedAt,
		UpdatedAt:          st.UpdatedAt,
	}
}

// FromDomainList конвертирует список domain моделей в DTO
func FromDomainList(list []*domain.SessionType) *SessionTypeListResponse {
	resp := &SessionTypeListResponse{
		SessionTypes: make([]SessionTypeResponse, 0, len(list)),
	}
	for _, st := range list {
		resp.SessionTypes = append(resp.SessionTypes, *FromDomain(st))
	}
	return resp
}
