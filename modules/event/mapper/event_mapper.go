package mapper

import (
	coreDto "smart-schedule/core/dto"
	"smart-schedule/modules/event/dto"
	"smart-schedule/modules/event/entity"
)

func ToEventResponse(e *entity.Event) *dto.EventResponse {
	if e == nil {
		return nil
	}
	resp := &dto.EventResponse{
		ID:              e.ID.String(),
		HostID:          e.HostID.String(),
		Name:            e.Name,
		Slug:            e.Slug,
		DurationMinutes: e.DurationMinutes,
		IsActive:        e.IsActive,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Description != nil {
		resp.Description = *e.Description
	}
	return resp
}

func ToPublicEventResponse(e entity.Event) dto.PublicEventResponse {
	resp := dto.PublicEventResponse{
		ID:              e.ID.String(),
		Name:            e.Name,
		Slug:            e.Slug,
		DurationMinutes: e.DurationMinutes,
	}
	if e.Description != nil {
		resp.Description = *e.Description
	}
	return resp
}

func ToPaginatedEventDTO(page *entity.PaginatedEventEntity) *dto.PaginatedEventDTO {
	items := make([]dto.EventResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *ToEventResponse(&page.Items[i]))
	}
	return coreDto.NewPagination(items, page.TotalItems, page.PageNumber, page.PageSize)
}
