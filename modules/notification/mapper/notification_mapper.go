package mapper

import (
	coreDto "smart-schedule/core/dto"
	"smart-schedule/modules/notification/dto"
	"smart-schedule/modules/notification/entity"
)

func ToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToPaginatedNotificationDTO(page *entity.PaginatedNotificationEntity) *dto.PaginatedNotificationDTO {
	items := make([]dto.NotificationResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToNotificationResponse(&page.Items[i]))
	}
	return coreDto.NewPagination(items, page.TotalItems, page.PageNumber, page.PageSize)
}
