package handlers

import (
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/pkg/dto"
)

func toEventResponse(e *models.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Location:          e.Location,
		RequiredSkills:    e.RequiredSkills,
		Urgency:           e.Urgency,
		EventDate:         models.FormatDate(e.EventDate),
		VolunteerLimit:    e.VolunteerLimit,
		Status:            e.Status,
		CurrentVolunteers: e.CurrentVolunteers,
		CreatedAt:         e.CreatedAt,
	}
}

func toInviteResponse(i *models.Invite) dto.InviteResponse {
	resp := dto.InviteResponse{
		ID:        i.ID,
		EventID:   i.EventID,
		UserID:    i.UserID,
		Status:    i.Status,
		Type:      i.Type,
		Completed: i.Completed,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
	if i.Event != nil {
		event := toEventResponse(i.Event)
		resp.Event = &event
	}
	return resp
}

func toProfileResponse(p *models.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:       p.UserID,
		FullName:     p.FullName,
		Address1:     p.Address1,
		Address2:     p.Address2,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
		Phone:        p.Phone,
		Skills:       p.Skills,
		Availability: p.Availability,
		Preferences:  p.Preferences,
		UpdatedAt:    p.UpdatedAt,
	}
}
