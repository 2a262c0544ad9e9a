package handlers

import (
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type EventHandler struct {
	eventService    EventServiceInterface
	matchingService MatchingServiceInterface
	logger          *zap.Logger
}

func NewEventHandler(eventService EventServiceInterface, matchingService MatchingServiceInterface, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService:    eventService,
		matchingService: matchingService,
		logger:          logger,
	}
}

func eventInput(c *drift.Context) (services.EventInput, bool) {
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return services.EventInput{}, false
	}

	date, err := models.ParseDate(req.EventDate)
	if err != nil {
		writeError(c, 422, codeValidation, "event_date must use YYYY-MM-DD")
		return services.EventInput{}, false
	}

	return services.EventInput{
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		RequiredSkills: req.RequiredSkills,
		Urgency:        req.Urgency,
		EventDate:      date,
		VolunteerLimit: req.VolunteerLimit,
	}, true
}

// List closes stale events before returning the full listing.
func (h *EventHandler) List(c *drift.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list events", err)
		return
	}

	response := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		response = append(response, toEventResponse(&events[i]))
	}
	_ = c.JSON(200, response)
}

func (h *EventHandler) Create(c *drift.Context) {
	in, ok := eventInput(c)
	if !ok {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "create event", err)
		return
	}

	_ = c.JSON(201, toEventResponse(event))
}

func (h *EventHandler) Get(c *drift.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get event", err, zap.String("event_id", id.String()))
		return
	}

	_ = c.JSON(200, toEventResponse(event))
}

func (h *EventHandler) Update(c *drift.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	in, ok := eventInput(c)
	if !ok {
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "update event", err, zap.String("event_id", id.String()))
		return
	}

	_ = c.JSON(200, toEventResponse(event))
}

func (h *EventHandler) Delete(c *drift.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete event", err, zap.String("event_id", id.String()))
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "event deleted"})
}

// Matches lists the volunteers whose skills and availability fit the event.
func (h *EventHandler) Matches(c *drift.Context) {
	id, ok := parseID(c, "eventId")
	if !ok {
		return
	}

	volunteers, err := h.matchingService.FindMatches(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "find matches", err, zap.String("event_id", id.String()))
		return
	}

	response := make([]dto.VolunteerResponse, 0, len(volunteers))
	for _, v := range volunteers {
		item := dto.VolunteerResponse{ID: v.ID, Email: v.Email}
		if v.Profile != nil {
			item.FullName = v.Profile.FullName
			item.Skills = v.Profile.Skills
			item.Availability = v.Profile.Availability
		}
		response = append(response, item)
	}

	_ = c.JSON(200, response)
}
