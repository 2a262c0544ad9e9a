// Package matching decides which volunteers fit an event by skill overlap and
// availability on the event date.
package matching

import (
	"slices"
	"strings"

	"github.com/dimitrije/volunteer-api/internal/models"
)

// NormalizeSkill is the single comparison key for skill names: trimmed and lower-cased.
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// Match reports whether v can serve event. Admins and volunteers without a
// profile never match.
func Match(event *models.Event, v *models.Volunteer) bool {
	if v.Role != models.RoleVolunteer || v.Profile == nil {
		return false
	}
	return hasSkillOverlap(event.RequiredSkills, v.Profile.Skills) &&
		isAvailable(models.FormatDate(event.EventDate), v.Profile.Availability)
}

// FindMatches returns the matching volunteers ordered by id.
func FindMatches(event *models.Event, volunteers []models.Volunteer) []models.Volunteer {
	matches := make([]models.Volunteer, 0)
	for i := range volunteers {
		if Match(event, &volunteers[i]) {
			matches = append(matches, volunteers[i])
		}
	}
	slices.SortStableFunc(matches, func(a, b models.Volunteer) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return matches
}

func hasSkillOverlap(required, skills []string) bool {
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if key := NormalizeSkill(s); key != "" {
			have[key] = struct{}{}
		}
	}
	for _, r := range required {
		if _, ok := have[NormalizeSkill(r)]; ok {
			return true
		}
	}
	return false
}

func isAvailable(date string, availability []string) bool {
	return slices.Contains(availability, date)
}
