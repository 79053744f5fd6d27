package domain

import "time"

type Availability string

const (
	AvailabilityWeekends Availability = "weekends"
	AvailabilityEvenings Availability = "evenings"
	AvailabilityWeekdays Availability = "weekdays"
	AvailabilityFlexible Availability = "flexible"
	AvailabilityLimited  Availability = "limited"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityWeekends, AvailabilityEvenings, AvailabilityWeekdays, AvailabilityFlexible, AvailabilityLimited:
		return true
	default:
		return false
	}
}

// VolunteerProfile extends a Member with volunteering details.
// HoursContributed and ProjectsParticipated start at zero.
type VolunteerProfile struct {
	ID                   VolunteerID  `json:"id"`
	MemberID             MemberID     `json:"memberId"`
	Skills               []string     `json:"skills"`
	Availability         Availability `json:"availability"`
	PreferredJobs        []string     `json:"preferredJobs"`
	Bio                  *string      `json:"bio,omitempty"`
	HoursContributed     int          `json:"hoursContributed"`
	ProjectsParticipated int          `json:"projectsParticipated"`
	CreatedAt            time.Time    `json:"createdAt"`
}
