package domain

import "time"

type OrganizationType string

const (
	OrganizationTypeNonprofit     OrganizationType = "nonprofit"
	OrganizationTypeGrassroots    OrganizationType = "grassroots"
	OrganizationTypeSchool        OrganizationType = "school"
	OrganizationTypeUniversity    OrganizationType = "university"
	OrganizationTypeUniversityOrg OrganizationType = "university-org"
)

func (t OrganizationType) Valid() bool {
	switch t {
	case OrganizationTypeNonprofit, OrganizationTypeGrassroots, OrganizationTypeSchool,
		OrganizationTypeUniversity, OrganizationTypeUniversityOrg:
		return true
	default:
		return false
	}
}

// Organization is a civic actor (nonprofit, school, ...) registered by a member.
// Logo is an encoded image (data URL) stored as an opaque string.
type Organization struct {
	ID               OrganizationID   `json:"id"`
	OwnerID          MemberID         `json:"ownerId"`
	Name             string           `json:"name"`
	Type             OrganizationType `json:"type"`
	MissionStatement string           `json:"missionStatement"`
	TaxExempt        bool             `json:"is501c3"`
	TaxID            *string          `json:"ein,omitempty"`
	Address          string           `json:"address"`
	ContactEmail     string           `json:"contactEmail"`
	ContactPhone     *string          `json:"contactPhone,omitempty"`
	Website          *string          `json:"website,omitempty"`
	VolunteerNeeds   *string          `json:"volunteerNeeds,omitempty"`
	Logo             *string          `json:"logo,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	Verified         bool             `json:"verified"`
}

// LocalBusiness is a commercial actor registered by a member.
type LocalBusiness struct {
	ID           BusinessID `json:"id"`
	OwnerID      MemberID   `json:"ownerId"`
	Name         string     `json:"name"`
	BusinessType string     `json:"businessType"`
	Description  string     `json:"description"`
	Services     []string   `json:"services"`
	Address      string     `json:"address"`
	ContactEmail string     `json:"contactEmail"`
	ContactPhone *string    `json:"contactPhone,omitempty"`
	Website      *string    `json:"website,omitempty"`
	Hours        *string    `json:"hours,omitempty"`
	Logo         *string    `json:"logo,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Verified     bool       `json:"verified"`
}
