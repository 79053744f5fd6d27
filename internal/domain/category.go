package domain

import "time"

// BuiltinCategories are the post categories that need no storage, in display order.
var BuiltinCategories = []string{
	"volunteers-needed",
	"feature-request",
	"concern",
	"question",
	"update",
	"announcement",
}

func IsBuiltinCategory(name string) bool {
	for _, c := range BuiltinCategories {
		if c == name {
			return true
		}
	}
	return false
}

// CustomCategory is a member-coined post category. Name is the normalized
// natural key; DisplayName keeps the creator's spelling.
type CustomCategory struct {
	ID          CategoryID `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	CreatedBy   MemberID   `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UsageCount  int        `json:"usageCount"`
	Verified    bool       `json:"verified"`
}
