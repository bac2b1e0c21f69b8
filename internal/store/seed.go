package store

import (
	"time"

	"github.com/sadopc/datamgr/internal/model"
)

// DefaultTags is the tag list used on first run.
func DefaultTags() []model.Tag {
	return []model.Tag{
		{ID: "1", Name: "Important", Color: "red"},
		{ID: "2", Name: "Work", Color: "blue"},
		{ID: "3", Name: "Personal", Color: "purple"},
		{ID: "4", Name: "Urgent", Color: "orange"},
		{ID: "5", Name: "Review", Color: "amber"},
		{ID: "6", Name: "Done", Color: "green"},
	}
}

// DefaultEntries is the entry list used on first run, stamped with now.
func DefaultEntries(now time.Time) []model.Entry {
	ts := model.Timestamp(now)
	return []model.Entry{
		{
			ID:          "1",
			Country:     "US",
			MachineID:   "SRV-2024-001",
			Description: "Complete the API documentation for the new features",
			Category:    "Documentation",
			Priority:    model.PriorityHigh,
			Status:      model.StatusActive,
			Tags:        []string{"1", "2"},
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		{
			ID:          "2",
			Country:     "DE",
			MachineID:   "SRV-2024-002",
			Description: "Review the new dashboard designs with the team",
			Category:    "Meetings",
			Priority:    model.PriorityMedium,
			Status:      model.StatusPending,
			Tags:        []string{"2", "5"},
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		{
			ID:          "3",
			Country:     "JP",
			MachineID:   "SRV-2024-003",
			Description: "Fix the authentication bug reported by users",
			Category:    "Development",
			Priority:    model.PriorityHigh,
			Status:      model.StatusActive,
			Tags:        []string{"1", "4"},
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		{
			ID:          "4",
			Country:     "GB",
			MachineID:   "SRV-2024-004",
			Description: "Prepare the weekly progress report",
			Category:    "Reports",
			Priority:    model.PriorityLow,
			Status:      model.StatusCompleted,
			Tags:        []string{"2", "6"},
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
	}
}
