package repository

import (
	"time"

	"oneshot-backend/internal/domains/profile/model"
)

// SeedProfiles are the demo records the memory store starts with.
func SeedProfiles() []*model.AthleteProfile {
	return []*model.AthleteProfile{
		{
			ID:              "1",
			FullName:        "Jordan Davis",
			PrimaryPosition: "Quarterback",
			HighSchoolName:  "Lincoln High",
			GraduationYear:  2024,
			UserID:          "user123",
			Slug:            "jordan-davis",
			Public:          true,
			CreatedAt:       time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:              "2",
			FullName:        "Riley Smith",
			PrimaryPosition: "Wide Receiver",
			HighSchoolName:  "Westview Academy",
			GraduationYear:  2025,
			UserID:          "user456",
			Slug:            "riley-smith",
			Public:          false,
			CreatedAt:       time.Date(2023, 10, 15, 14, 30, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2023, 10, 15, 14, 30, 0, 0, time.UTC),
		},
	}
}
