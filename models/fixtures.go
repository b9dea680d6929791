package models

import "time"

func mustTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(value string) *time.Time {
	t := mustTime(value)
	return &t
}

// SeedUser is the account every stub login resolves to.
func SeedUser() User {
	return User{
		ID:         "1",
		Email:      "admin@cityportal.gov",
		Name:       "Sarah Chen",
		Role:       RoleAdmin,
		Department: "Public Works",
	}
}

// SeedIssues returns a fresh copy of the demo data set, in display order.
func SeedIssues() []Issue {
	return []Issue{
		{
			ID:          "1",
			Title:       "Large pothole on Main Street",
			Description: "Deep pothole causing vehicle damage near intersection with Oak Ave. Approximately 3 feet wide and 8 inches deep.",
			Category:    CategoryPothole,
			Priority:    PriorityHigh,
			Status:      StatusInProgress,
			Location: Location{
				Address:     "1234 Main Street, Downtown",
				Coordinates: Coordinates{Lat: 40.7128, Lng: -74.0060},
			},
			ImageURL:            "https://picsum.photos/800/600?random=1",
			ReportedBy:          Reporter{ID: "user1", Name: "John Martinez", Email: "j.martinez@email.com"},
			AssignedTo:          &Assignee{ID: "staff1", Name: "Mike Thompson", Department: "Road Maintenance"},
			CreatedAt:           mustTime("2024-01-15T08:30:00Z"),
			UpdatedAt:           mustTime("2024-01-15T14:22:00Z"),
			EstimatedResolution: timePtr("2024-01-18T17:00:00Z"),
		},
		{
			ID:          "2",
			Title:       "Broken streetlight - Park Avenue",
			Description: "Streetlight has been out for 3 days, creating safety concerns for pedestrians during evening hours.",
			Category:    CategoryStreetlight,
			Priority:    PriorityMedium,
			Status:      StatusNew,
			Location: Location{
				Address:     "567 Park Avenue, Midtown",
				Coordinates: Coordinates{Lat: 40.7589, Lng: -73.9851},
			},
			ImageURL:   "https://picsum.photos/800/600?random=2",
			ReportedBy: Reporter{ID: "user2", Name: "Emily Davis"},
			CreatedAt:  mustTime("2024-01-14T19:45:00Z"),
			UpdatedAt:  mustTime("2024-01-14T19:45:00Z"),
		},
		{
			ID:          "3",
			Title:       "Overflowing trash bins at Central Park",
			Description: "Multiple trash receptacles overflowing, attracting pests and creating unsanitary conditions.",
			Category:    CategoryTrash,
			Priority:    PriorityMedium,
			Status:      StatusAssigned,
			Location: Location{
				Address:     "Central Park, Section B",
				Coordinates: Coordinates{Lat: 40.7812, Lng: -73.9665},
			},
			ImageURL:            "https://picsum.photos/800/600?random=3",
			ReportedBy:          Reporter{ID: "user3", Name: "Robert Kim"},
			AssignedTo:          &Assignee{ID: "staff2", Name: "Lisa Rodriguez", Department: "Sanitation"},
			CreatedAt:           mustTime("2024-01-13T11:20:00Z"),
			UpdatedAt:           mustTime("2024-01-14T09:15:00Z"),
			EstimatedResolution: timePtr("2024-01-16T12:00:00Z"),
		},
		{
			ID:          "4",
			Title:       "Graffiti on public building wall",
			Description: "Large graffiti tag on the side of the community center building, visible from the main road.",
			Category:    CategoryGraffiti,
			Priority:    PriorityLow,
			Status:      StatusResolved,
			Location: Location{
				Address:     "890 Community Drive, Westside",
				Coordinates: Coordinates{Lat: 40.7420, Lng: -74.0032},
			},
			ImageURL:   "https://picsum.photos/800/600?random=4",
			ReportedBy: Reporter{ID: "user4", Name: "Angela Foster"},
			AssignedTo: &Assignee{ID: "staff3", Name: "David Wilson", Department: "Building Maintenance"},
			CreatedAt:  mustTime("2024-01-10T16:30:00Z"),
			UpdatedAt:  mustTime("2024-01-12T10:45:00Z"),
			ResolvedAt: timePtr("2024-01-12T10:45:00Z"),
		},
		{
			ID:          "5",
			Title:       "Water leak at bus stop",
			Description: "Continuous water leak from underground pipe creating puddle and potential slip hazard.",
			Category:    CategoryWaterLeak,
			Priority:    PriorityUrgent,
			Status:      StatusNew,
			Location: Location{
				Address:     "Bus Stop 15, River Road",
				Coordinates: Coordinates{Lat: 40.7505, Lng: -73.9934},
			},
			ImageURL:   "https://picsum.photos/800/600?random=5",
			ReportedBy: Reporter{ID: "user5", Name: "Marcus Johnson"},
			CreatedAt:  mustTime("2024-01-15T07:15:00Z"),
			UpdatedAt:  mustTime("2024-01-15T07:15:00Z"),
		},
		{
			ID:          "6",
			Title:       "Missing stop sign at intersection",
			Description: "Stop sign knocked down during recent storm, creating dangerous intersection.",
			Category:    CategoryTrafficSign,
			Priority:    PriorityUrgent,
			Status:      StatusInProgress,
			Location: Location{
				Address:     "Elm St & Pine Ave intersection",
				Coordinates: Coordinates{Lat: 40.7614, Lng: -73.9776},
			},
			ImageURL:            "https://picsum.photos/800/600?random=6",
			ReportedBy:          Reporter{ID: "user6", Name: "Patricia Wong"},
			AssignedTo:          &Assignee{ID: "staff4", Name: "James Brown", Department: "Traffic Management"},
			CreatedAt:           mustTime("2024-01-14T06:00:00Z"),
			UpdatedAt:           mustTime("2024-01-15T13:30:00Z"),
			EstimatedResolution: timePtr("2024-01-15T18:00:00Z"),
		},
	}
}
