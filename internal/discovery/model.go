// Package discovery implements the discovery and recommendation search
// engine: filter-driven multi-factor scoring, ranking, short-lived result
// caching, and personalization context for circles and meetups.
package discovery

import (
	"time"

	"github.com/nexushq/discovery/internal/geo"
)

// Circle is a persistent community entity, read-only to this package.
type Circle struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	MemberCount int        `json:"member_count"`
	Location    *geo.Point `json:"location,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Venue describes where an in-person meetup takes place. It is only
// meaningful when the meetup is not online.
type Venue struct {
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Point   geo.Point `json:"point"`
}

// Meetup is a scheduled event belonging to a circle, read-only to this package.
type Meetup struct {
	ID               string    `json:"id"`
	CircleID         string    `json:"circle_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Date             time.Time `json:"date"`
	IsOnline         bool      `json:"is_online"`
	Price            *float64  `json:"price,omitempty"`
	MaxAttendees     *int      `json:"max_attendees,omitempty"`
	CurrentAttendees int       `json:"current_attendees"`
	Venue            *Venue    `json:"venue,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SearchResult pairs a scored item with its diagnostics. RelevanceFactors
// lists which scoring rules fired; it carries no ranking weight itself.
type SearchResult[T any] struct {
	Item             T        `json:"item"`
	Score            float64  `json:"score"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
	RelevanceFactors []string `json:"relevance_factors,omitempty"`
}

// InteractionHistory holds bounded, most-recent-first interaction ID lists.
// Each list is deduplicated on insert and truncated to the persistence bound.
type InteractionHistory struct {
	CircleViews       []string `json:"circle_views,omitempty" cbor:"circle_views,omitempty"`
	MeetupViews       []string `json:"meetup_views,omitempty" cbor:"meetup_views,omitempty"`
	CircleJoins       []string `json:"circle_joins,omitempty" cbor:"circle_joins,omitempty"`
	MeetupAttendances []string `json:"meetup_attendances,omitempty" cbor:"meetup_attendances,omitempty"`
}

// RecommendationContext carries optional personalization signals assembled
// by the caller from the user profile and persisted history. It biases
// scoring but is deliberately not part of the cache identity.
type RecommendationContext struct {
	UserInterests      []string           `json:"user_interests,omitempty"`
	UserLocation       *geo.Point         `json:"user_location,omitempty"`
	JoinedCircleIDs    []string           `json:"joined_circle_ids,omitempty"`
	AttendedMeetupIDs  []string           `json:"attended_meetup_ids,omitempty"`
	SearchHistory      []string           `json:"search_history,omitempty"`
	InteractionHistory InteractionHistory `json:"interaction_history"`
}
