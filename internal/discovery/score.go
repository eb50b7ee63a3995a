package discovery

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/nexushq/discovery/internal/geo"
	"github.com/nexushq/discovery/internal/ranking"
	"github.com/nexushq/discovery/internal/text"
)

// Relevance factor tags attached to scored results. They explain which
// scoring rules fired and carry no ranking weight of their own.
const (
	FactorNameMatch        = "name_match"
	FactorTitleMatch       = "title_match"
	FactorDescriptionMatch = "description_match"
	FactorFuzzyMatch       = "fuzzy_match"
	FactorCategoryMatch    = "category_match"
	FactorWithinDistance   = "within_distance"
	FactorPopular          = "popular"
	FactorUpcoming         = "upcoming"
	FactorHighInterest     = "high_interest"
	FactorRecommended      = "recommended"
)

// Tag thresholds: a contribution must exceed these for its diagnostic tag to
// be attached. Contributions below the threshold still count toward the score.
const (
	popularTagThreshold           = 15.0
	circleRecommendedTagThreshold = 20.0
	meetupRecommendedTagThreshold = 15.0
)

// attendancePressureRatio is the fill ratio above which a meetup counts as
// high interest.
const attendancePressureRatio = 0.7

// upcomingWindowDays is the look-ahead window for the upcoming bonus.
const upcomingWindowDays = 7.0

// ScoreCircle scores one circle against the filters and optional
// personalization context. Hard filters (category mismatch, outside the
// distance radius) collapse the score to exactly 0 with an empty factor set,
// discarding any bonuses accumulated before them. A non-positive DistanceKm
// disables location filtering entirely.
func ScoreCircle(c Circle, f SearchFilters, rc *RecommendationContext, w *ranking.Weights) SearchResult[Circle] {
	if w == nil {
		w = ranking.DefaultWeights()
	}
	cw := w.Circle

	score := cw.Base
	var factors []string

	if f.Query != "" {
		query := strings.ToLower(f.Query)
		name := strings.ToLower(c.Name)
		description := strings.ToLower(c.Description)

		if strings.Contains(name, query) {
			score += cw.NameMatch
			factors = append(factors, FactorNameMatch)
		}
		if strings.Contains(description, query) {
			score += cw.DescriptionMatch
			factors = append(factors, FactorDescriptionMatch)
		}

		// Typo tolerance, additive with the substring bonuses.
		if text.FuzzyMatch(query, name) || text.FuzzyMatch(query, description) {
			score += cw.FuzzyMatch
			factors = append(factors, FactorFuzzyMatch)
		}
	}

	if len(f.Categories) > 0 {
		if !slices.Contains(f.Categories, c.Category) {
			return SearchResult[Circle]{Item: c}
		}
		score += cw.CategoryMatch
		factors = append(factors, FactorCategoryMatch)
	}

	var distance *float64
	if f.Location != nil && c.Location != nil && f.DistanceKm > 0 {
		d := geo.Distance(*f.Location, *c.Location)
		if d > f.DistanceKm {
			return SearchResult[Circle]{Item: c}
		}
		score += math.Max(0, cw.DistanceMax-(d/f.DistanceKm)*cw.DistanceMax)
		factors = append(factors, FactorWithinDistance)
		distance = &d
	}

	popularity := math.Min(cw.PopularityCap, float64(c.MemberCount)*cw.PopularityPerMember)
	score += popularity
	if popularity > popularTagThreshold {
		factors = append(factors, FactorPopular)
	}

	if rc != nil {
		recommendation := circleRecommendationScore(c, rc, cw)
		score += recommendation
		if recommendation > circleRecommendedTagThreshold {
			factors = append(factors, FactorRecommended)
		}
	}

	return SearchResult[Circle]{
		Item:             c,
		Score:            score,
		DistanceKm:       distance,
		RelevanceFactors: factors,
	}
}

// ScoreMeetup scores one meetup against the filters and optional
// personalization context at the given reference time. Each hard filter
// (online-only, free-only, price range, date window, outside the distance
// radius) collapses the score to exactly 0 with an empty factor set.
// Meetup text matching is substring-only; there is no fuzzy pass.
func ScoreMeetup(m Meetup, f SearchFilters, rc *RecommendationContext, w *ranking.Weights, now time.Time) SearchResult[Meetup] {
	if w == nil {
		w = ranking.DefaultWeights()
	}
	mw := w.Meetup

	score := mw.Base
	var factors []string

	if f.Query != "" {
		query := strings.ToLower(f.Query)

		if strings.Contains(strings.ToLower(m.Title), query) {
			score += mw.TitleMatch
			factors = append(factors, FactorTitleMatch)
		}
		if strings.Contains(strings.ToLower(m.Description), query) {
			score += mw.DescriptionMatch
			factors = append(factors, FactorDescriptionMatch)
		}
	}

	if f.ShowOnlineOnly && !m.IsOnline {
		return SearchResult[Meetup]{Item: m}
	}

	price := 0.0
	if m.Price != nil {
		price = *m.Price
	}
	if f.ShowFreeOnly && price > 0 {
		return SearchResult[Meetup]{Item: m}
	}
	if f.PriceRange != nil && (price < f.PriceRange.Min || price > f.PriceRange.Max) {
		return SearchResult[Meetup]{Item: m}
	}

	if !withinDateRange(m.Date, f.DateRange, now) {
		return SearchResult[Meetup]{Item: m}
	}

	daysUntil := m.Date.Sub(now).Hours() / 24
	if daysUntil >= 0 && daysUntil <= upcomingWindowDays {
		score += mw.Upcoming
		factors = append(factors, FactorUpcoming)
	}

	var distance *float64
	if f.Location != nil && m.Venue != nil && !m.IsOnline && f.DistanceKm > 0 {
		d := geo.Distance(*f.Location, m.Venue.Point)
		if d > f.DistanceKm {
			return SearchResult[Meetup]{Item: m}
		}
		score += math.Max(0, mw.DistanceMax-(d/f.DistanceKm)*mw.DistanceMax)
		factors = append(factors, FactorWithinDistance)
		distance = &d
	}

	if m.MaxAttendees != nil && *m.MaxAttendees > 0 {
		ratio := float64(m.CurrentAttendees) / float64(*m.MaxAttendees)
		if ratio > attendancePressureRatio {
			score += mw.HighInterest
			factors = append(factors, FactorHighInterest)
		}
	}

	if rc != nil {
		recommendation := meetupRecommendationScore(m, rc, mw)
		score += recommendation
		if recommendation > meetupRecommendedTagThreshold {
			factors = append(factors, FactorRecommended)
		}
	}

	return SearchResult[Meetup]{
		Item:             m,
		Score:            score,
		DistanceKm:       distance,
		RelevanceFactors: factors,
	}
}

// withinDateRange reports whether a meetup date falls inside the requested
// window. All windows are anchored at midnight of the current day in now's
// location. ThisMonth ends at midnight of the last day of the month,
// inclusive. Past meetups are excluded even for DateAnytime.
func withinDateRange(date time.Time, dr DateRange, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch dr {
	case DateToday:
		return !date.Before(today) && date.Before(today.Add(24*time.Hour))
	case DateThisWeek:
		return !date.Before(today) && date.Before(today.Add(7*24*time.Hour))
	case DateThisMonth:
		monthEnd := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location())
		return !date.Before(today) && !date.After(monthEnd)
	default:
		return !date.Before(today)
	}
}
