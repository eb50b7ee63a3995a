package discovery

import (
	"math"
	"slices"

	"github.com/nexushq/discovery/internal/ranking"
)

// circleRecommendationScore computes the personalization contribution for a
// circle: an interest-category match, a capped collaborative signal from the
// number of circles the user already joined, and a previously-viewed bonus.
func circleRecommendationScore(c Circle, rc *RecommendationContext, w ranking.CircleWeights) float64 {
	var score float64

	if slices.Contains(rc.UserInterests, c.Category) {
		score += w.InterestMatch
	}

	if joined := len(rc.JoinedCircleIDs); joined > 0 {
		score += math.Min(w.JoinedSignalCap, float64(joined)*w.JoinedSignalPerCircle)
	}

	if slices.Contains(rc.InteractionHistory.CircleViews, c.ID) {
		score += w.ViewedBonus
	}

	return score
}

// meetupRecommendationScore computes the personalization contribution for a
// meetup. Membership in the meetup's circle is the strongest signal.
func meetupRecommendationScore(m Meetup, rc *RecommendationContext, w ranking.MeetupWeights) float64 {
	var score float64

	if slices.Contains(rc.JoinedCircleIDs, m.CircleID) {
		score += w.OwnCircle
	}

	if attended := len(rc.AttendedMeetupIDs); attended > 0 {
		score += math.Min(w.AttendanceSignalCap, float64(attended))
	}

	if slices.Contains(rc.InteractionHistory.MeetupViews, m.ID) {
		score += w.ViewedBonus
	}

	return score
}
