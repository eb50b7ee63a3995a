// Package ranking provides the calibrated scoring weights used by the
// discovery search engine, with JSON calibration-file overrides.
package ranking

// CircleWeights defines the bonus magnitudes applied while scoring a circle.
// All bonuses are additive on top of Base; hard filters bypass them entirely.
type CircleWeights struct {
	Base                  float64 `json:"base"`                     // Starting score for every candidate (default: 10)
	NameMatch             float64 `json:"name_match"`               // Query substring in name (default: 50)
	DescriptionMatch      float64 `json:"description_match"`        // Query substring in description (default: 30)
	FuzzyMatch            float64 `json:"fuzzy_match"`              // Edit-distance match against name or description (default: 20)
	CategoryMatch         float64 `json:"category_match"`           // Category present in the filter set (default: 25)
	DistanceMax           float64 `json:"distance_max"`             // Bonus at zero distance, decaying linearly to the radius (default: 50)
	PopularityCap         float64 `json:"popularity_cap"`           // Upper bound on the member-count bonus (default: 30)
	PopularityPerMember   float64 `json:"popularity_per_member"`    // Bonus per member below the cap (default: 0.5)
	InterestMatch         float64 `json:"interest_match"`           // Category in the user's interests (default: 30)
	JoinedSignalPerCircle float64 `json:"joined_signal_per_circle"` // Collaborative signal per joined circle (default: 2)
	JoinedSignalCap       float64 `json:"joined_signal_cap"`        // Upper bound on the collaborative signal (default: 20)
	ViewedBonus           float64 `json:"viewed_bonus"`             // Circle previously viewed by the user (default: 15)
}

// MeetupWeights defines the bonus magnitudes applied while scoring a meetup.
type MeetupWeights struct {
	Base                float64 `json:"base"`                  // Starting score for every candidate (default: 10)
	TitleMatch          float64 `json:"title_match"`           // Query substring in title (default: 50)
	DescriptionMatch    float64 `json:"description_match"`     // Query substring in description (default: 30)
	Upcoming            float64 `json:"upcoming"`              // Meetup within the next seven days (default: 30)
	DistanceMax         float64 `json:"distance_max"`          // Bonus at zero distance, decaying linearly to the radius (default: 40)
	HighInterest        float64 `json:"high_interest"`         // Attendance ratio above the pressure threshold (default: 20)
	OwnCircle           float64 `json:"own_circle"`            // Meetup belongs to a circle the user joined (default: 40)
	AttendanceSignalCap float64 `json:"attendance_signal_cap"` // Upper bound on the attended-meetups signal (default: 15)
	ViewedBonus         float64 `json:"viewed_bonus"`          // Meetup previously viewed by the user (default: 10)
}

// Weights holds the full scoring weight configuration for both entity kinds.
type Weights struct {
	Circle CircleWeights `json:"circle"`
	Meetup MeetupWeights `json:"meetup"`
}

// DefaultWeights returns the default scoring weight configuration. These
// defaults are the product-tuned constants of the discovery engine; running
// without a calibration file reproduces them exactly.
func DefaultWeights() *Weights {
	return &Weights{
		Circle: CircleWeights{
			Base:                  10,
			NameMatch:             50,
			DescriptionMatch:      30,
			FuzzyMatch:            20,
			CategoryMatch:         25,
			DistanceMax:           50,
			PopularityCap:         30,
			PopularityPerMember:   0.5,
			InterestMatch:         30,
			JoinedSignalPerCircle: 2,
			JoinedSignalCap:       20,
			ViewedBonus:           15,
		},
		Meetup: MeetupWeights{
			Base:                10,
			TitleMatch:          50,
			DescriptionMatch:    30,
			Upcoming:            30,
			DistanceMax:         40,
			HighInterest:        20,
			OwnCircle:           40,
			AttendanceSignalCap: 15,
			ViewedBonus:         10,
		},
	}
}

// field pairs a dotted weight name with its storage location, so merge and
// override reporting can walk the configuration uniformly.
type field struct {
	name string
	ptr  *float64
}

func fields(w *Weights) []field {
	return []field{
		{"circle.base", &w.Circle.Base},
		{"circle.name_match", &w.Circle.NameMatch},
		{"circle.description_match", &w.Circle.DescriptionMatch},
		{"circle.fuzzy_match", &w.Circle.FuzzyMatch},
		{"circle.category_match", &w.Circle.CategoryMatch},
		{"circle.distance_max", &w.Circle.DistanceMax},
		{"circle.popularity_cap", &w.Circle.PopularityCap},
		{"circle.popularity_per_member", &w.Circle.PopularityPerMember},
		{"circle.interest_match", &w.Circle.InterestMatch},
		{"circle.joined_signal_per_circle", &w.Circle.JoinedSignalPerCircle},
		{"circle.joined_signal_cap", &w.Circle.JoinedSignalCap},
		{"circle.viewed_bonus", &w.Circle.ViewedBonus},
		{"meetup.base", &w.Meetup.Base},
		{"meetup.title_match", &w.Meetup.TitleMatch},
		{"meetup.description_match", &w.Meetup.DescriptionMatch},
		{"meetup.upcoming", &w.Meetup.Upcoming},
		{"meetup.distance_max", &w.Meetup.DistanceMax},
		{"meetup.high_interest", &w.Meetup.HighInterest},
		{"meetup.own_circle", &w.Meetup.OwnCircle},
		{"meetup.attendance_signal_cap", &w.Meetup.AttendanceSignalCap},
		{"meetup.viewed_bonus", &w.Meetup.ViewedBonus},
	}
}
