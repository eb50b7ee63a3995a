// Package postgres implements the candidate record store over PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/nexushq/discovery/internal/discovery"
	"github.com/nexushq/discovery/internal/geo"
	"github.com/nexushq/discovery/internal/tracing"
)

// Querier is the read surface the store needs. Both *sql.DB and *sql.Conn
// satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store reads candidate circles and meetups from PostgreSQL. Candidates are
// returned newest first so the bounded fetch favors recent records.
type Store struct {
	db     Querier
	logger *slog.Logger
}

// NewStore creates a record store over the given database handle.
func NewStore(db Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

const fetchCirclesQuery = `
	SELECT id, name, description, category, member_count, lat, lng, created_at
	FROM circles
	ORDER BY created_at DESC
	LIMIT $1
`

// FetchCircles returns up to limit circles, newest first.
func (s *Store) FetchCircles(ctx context.Context, limit int) (_ []discovery.Circle, err error) {
	if limit <= 0 {
		limit = discovery.DefaultCandidateLimit
	}

	ctx, end := tracing.StartStoreSpan(ctx, "db.fetch_circles")
	defer func() { end(err) }()
	tracing.SetAttributes(ctx, attribute.Int("db.limit", limit))

	rows, err := s.db.QueryContext(ctx, fetchCirclesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query circles: %w", err)
	}
	defer rows.Close()

	var circles []discovery.Circle
	for rows.Next() {
		var (
			c           discovery.Circle
			description sql.NullString
			lat, lng    sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.Category, &c.MemberCount, &lat, &lng, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan circle: %w", err)
		}
		c.Description = description.String
		if lat.Valid && lng.Valid {
			c.Location = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		circles = append(circles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate circles: %w", err)
	}
	return circles, nil
}

const fetchMeetupsQuery = `
	SELECT id, circle_id, title, description, date, is_online, price,
	       max_attendees, current_attendees,
	       venue_name, venue_address, venue_lat, venue_lng, created_at
	FROM meetups
	WHERE ($2 = '' OR circle_id = $2)
	ORDER BY created_at DESC
	LIMIT $1
`

// FetchMeetups returns up to limit meetups, newest first, restricted to one
// circle when circleID is non-empty.
func (s *Store) FetchMeetups(ctx context.Context, circleID string, limit int) (_ []discovery.Meetup, err error) {
	if limit <= 0 {
		limit = discovery.DefaultCandidateLimit
	}

	ctx, end := tracing.StartStoreSpan(ctx, "db.fetch_meetups")
	defer func() { end(err) }()
	tracing.SetAttributes(ctx,
		attribute.Int("db.limit", limit),
		attribute.String("db.circle_id", circleID),
	)

	rows, err := s.db.QueryContext(ctx, fetchMeetupsQuery, limit, circleID)
	if err != nil {
		return nil, fmt.Errorf("query meetups: %w", err)
	}
	defer rows.Close()

	var meetups []discovery.Meetup
	for rows.Next() {
		var (
			m                    discovery.Meetup
			description          sql.NullString
			price                sql.NullFloat64
			maxAttendees         sql.NullInt64
			venueName, venueAddr sql.NullString
			venueLat, venueLng   sql.NullFloat64
		)
		err := rows.Scan(
			&m.ID, &m.CircleID, &m.Title, &description, &m.Date, &m.IsOnline,
			&price, &maxAttendees, &m.CurrentAttendees,
			&venueName, &venueAddr, &venueLat, &venueLng, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan meetup: %w", err)
		}

		m.Description = description.String
		if price.Valid {
			p := price.Float64
			m.Price = &p
		}
		if maxAttendees.Valid {
			n := int(maxAttendees.Int64)
			m.MaxAttendees = &n
		}
		if venueLat.Valid && venueLng.Valid {
			m.Venue = &discovery.Venue{
				Name:    venueName.String,
				Address: venueAddr.String,
				Point:   geo.Point{Lat: venueLat.Float64, Lng: venueLng.Float64},
			}
		}
		meetups = append(meetups, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetups: %w", err)
	}
	return meetups, nil
}
