package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
)

// openTestConn pins a single connection so temporary tables stay visible for
// the whole test. The test is skipped unless DATABASE_URL points at a
// reachable PostgreSQL instance.
func openTestConn(t *testing.T) *sql.Conn {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skip("PostgreSQL not available, skipping integration test")
	}

	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("pin connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func createTestTables(t *testing.T, conn *sql.Conn) {
	t.Helper()
	ctx := context.Background()

	statements := []string{
		`CREATE TEMP TABLE circles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			member_count INT NOT NULL DEFAULT 0,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TEMP TABLE meetups (
			id TEXT PRIMARY KEY,
			circle_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			date TIMESTAMPTZ NOT NULL,
			is_online BOOLEAN NOT NULL DEFAULT false,
			price DOUBLE PRECISION,
			max_attendees INT,
			current_attendees INT NOT NULL DEFAULT 0,
			venue_name TEXT,
			venue_address TEXT,
			venue_lat DOUBLE PRECISION,
			venue_lng DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("create test tables: %v", err)
		}
	}
}

func TestStoreFetchCircles(t *testing.T) {
	conn := openTestConn(t)
	createTestTables(t, conn)
	ctx := context.Background()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO circles (id, name, description, category, member_count, lat, lng, created_at) VALUES
		('c1', 'Tech Circle', 'All things technology', 'Technology', 40, 37.7749, -122.4194, now() - interval '2 days'),
		('c2', 'Art Collective', NULL, 'Art', 12, NULL, NULL, now() - interval '1 day')
	`)
	if err != nil {
		t.Fatalf("seed circles: %v", err)
	}

	store := NewStore(conn, nil)
	circles, err := store.FetchCircles(ctx, 10)
	if err != nil {
		t.Fatalf("FetchCircles: %v", err)
	}
	if len(circles) != 2 {
		t.Fatalf("got %d circles, want 2", len(circles))
	}

	// Newest first.
	if circles[0].ID != "c2" || circles[1].ID != "c1" {
		t.Errorf("order = [%s %s], want [c2 c1]", circles[0].ID, circles[1].ID)
	}
	if circles[0].Location != nil {
		t.Errorf("c2 Location = %v, want nil", circles[0].Location)
	}
	if circles[1].Location == nil || circles[1].Location.Lat != 37.7749 {
		t.Errorf("c1 Location = %v, want the seeded point", circles[1].Location)
	}

	t.Run("limit bounds the result", func(t *testing.T) {
		circles, err := store.FetchCircles(ctx, 1)
		if err != nil {
			t.Fatalf("FetchCircles: %v", err)
		}
		if len(circles) != 1 {
			t.Errorf("got %d circles, want 1", len(circles))
		}
	})
}

func TestStoreFetchMeetups(t *testing.T) {
	conn := openTestConn(t)
	createTestTables(t, conn)
	ctx := context.Background()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO meetups (id, circle_id, title, date, is_online, price, max_attendees, current_attendees,
		                     venue_name, venue_address, venue_lat, venue_lng, created_at) VALUES
		('m1', 'c1', 'Go Night', now() + interval '3 days', false, NULL, 20, 8,
		 'Community Hall', '1 Main St', 37.7749, -122.4194, now() - interval '2 days'),
		('m2', 'c2', 'Online Paint Jam', now() + interval '5 days', true, 12.5, NULL, 3,
		 NULL, NULL, NULL, NULL, now() - interval '1 day')
	`)
	if err != nil {
		t.Fatalf("seed meetups: %v", err)
	}

	store := NewStore(conn, nil)
	meetups, err := store.FetchMeetups(ctx, "", 10)
	if err != nil {
		t.Fatalf("FetchMeetups: %v", err)
	}
	if len(meetups) != 2 {
		t.Fatalf("got %d meetups, want 2", len(meetups))
	}

	if meetups[0].ID != "m2" {
		t.Errorf("first meetup = %s, want m2", meetups[0].ID)
	}
	if meetups[0].Price == nil || *meetups[0].Price != 12.5 {
		t.Errorf("m2 Price = %v, want 12.5", meetups[0].Price)
	}
	if meetups[0].Venue != nil {
		t.Errorf("m2 Venue = %v, want nil", meetups[0].Venue)
	}
	if meetups[1].Venue == nil || meetups[1].Venue.Name != "Community Hall" {
		t.Errorf("m1 Venue = %v, want the seeded venue", meetups[1].Venue)
	}
	if meetups[1].MaxAttendees == nil || *meetups[1].MaxAttendees != 20 {
		t.Errorf("m1 MaxAttendees = %v, want 20", meetups[1].MaxAttendees)
	}

	t.Run("circle filter", func(t *testing.T) {
		meetups, err := store.FetchMeetups(ctx, "c1", 10)
		if err != nil {
			t.Fatalf("FetchMeetups: %v", err)
		}
		if len(meetups) != 1 || meetups[0].ID != "m1" {
			t.Errorf("got %v, want only m1", meetups)
		}
	})
}
