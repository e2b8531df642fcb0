package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// TranslateError matters here: unique-constraint violations must surface
	// as gorm.ErrDuplicatedKey, same as in production
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// The API server migrates the schema at startup; the tests do the same
	err = testDB.AutoMigrate(
		&schema.User{},
		&schema.UserSession{},
		&schema.Trip{},
		&schema.TripDestination{},
		&schema.TripRoute{},
		&schema.TripTracker{},
		&schema.GeneratedTicket{},
		&schema.Review{},
		&schema.Interaction{},
	)
	if err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// newTestStore wipes all tables and returns a fresh store
func newTestStore(t *testing.T) Store {
	t.Helper()
	for _, table := range []string{
		"interactions", "reviews", "generated_tickets", "trip_trackers",
		"trip_routes", "trip_destinations", "trips", "user_sessions", "users",
	} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
	return NewPGStore(testDB)
}

func strPtr(v string) *string { return &v }

func createTestUser(t *testing.T, s Store, username, email string) *schema.User {
	t.Helper()
	user := &schema.User{
		Username:     username,
		Email:        email,
		PasswordHash: []byte("hash"),
		PasswordSalt: []byte("salt"),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestTrip(t *testing.T, s Store, trip *schema.Trip) *schema.Trip {
	t.Helper()
	if trip.TripName == "" {
		trip.TripName = "Test Trip"
	}
	if trip.Status == "" {
		trip.Status = "active"
	}
	if trip.Travelers == 0 {
		trip.Travelers = 1
	}
	require.NoError(t, s.CreateTrip(context.Background(), trip))
	return trip
}

func TestUserLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "alice", "alice@example.com")

	t.Run("by id", func(t *testing.T) {
		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("by username or email", func(t *testing.T) {
		got, err := s.GetUserByLogin(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)

		got, err = s.GetUserByLogin(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)

		got, err = s.GetUserByLogin(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("existence checks", func(t *testing.T) {
		exists, err := s.UserExists(ctx, "alice", "other@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.UserExists(ctx, "other", "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.UserExists(ctx, "other", "other@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("email taken excludes self", func(t *testing.T) {
		taken, err := s.EmailTaken(ctx, "alice@example.com", user.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = s.EmailTaken(ctx, "alice@example.com", user.ID+1)
		require.NoError(t, err)
		assert.True(t, taken)
	})
}

func TestUpdateUserProfilePersistsPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "alice", "alice@example.com")
	user.Email = "new@example.com"
	user.PasswordHash = []byte("newhash")
	user.PasswordSalt = []byte("newsalt")
	require.NoError(t, s.UpdateUserProfile(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, []byte("newhash"), got.PasswordHash)
	assert.Equal(t, []byte("newsalt"), got.PasswordSalt)
	assert.Equal(t, "alice", got.Username, "username is not part of the update")
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	user := createTestUser(t, s, "alice", "alice@example.com")

	live := &schema.UserSession{UserID: user.ID, SessionID: "live", ExpiresAt: now.Add(time.Hour)}
	stale := &schema.UserSession{UserID: user.ID, SessionID: "stale", ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, s.CreateSession(ctx, live))
	require.NoError(t, s.CreateSession(ctx, stale))

	got, err := s.GetActiveSession(ctx, "live", now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)

	got, err = s.GetActiveSession(ctx, "stale", now)
	require.NoError(t, err)
	assert.Nil(t, got, "expired sessions are invisible")

	require.NoError(t, s.DeleteSession(ctx, "live"))
	got, err = s.GetActiveSession(ctx, "live", now)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListTripsByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "alice", "alice@example.com")

	owned := createTestTrip(t, s, &schema.Trip{ID: "trip-user", UserID: &user.ID})
	createTestTrip(t, s, &schema.Trip{ID: "trip-session", SessionID: strPtr("s-1")})
	createTestTrip(t, s, &schema.Trip{ID: "trip-other", SessionID: strPtr("s-2")})

	require.NoError(t, s.AddTripDestination(ctx, &schema.TripDestination{TripID: owned.ID, Name: "Kyoto"}))
	require.NoError(t, s.AddTripDestination(ctx, &schema.TripDestination{TripID: owned.ID, Name: "Osaka"}))
	require.NoError(t, s.ReplaceTripRoute(ctx, &schema.TripRoute{TripID: owned.ID, CalculatedAt: time.Now()}))

	t.Run("user scope with aggregates", func(t *testing.T) {
		summaries, err := s.ListTripsByOwner(ctx, &user.ID, nil)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "trip-user", summaries[0].ID)
		assert.Equal(t, int64(2), summaries[0].DestinationCount)
		assert.True(t, summaries[0].HasRoute)
	})

	t.Run("session scope", func(t *testing.T) {
		sessionID := "s-1"
		summaries, err := s.ListTripsByOwner(ctx, nil, &sessionID)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "trip-session", summaries[0].ID)
		assert.Equal(t, int64(0), summaries[0].DestinationCount)
		assert.False(t, summaries[0].HasRoute)
	})

	t.Run("no scope yields nothing", func(t *testing.T) {
		summaries, err := s.ListTripsByOwner(ctx, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})
}

func TestTripDestinationsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, s, &schema.Trip{ID: "trip-1", SessionID: strPtr("s-1")})

	first := &schema.TripDestination{TripID: trip.ID, Name: "Kyoto"}
	second := &schema.TripDestination{TripID: trip.ID, Name: "Osaka"}
	require.NoError(t, s.AddTripDestination(ctx, first))
	require.NoError(t, s.AddTripDestination(ctx, second))
	assert.Equal(t, 1, first.OrderIndex)
	assert.Equal(t, 2, second.OrderIndex)

	require.NoError(t, s.RemoveTripDestination(ctx, trip.ID, first.ID))

	// Removal keeps the remaining order, the next append continues after it
	third := &schema.TripDestination{TripID: trip.ID, Name: "Nara"}
	require.NoError(t, s.AddTripDestination(ctx, third))
	assert.Equal(t, 3, third.OrderIndex)

	destinations, err := s.ListTripDestinations(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, destinations, 2)
	assert.Equal(t, "Osaka", destinations[0].Name)
	assert.Equal(t, "Nara", destinations[1].Name)

	err = s.RemoveTripDestination(ctx, trip.ID, 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.RemoveTripDestination(ctx, "other-trip", second.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "destination ids are scoped by trip")
}

func TestReplaceTripRoute(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, s, &schema.Trip{ID: "trip-1", SessionID: strPtr("s-1")})

	route, err := s.GetLatestTripRoute(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, route)

	require.NoError(t, s.ReplaceTripRoute(ctx, &schema.TripRoute{
		TripID: trip.ID, DistanceKM: 12.5, RouteSource: "osrm", CalculatedAt: time.Now(),
	}))
	require.NoError(t, s.ReplaceTripRoute(ctx, &schema.TripRoute{
		TripID: trip.ID, DistanceKM: 14.0, RouteSource: "osrm", CalculatedAt: time.Now(),
	}))

	route, err = s.GetLatestTripRoute(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.InDelta(t, 14.0, route.DistanceKM, 0.001)

	var count int64
	require.NoError(t, testDB.Model(&schema.TripRoute{}).Where("trip_id = ?", trip.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "saving a route replaces the previous one")
}

func TestDeleteTripCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, s, &schema.Trip{ID: "trip-1", SessionID: strPtr("s-1")})
	require.NoError(t, s.AddTripDestination(ctx, &schema.TripDestination{TripID: trip.ID, Name: "Kyoto"}))
	require.NoError(t, s.ReplaceTripRoute(ctx, &schema.TripRoute{TripID: trip.ID, CalculatedAt: time.Now()}))
	require.NoError(t, s.CreateTracker(ctx, &schema.TripTracker{
		TrackerID: "TRAAA11122", TripID: trip.ID, Email: "a@example.com", IsActive: true,
	}))

	require.NoError(t, s.DeleteTrip(ctx, trip.ID))

	got, err := s.GetTripByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, model := range []interface{}{
		&schema.TripDestination{}, &schema.TripRoute{}, &schema.TripTracker{},
	} {
		var count int64
		require.NoError(t, testDB.Model(model).Where("trip_id = ?", trip.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestTicketUniqueCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "FLAAA1110001", TicketType: "FLIGHT", SessionID: strPtr("s-1"),
	}))

	err := s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "FLAAA1110001", TicketType: "FLIGHT", SessionID: strPtr("s-2"),
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := s.TicketCodeExists(ctx, "FLAAA1110001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.TicketCodeExists(ctx, "FLAAA1110002")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMarkTicketUsedIsOneWay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "FLAAA1110001", TicketType: "FLIGHT", SessionID: strPtr("s-1"),
	}))

	ticket, err := s.MarkTicketUsed(ctx, "FLAAA1110001", now)
	require.NoError(t, err)
	assert.True(t, ticket.IsUsed)
	require.NotNil(t, ticket.UsedAt)
	firstUsedAt := *ticket.UsedAt

	_, err = s.MarkTicketUsed(ctx, "FLAAA1110001", now.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrTicketAlreadyUsed)

	_, err = s.MarkTicketUsed(ctx, "FLAAA1119999", now)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ticket, err = s.GetTicketByCode(ctx, "FLAAA1110001")
	require.NoError(t, err)
	require.NotNil(t, ticket.UsedAt)
	assert.WithinDuration(t, firstUsedAt, *ticket.UsedAt, time.Millisecond, "used_at never changes after the first use")
}

func TestMarkTicketUsedConcurrently(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "FLAAA1110001", TicketType: "FLIGHT", SessionID: strPtr("s-1"),
	}))

	const callers = 8
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.MarkTicketUsed(ctx, "FLAAA1110001", time.Now()); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1, "exactly one caller wins the transition")
}

func TestTicketScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "alice", "alice@example.com")

	require.NoError(t, s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "FLAAA1110001", TicketType: "FLIGHT", UserID: &user.ID,
	}))
	require.NoError(t, s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "HTAAA1110002", TicketType: "HOTEL", UserID: &user.ID, IsUsed: true,
	}))
	require.NoError(t, s.CreateTicket(ctx, &schema.GeneratedTicket{
		TicketID: "BSAAA1110003", TicketType: "BUS", SessionID: strPtr("s-1"),
	}))

	t.Run("list respects owner and limit", func(t *testing.T) {
		tickets, err := s.ListTickets(ctx, &user.ID, "", 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 2)

		tickets, err = s.ListTickets(ctx, &user.ID, "", 1)
		require.NoError(t, err)
		assert.Len(t, tickets, 1)

		tickets, err = s.ListTickets(ctx, nil, "s-1", 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 1)
	})

	t.Run("stats aggregate per owner", func(t *testing.T) {
		stats, err := s.GetTicketStats(ctx, &user.ID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Total)
		assert.Equal(t, int64(1), stats.Used)
		assert.Equal(t, int64(1), stats.Unused)
		assert.Equal(t, int64(1), stats.ByType["FLIGHT"])
		assert.Equal(t, int64(1), stats.ByType["HOTEL"])
	})

	t.Run("clear deletes only the owner's tickets", func(t *testing.T) {
		deleted, err := s.ClearTickets(ctx, &user.ID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		tickets, err := s.ListTickets(ctx, nil, "s-1", 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 1, "the session caller's tickets survive")
	})
}

func TestIncrementTrackerAccessConcurrently(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, s, &schema.Trip{ID: "trip-1", SessionID: strPtr("s-1")})
	require.NoError(t, s.CreateTracker(ctx, &schema.TripTracker{
		TrackerID: "TRAAA11122", TripID: trip.ID, Email: "a@example.com", IsActive: true,
	}))

	const lookups = 16
	var wg sync.WaitGroup
	for i := 0; i < lookups; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.IncrementTrackerAccess(ctx, "TRAAA11122", time.Now()))
		}()
	}
	wg.Wait()

	tracker, err := s.GetTrackerByTrackerID(ctx, "TRAAA11122")
	require.NoError(t, err)
	require.NotNil(t, tracker)
	assert.Equal(t, int64(lookups), tracker.AccessCount, "no increment may be lost")
	assert.NotNil(t, tracker.LastAccessed)
}

func TestDeactivateTracker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, s, &schema.Trip{ID: "trip-1", SessionID: strPtr("s-1")})
	require.NoError(t, s.CreateTracker(ctx, &schema.TripTracker{
		TrackerID: "TRAAA11122", TripID: trip.ID, Email: "a@example.com", IsActive: true,
	}))

	ok, err := s.DeactivateTracker(ctx, "TRAAA11122", "wrong@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeactivateTracker(ctx, "TRAAA11122", "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	// Already inactive, so the second attempt matches nothing
	ok, err = s.DeactivateTracker(ctx, "TRAAA11122", "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListTrackersByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, s, &schema.Trip{
		ID: "trip-1", SessionID: strPtr("s-1"), TripName: "Summer in Kyoto", Destination: "Kyoto",
	})
	require.NoError(t, s.CreateTracker(ctx, &schema.TripTracker{
		TrackerID: "TRAAA11122", TripID: trip.ID, Email: "a@example.com", IsActive: true,
	}))
	require.NoError(t, s.CreateTracker(ctx, &schema.TripTracker{
		TrackerID: "TRBBB11122", TripID: trip.ID, Email: "a@example.com", IsActive: false,
	}))
	require.NoError(t, s.CreateTracker(ctx, &schema.TripTracker{
		TrackerID: "TRCCC11122", TripID: trip.ID, Email: "b@example.com", IsActive: true,
	}))

	summaries, err := s.ListTrackersByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, summaries, 1, "only active trackers for the email")
	assert.Equal(t, "TRAAA11122", summaries[0].TrackerID)
	assert.Equal(t, "Summer in Kyoto", summaries[0].TripName)
	assert.Equal(t, "Kyoto", summaries[0].Destination)
	assert.Equal(t, "active", summaries[0].TripStatus)
}

func TestReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []struct {
		destination string
		rating      int
		approved    bool
	}{
		{"Kyoto", 5, true},
		{"Kyoto", 4, true},
		{"Kyoto", 4, true},
		{"Kyoto", 1, false},
		{"Osaka", 3, true},
	}
	for i, r := range seed {
		require.NoError(t, s.CreateReview(ctx, &schema.Review{
			Destination: r.destination,
			AuthorName:  fmt.Sprintf("author-%d", i),
			Rating:      r.rating,
			Approved:    r.approved,
		}))
	}

	t.Run("list filters unapproved and by destination", func(t *testing.T) {
		reviews, total, err := s.ListApprovedReviews(ctx, "kyoto", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, reviews, 3)

		reviews, total, err = s.ListApprovedReviews(ctx, "", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, reviews, 2)
	})

	t.Run("summary aggregates approved only", func(t *testing.T) {
		summary, err := s.GetReviewSummary(ctx, "Kyoto")
		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.ReviewCount)
		assert.InDelta(t, (5.0+4.0+4.0)/3.0, summary.AverageRating, 0.001)
		assert.Equal(t, int64(1), summary.Distribution[5])
		assert.Equal(t, int64(2), summary.Distribution[4])
		assert.Zero(t, summary.Distribution[1])
	})

	t.Run("summary of unknown destination is empty", func(t *testing.T) {
		summary, err := s.GetReviewSummary(ctx, "Atlantis")
		require.NoError(t, err)
		assert.Zero(t, summary.ReviewCount)
		assert.Zero(t, summary.AverageRating)
	})

	t.Run("approval flips visibility", func(t *testing.T) {
		reviews, _, err := s.ListApprovedReviews(ctx, "kyoto", 10, 0)
		require.NoError(t, err)
		require.NotEmpty(t, reviews)

		require.NoError(t, s.SetReviewApproval(ctx, reviews[0].ID, false))
		_, total, err := s.ListApprovedReviews(ctx, "kyoto", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		assert.ErrorIs(t, s.SetReviewApproval(ctx, 99999, true), domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		reviews, _, err := s.ListApprovedReviews(ctx, "osaka", 10, 0)
		require.NoError(t, err)
		require.Len(t, reviews, 1)

		require.NoError(t, s.DeleteReview(ctx, reviews[0].ID))
		assert.ErrorIs(t, s.DeleteReview(ctx, reviews[0].ID), domain.ErrNotFound)
	})
}

func TestCountInteractionsByEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	seed := []struct {
		id    string
		event schema.InteractionEventType
		at    time.Time
	}{
		{"01AAAAAAAAAAAAAAAAAAAAAAA1", schema.InteractionTicketGenerated, now},
		{"01AAAAAAAAAAAAAAAAAAAAAAA2", schema.InteractionTicketGenerated, now},
		{"01AAAAAAAAAAAAAAAAAAAAAAA3", schema.InteractionTrackerAccessed, now},
		{"01AAAAAAAAAAAAAAAAAAAAAAA4", schema.InteractionTicketUsed, now.Add(-48 * time.Hour)},
	}
	for _, i := range seed {
		require.NoError(t, s.CreateInteraction(ctx, &schema.Interaction{
			ID:          i.id,
			EventType:   i.event,
			SubjectType: "ticket",
			SubjectID:   "FLAAA1110001",
			CreatedAt:   i.at,
		}))
	}

	counts, err := s.CountInteractionsByEvent(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[string(schema.InteractionTicketGenerated)])
	assert.Equal(t, int64(1), counts[string(schema.InteractionTrackerAccessed)])
	assert.Zero(t, counts[string(schema.InteractionTicketUsed)], "older entries fall outside the window")
}
