package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// ownerScope restricts a query to rows owned by the given caller. A
// logged-in user matches on user_id, an anonymous caller on session_id.
func ownerScope(userID *int64, sessionID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID != nil {
			return db.Where("user_id = ?", *userID)
		}
		return db.Where("user_id IS NULL AND session_id = ?", sessionID)
	}
}

// --- users ---

func (s *pgStore) CreateUser(ctx context.Context, user *schema.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *pgStore) GetUserByID(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (s *pgStore) GetUserByLogin(ctx context.Context, login string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return &user, nil
}

func (s *pgStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (s *pgStore) EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.User{}).
		Where("email = ? AND id <> ?", email, excludeUserID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (s *pgStore) UpdateUserProfile(ctx context.Context, user *schema.User) error {
	err := s.db.WithContext(ctx).
		Model(&schema.User{}).
		Where("id = ?", user.ID).
		Select("email", "first_name", "last_name", "password_hash", "password_salt", "updated_at").
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// --- sessions ---

func (s *pgStore) CreateSession(ctx context.Context, session *schema.UserSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *pgStore) GetActiveSession(ctx context.Context, sessionID string, now time.Time) (*schema.UserSession, error) {
	var session schema.UserSession
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *pgStore) DeleteSession(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&schema.UserSession{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// --- trips ---

func (s *pgStore) CreateTrip(ctx context.Context, trip *schema.Trip) error {
	if err := s.db.WithContext(ctx).Create(trip).Error; err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func (s *pgStore) GetTripByID(ctx context.Context, id string) (*schema.Trip, error) {
	var trip schema.Trip
	if err := s.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

func (s *pgStore) GetTripDetail(ctx context.Context, id string) (*TripDetail, error) {
	trip, err := s.GetTripByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, nil
	}

	destinations, err := s.ListTripDestinations(ctx, id)
	if err != nil {
		return nil, err
	}

	route, err := s.GetLatestTripRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TripDetail{
		Trip:         trip,
		Destinations: destinations,
		Route:        route,
	}, nil
}

func (s *pgStore) ListTripsByOwner(ctx context.Context, userID *int64, sessionID *string) ([]*TripSummary, error) {
	q := s.db.WithContext(ctx).Model(&schema.Trip{}).
		Select(`trips.*,
			(SELECT COUNT(*) FROM trip_destinations td WHERE td.trip_id = trips.id) AS destination_count,
			EXISTS (SELECT 1 FROM trip_routes tr WHERE tr.trip_id = trips.id) AS has_route`)

	switch {
	case userID != nil && sessionID != nil:
		q = q.Where("user_id = ? OR (user_id IS NULL AND session_id = ?)", *userID, *sessionID)
	case userID != nil:
		q = q.Where("user_id = ?", *userID)
	case sessionID != nil:
		q = q.Where("user_id IS NULL AND session_id = ?", *sessionID)
	default:
		return []*TripSummary{}, nil
	}

	var summaries []*TripSummary
	if err := q.Order("created_at DESC").Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return summaries, nil
}

func (s *pgStore) UpdateTrip(ctx context.Context, trip *schema.Trip) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Trip{}).
		Where("id = ?", trip.ID).
		Select("trip_name", "destination", "start_date", "end_date", "budget", "travelers", "status", "updated_at").
		Updates(trip).Error
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

func (s *pgStore) DeleteTrip(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", id).Delete(&schema.TripDestination{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", id).Delete(&schema.TripRoute{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", id).Delete(&schema.TripTracker{}).Error; err != nil {
			return err
		}
		return tx.Delete(&schema.Trip{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// --- trip destinations ---

func (s *pgStore) AddTripDestination(ctx context.Context, dest *schema.TripDestination) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int64
		err := tx.Model(&schema.TripDestination{}).
			Where("trip_id = ?", dest.TripID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		dest.OrderIndex = int(maxOrder) + 1
		return tx.Create(dest).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add trip destination: %w", err)
	}
	return nil
}

func (s *pgStore) RemoveTripDestination(ctx context.Context, tripID string, destinationID int64) error {
	result := s.db.WithContext(ctx).
		Where("trip_id = ? AND id = ?", tripID, destinationID).
		Delete(&schema.TripDestination{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove trip destination: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *pgStore) ListTripDestinations(ctx context.Context, tripID string) ([]*schema.TripDestination, error) {
	var destinations []*schema.TripDestination
	err := s.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("order_index ASC").
		Find(&destinations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trip destinations: %w", err)
	}
	return destinations, nil
}

// --- trip routes ---

func (s *pgStore) ReplaceTripRoute(ctx context.Context, route *schema.TripRoute) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", route.TripID).Delete(&schema.TripRoute{}).Error; err != nil {
			return err
		}
		return tx.Create(route).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace trip route: %w", err)
	}
	return nil
}

func (s *pgStore) GetLatestTripRoute(ctx context.Context, tripID string) (*schema.TripRoute, error) {
	var route schema.TripRoute
	err := s.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("calculated_at DESC").
		First(&route).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip route: %w", err)
	}
	return &route, nil
}

// --- tickets ---

func (s *pgStore) CreateTicket(ctx context.Context, ticket *schema.GeneratedTicket) error {
	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		// surfaced as gorm.ErrDuplicatedKey when the code collides,
		// callers treat that as a retryable mint collision
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (s *pgStore) TicketCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.GeneratedTicket{}).
		Where("ticket_id = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ticket code: %w", err)
	}
	return count > 0, nil
}

func (s *pgStore) GetTicketByCode(ctx context.Context, code string) (*schema.GeneratedTicket, error) {
	var ticket schema.GeneratedTicket
	if err := s.db.WithContext(ctx).First(&ticket, "ticket_id = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (s *pgStore) ListTickets(ctx context.Context, userID *int64, sessionID string, limit int) ([]*schema.GeneratedTicket, error) {
	var tickets []*schema.GeneratedTicket
	err := s.db.WithContext(ctx).
		Scopes(ownerScope(userID, sessionID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// MarkTicketUsed flips a ticket to used exactly once. The conditional
// update makes concurrent callers race on the database row, so at most
// one of them observes RowsAffected == 1.
func (s *pgStore) MarkTicketUsed(ctx context.Context, code string, now time.Time) (*schema.GeneratedTicket, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.GeneratedTicket{}).
		Where("ticket_id = ? AND is_used = ?", code, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark ticket used: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		ticket, err := s.GetTicketByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if ticket == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrTicketAlreadyUsed
	}

	return s.GetTicketByCode(ctx, code)
}

func (s *pgStore) GetTicketStats(ctx context.Context, userID *int64, sessionID string) (*TicketStats, error) {
	stats := &TicketStats{ByType: make(map[string]int64)}

	type typeCount struct {
		TicketType string
		Used       bool
		Count      int64
	}
	var rows []typeCount
	err := s.db.WithContext(ctx).
		Model(&schema.GeneratedTicket{}).
		Scopes(ownerScope(userID, sessionID)).
		Select("ticket_type, is_used AS used, COUNT(*) AS count").
		Group("ticket_type, is_used").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket stats: %w", err)
	}

	for _, row := range rows {
		stats.Total += row.Count
		stats.ByType[row.TicketType] += row.Count
		if row.Used {
			stats.Used += row.Count
		} else {
			stats.Unused += row.Count
		}
	}
	return stats, nil
}

func (s *pgStore) ClearTickets(ctx context.Context, userID *int64, sessionID string) (int64, error) {
	result := s.db.WithContext(ctx).
		Scopes(ownerScope(userID, sessionID)).
		Delete(&schema.GeneratedTicket{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear tickets: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// --- trackers ---

func (s *pgStore) CreateTracker(ctx context.Context, tracker *schema.TripTracker) error {
	if err := s.db.WithContext(ctx).Create(tracker).Error; err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}
	return nil
}

func (s *pgStore) TrackerCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.TripTracker{}).
		Where("tracker_id = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check tracker code: %w", err)
	}
	return count > 0, nil
}

func (s *pgStore) GetTrackerByTrackerID(ctx context.Context, trackerID string) (*schema.TripTracker, error) {
	var tracker schema.TripTracker
	if err := s.db.WithContext(ctx).First(&tracker, "tracker_id = ?", trackerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}
	return &tracker, nil
}

func (s *pgStore) ListTrackersByEmail(ctx context.Context, email string) ([]*TrackerSummary, error) {
	var summaries []*TrackerSummary
	err := s.db.WithContext(ctx).
		Model(&schema.TripTracker{}).
		Select(`trip_trackers.*,
			trips.trip_name AS trip_name,
			trips.destination AS destination,
			trips.start_date AS start_date,
			trips.end_date AS end_date,
			trips.status AS trip_status`).
		Joins("JOIN trips ON trips.id = trip_trackers.trip_id").
		Where("trip_trackers.email = ? AND trip_trackers.is_active = ?", email, true).
		Order("trip_trackers.created_at DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trackers by email: %w", err)
	}
	return summaries, nil
}

// IncrementTrackerAccess bumps the access counter in a single UPDATE so
// concurrent lookups never lose increments.
func (s *pgStore) IncrementTrackerAccess(ctx context.Context, trackerID string, now time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&schema.TripTracker{}).
		Where("tracker_id = ?", trackerID).
		Updates(map[string]interface{}{
			"access_count":  gorm.Expr("access_count + 1"),
			"last_accessed": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to increment tracker access: %w", err)
	}
	return nil
}

func (s *pgStore) DeactivateTracker(ctx context.Context, trackerID, email string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.TripTracker{}).
		Where("tracker_id = ? AND email = ? AND is_active = ?", trackerID, email, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, fmt.Errorf("failed to deactivate tracker: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// --- reviews ---

func (s *pgStore) CreateReview(ctx context.Context, review *schema.Review) error {
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (s *pgStore) GetReviewByID(ctx context.Context, id int64) (*schema.Review, error) {
	var review schema.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (s *pgStore) ListApprovedReviews(ctx context.Context, destination string, limit, offset int) ([]*schema.Review, int64, error) {
	q := s.db.WithContext(ctx).Model(&schema.Review{}).Where("approved = ?", true)
	if destination != "" {
		q = q.Where("LOWER(destination) = LOWER(?)", destination)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []*schema.Review
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *pgStore) SetReviewApproval(ctx context.Context, id int64, approved bool) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Review{}).
		Where("id = ?", id).
		Update("approved", approved)
	if result.Error != nil {
		return fmt.Errorf("failed to update review approval: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *pgStore) DeleteReview(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&schema.Review{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *pgStore) GetReviewSummary(ctx context.Context, destination string) (*ReviewSummary, error) {
	summary := &ReviewSummary{
		Destination:  destination,
		Distribution: make(map[int]int64),
	}

	type ratingCount struct {
		Rating int
		Count  int64
	}
	var rows []ratingCount
	err := s.db.WithContext(ctx).
		Model(&schema.Review{}).
		Where("approved = ? AND LOWER(destination) = LOWER(?)", true, destination).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get review summary: %w", err)
	}

	var ratingSum int64
	for _, row := range rows {
		summary.ReviewCount += row.Count
		summary.Distribution[row.Rating] = row.Count
		ratingSum += int64(row.Rating) * row.Count
	}
	if summary.ReviewCount > 0 {
		summary.AverageRating = float64(ratingSum) / float64(summary.ReviewCount)
	}
	return summary, nil
}

// --- interactions ---

func (s *pgStore) CreateInteraction(ctx context.Context, interaction *schema.Interaction) error {
	if err := s.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}

func (s *pgStore) CountInteractionsByEvent(ctx context.Context, since time.Time) (map[string]int64, error) {
	type eventCount struct {
		EventType string
		Count     int64
	}
	var rows []eventCount
	err := s.db.WithContext(ctx).
		Model(&schema.Interaction{}).
		Where("created_at >= ?", since).
		Select("event_type, COUNT(*) AS count").
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}
