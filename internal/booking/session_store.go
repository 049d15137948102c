package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSessionTTL bounds how long an unconsumed offer stays bookable.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore keeps one Session per conversation in Redis. Save always
// overwrites: the newest availability check invalidates any prior offer.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if client == nil {
		panic("booking: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("receptionist.internal.booking.sessions"),
	}
}

// Save overwrites the conversation's session, empty offers included.
func (s *SessionStore) Save(ctx context.Context, conversationID string, session *Session) error {
	ctx, span := s.tracer.Start(ctx, "booking.save_session")
	defer span.End()

	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(conversationID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: failed to persist session: %w", err)
	}
	return nil
}

// Load returns the conversation's session, or nil when none was stored.
func (s *SessionStore) Load(ctx context.Context, conversationID string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "booking.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("booking: failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("booking: failed to decode session: %w", err)
	}
	return &session, nil
}

// Delete discards the conversation's session, typically at conversation end.
func (s *SessionStore) Delete(ctx context.Context, conversationID string) error {
	ctx, span := s.tracer.Start(ctx, "booking.delete_session")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(conversationID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(conversationID string) string {
	return fmt.Sprintf("booking_session:%s", conversationID)
}
