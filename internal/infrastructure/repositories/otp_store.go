package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/storefront/domain"
)

// consumeScript deletes the key only while it still holds the expected payload
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OTPStoreImpl implements domain.OTPStore using Redis.
// The natural key otp:<role>:<phone> gives replace semantics through a single SET.
type OTPStoreImpl struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// NewOTPStore creates a Redis OTP store. Records stay readable for retention
// past their expiry so late submissions still report an expired code.
func NewOTPStore(client *redis.Client, retention time.Duration) *OTPStoreImpl {
	return &OTPStoreImpl{
		client:    client,
		prefix:    "otp:",
		retention: retention,
		now:       time.Now,
	}
}

func (s *OTPStoreImpl) key(phone string, role domain.Role) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, role, phone)
}

func (s *OTPStoreImpl) resendKey(phone string, role domain.Role) string {
	return fmt.Sprintf("%sres:%s:%s", s.prefix, role, phone)
}

// Replace implements domain.OTPStore
func (s *OTPStoreImpl) Replace(ctx context.Context, rec *domain.OTPRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal otp: %w", err)
	}

	ttl := rec.ExpiresAt.Sub(s.now()) + s.retention
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, s.key(rec.Phone, rec.Role), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp in redis: %w: %v", domain.ErrOTPStore, err)
	}
	return nil
}

// Get implements domain.OTPStore
func (s *OTPStoreImpl) Get(ctx context.Context, phone string, role domain.Role) (*domain.OTPRecord, error) {
	data, err := s.client.Get(ctx, s.key(phone, role)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoActiveCode
		}
		return nil, fmt.Errorf("failed to get otp from redis: %w: %v", domain.ErrOTPStore, err)
	}

	var rec domain.OTPRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp: %w: %v", domain.ErrOTPStore, err)
	}
	return &rec, nil
}

// Consume implements domain.OTPStore
func (s *OTPStoreImpl) Consume(ctx context.Context, rec *domain.OTPRecord) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("failed to marshal otp: %w", err)
	}

	deleted, err := consumeScript.Run(ctx, s.client, []string{s.key(rec.Phone, rec.Role)}, string(data)).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to consume otp: %w: %v", domain.ErrOTPStore, err)
	}
	return deleted == 1, nil
}

// Delete implements domain.OTPStore
func (s *OTPStoreImpl) Delete(ctx context.Context, phone string, role domain.Role) error {
	if err := s.client.Del(ctx, s.key(phone, role), s.resendKey(phone, role)).Err(); err != nil {
		return fmt.Errorf("failed to delete otp: %w: %v", domain.ErrOTPStore, err)
	}
	return nil
}

// AcquireResend implements domain.OTPStore
func (s *OTPStoreImpl) AcquireResend(ctx context.Context, phone string, role domain.Role, window time.Duration) (bool, time.Duration, error) {
	if window <= 0 {
		return true, 0, nil
	}

	key := s.resendKey(phone, role)
	ok, err := s.client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to set resend throttle: %w: %v", domain.ErrOTPStore, err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w: %v", domain.ErrOTPStore, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return false, ttl, nil
}

var _ domain.OTPStore = (*OTPStoreImpl)(nil)

// ReleaseResend implements domain.OTPStore
func (s *OTPStoreImpl) ReleaseResend(ctx context.Context, phone string, role domain.Role) error {
	if err := s.client.Del(ctx, s.resendKey(phone, role)).Err(); err != nil {
		return fmt.Errorf("failed to release resend throttle: %w: %v", domain.ErrOTPStore, err)
	}
	return nil
}
