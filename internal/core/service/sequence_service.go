package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/api/metrics"
	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// FallbackPolicy decides what the allocator does when the counter medium fails.
type FallbackPolicy string

const (
	// FallbackRandom keeps field work going with a pseudo-random number.
	FallbackRandom FallbackPolicy = "random"
	// FallbackFail refuses to allocate.
	FallbackFail FallbackPolicy = "fail"
)

// ParseFallbackPolicy maps a config value to a policy, defaulting to random.
func ParseFallbackPolicy(s string) FallbackPolicy {
	if FallbackPolicy(s) == FallbackFail {
		return FallbackFail
	}
	return FallbackRandom
}

// SequenceAllocator hands out human-facing sequence numbers such as 25/00042.
// The counter lives under its own key, so deleting records never frees a number.
type SequenceAllocator struct {
	counter ports.KV
	key     string
	policy  FallbackPolicy
	log     zerolog.Logger
	now     func() time.Time
	randInt func(n int) int
}

func NewSequenceAllocator(counter ports.KV, key string, policy FallbackPolicy, log zerolog.Logger) *SequenceAllocator {
	return &SequenceAllocator{
		counter: counter,
		key:     key,
		policy:  policy,
		log:     log,
		now:     time.Now,
		randInt: rand.IntN,
	}
}

// Next returns the next sequence number.
func (a *SequenceAllocator) Next(ctx context.Context) (string, error) {
	yy := a.now().Year() % 100

	n, err := a.counter.Incr(ctx, a.key)
	if err == nil {
		metrics.SequenceAllocationsTotal.WithLabelValues("counter").Inc()
		return fmt.Sprintf("%02d/%05d", yy, n), nil
	}

	if a.policy == FallbackFail {
		a.log.Error().Err(err).Msg("sequence counter unavailable")
		metrics.SequenceAllocationsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrSequenceUnavailable, err)
	}

	seq := fmt.Sprintf("%02d/%06d", yy, 100000+a.randInt(900000))
	a.log.Warn().Err(err).Str("sequence_number", seq).Msg("sequence counter unavailable, using random fallback")
	metrics.SequenceAllocationsTotal.WithLabelValues("fallback").Inc()
	return seq, nil
}
