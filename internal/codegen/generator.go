// Package codegen produces collision-checked, human-readable identifiers for
// tickets and trip trackers.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/wertigo/travel-planner/internal/domain"
)

const (
	alphabetUpper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphabetDigits = "0123456789"
	alphabetCode   = alphabetUpper + alphabetDigits
)

// DefaultMaxAttempts is the default retry budget for collision checks
const DefaultMaxAttempts = 10

// errCollision marks an attempt whose candidate already exists
var errCollision = errors.New("code collision")

// format describes how codes of one type are composed
type format struct {
	prefix       string
	randomLen    int
	allowsSuffix bool
}

// formats keys every code type to its composition rule. TRAIN uses TN rather
// than TR: the search endpoint dispatches tracker lookups on the TR prefix.
var formats = map[domain.CodeType]format{
	domain.CodeTypeFlight:     {prefix: "FL", randomLen: 6, allowsSuffix: true},
	domain.CodeTypeBus:        {prefix: "BS", randomLen: 6, allowsSuffix: true},
	domain.CodeTypeFerry:      {prefix: "FR", randomLen: 6, allowsSuffix: true},
	domain.CodeTypeTrain:      {prefix: "TN", randomLen: 6, allowsSuffix: true},
	domain.CodeTypeHotel:      {prefix: "HT", randomLen: 6, allowsSuffix: true},
	domain.CodeTypeTour:       {prefix: "TO", randomLen: 6, allowsSuffix: true},
	domain.CodeTypeBookingRef: {prefix: "", randomLen: 6, allowsSuffix: false},
	domain.CodeTypeTracker:    {prefix: domain.TrackerPrefix, randomLen: 8, allowsSuffix: false},
}

// Prefix returns the fixed prefix of a code type ("" for unprefixed types)
func Prefix(t domain.CodeType) string {
	if t == domain.CodeTypeConfirmation {
		return ""
	}
	if f, ok := formats[t]; ok {
		return f.prefix
	}
	return "TK"
}

// Classify maps a code back to its type by prefix and length. Prefixed types
// win over the unprefixed ones; a confirmation is two letters followed by four
// digits, and anything else of booking-reference length is a booking
// reference. The second return is false when the code matches no known shape.
func Classify(code string) (domain.CodeType, bool) {
	for t, f := range formats {
		if f.prefix == "" {
			continue
		}
		if strings.HasPrefix(code, f.prefix) && len(code) >= len(f.prefix)+f.randomLen {
			return t, true
		}
	}
	if isConfirmation(code) {
		return domain.CodeTypeConfirmation, true
	}
	if len(code) == 6 && isAlphanumeric(code) {
		return domain.CodeTypeBookingRef, true
	}
	return "", false
}

func isConfirmation(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i, r := range code {
		if i < 2 && (r < 'A' || r > 'Z') {
			return false
		}
		if i >= 2 && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func isAlphanumeric(code string) bool {
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ExistsFunc reports whether a candidate code is already present in storage
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// RandFunc draws n characters from the given alphabet. Implementations may be
// backed by any randomness source; codes are not secrets, only
// collision-resistant.
type RandFunc func(n int, alphabet string) string

// MathRand is the default RandFunc, backed by math/rand's shared source
func MathRand(n int, alphabet string) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Options tunes a single generation call
type Options struct {
	// DisableTimestamp suppresses the trailing timestamp fragment on code
	// types that carry one
	DisableTimestamp bool
}

// Generator composes candidate codes and verifies them against storage with a
// bounded retry budget.
type Generator struct {
	exists      ExistsFunc
	maxAttempts uint64
	randFn      RandFunc
	now         func() time.Time
}

// Option customizes a Generator
type Option func(*Generator)

// WithMaxAttempts overrides the retry budget
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = uint64(n)
		}
	}
}

// WithRandFunc swaps the randomness source
func WithRandFunc(fn RandFunc) Option {
	return func(g *Generator) { g.randFn = fn }
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator whose existence check is injected by the caller
func New(exists ExistsFunc, opts ...Option) *Generator {
	g := &Generator{
		exists:      exists,
		maxAttempts: DefaultMaxAttempts,
		randFn:      MathRand,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a candidate code not present in storage at check time, or
// domain.ErrRetriesExhausted once the budget runs out. It never returns a
// possibly-colliding code.
func (g *Generator) Generate(ctx context.Context, t domain.CodeType, o Options) (string, error) {
	var code string
	op := func() error {
		candidate := g.compose(t, o)
		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("existence check failed: %w", err))
		}
		if taken {
			return errCollision
		}
		code = candidate
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, g.maxAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, errCollision) {
			return "", domain.ErrRetriesExhausted
		}
		return "", err
	}
	return code, nil
}

// Preview composes an example code without any storage check. Preview codes
// carry no uniqueness guarantee and must never be written to storage.
func (g *Generator) Preview(t domain.CodeType, o Options) string {
	return g.compose(t, o)
}

// compose builds one candidate according to the type's format
func (g *Generator) compose(t domain.CodeType, o Options) string {
	if t == domain.CodeTypeConfirmation {
		// 2 letters + 4 digits, no prefix or timestamp
		return g.randFn(2, alphabetUpper) + g.randFn(4, alphabetDigits)
	}

	f, ok := formats[t]
	if !ok {
		// Unknown types fall back to a generic ticket format
		f = format{prefix: "TK", randomLen: 6, allowsSuffix: true}
	}

	code := f.prefix + g.randFn(f.randomLen, alphabetCode)
	if f.allowsSuffix && !o.DisableTimestamp {
		code += fmt.Sprintf("%04d", g.now().UnixMilli()%10000)
	}
	return code
}
