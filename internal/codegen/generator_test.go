package codegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertigo/travel-planner/internal/domain"
)

func neverExists(context.Context, string) (bool, error) {
	return false, nil
}

func fixedRand(s string) RandFunc {
	return func(n int, alphabet string) string {
		if n > len(s) {
			n = len(s)
		}
		return s[:n]
	}
}

func TestGenerateFormats(t *testing.T) {
	clock := func() time.Time {
		return time.UnixMilli(1716200001234)
	}
	g := New(neverExists, WithRandFunc(fixedRand("ABC123XYZ9")), WithClock(clock))

	tests := []struct {
		name     string
		codeType domain.CodeType
		opts     Options
		want     string
	}{
		{
			name:     "flight with timestamp",
			codeType: domain.CodeTypeFlight,
			want:     "FLABC123" + fmt.Sprintf("%04d", int64(1716200001234)%10000),
		},
		{
			name:     "flight without timestamp",
			codeType: domain.CodeTypeFlight,
			opts:     Options{DisableTimestamp: true},
			want:     "FLABC123",
		},
		{
			name:     "train avoids the tracker prefix",
			codeType: domain.CodeTypeTrain,
			opts:     Options{DisableTimestamp: true},
			want:     "TNABC123",
		},
		{
			name:     "booking ref carries no prefix or timestamp",
			codeType: domain.CodeTypeBookingRef,
			want:     "ABC123",
		},
		{
			name:     "tracker",
			codeType: domain.CodeTypeTracker,
			want:     "TRABC123XY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := g.Generate(context.Background(), tt.codeType, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestGenerateConfirmationShape(t *testing.T) {
	g := New(neverExists)

	code, err := g.Generate(context.Background(), domain.CodeTypeConfirmation, Options{})
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code[:2] {
		assert.Contains(t, alphabetUpper, string(r))
	}
	for _, r := range code[2:] {
		assert.Contains(t, alphabetDigits, string(r))
	}
}

func TestGenerateSkipsTakenCodes(t *testing.T) {
	calls := 0
	exists := func(_ context.Context, code string) (bool, error) {
		calls++
		// First two candidates collide
		return calls <= 2, nil
	}

	g := New(exists, WithMaxAttempts(5))
	code, err := g.Generate(context.Background(), domain.CodeTypeHotel, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "HT"))
	assert.Equal(t, 3, calls)
}

func TestGenerateExhaustsBudget(t *testing.T) {
	calls := 0
	alwaysTaken := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	g := New(alwaysTaken, WithMaxAttempts(4))
	_, err := g.Generate(context.Background(), domain.CodeTypeBus, Options{})
	require.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 4, calls)
}

func TestGenerateStoreErrorIsPermanent(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	failing := func(context.Context, string) (bool, error) {
		calls++
		return false, boom
	}

	g := New(failing, WithMaxAttempts(10))
	_, err := g.Generate(context.Background(), domain.CodeTypeFerry, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "store errors must not be retried")
}

func TestPreviewDoesNotCheckStorage(t *testing.T) {
	exists := func(context.Context, string) (bool, error) {
		t.Fatal("preview must not consult storage")
		return false, nil
	}

	g := New(exists, WithRandFunc(fixedRand("ZZZZZZZZ")))
	code := g.Preview(domain.CodeTypeTour, Options{DisableTimestamp: true})
	assert.Equal(t, "TOZZZZZZ", code)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "FL", Prefix(domain.CodeTypeFlight))
	assert.Equal(t, "TN", Prefix(domain.CodeTypeTrain))
	assert.Equal(t, "TR", Prefix(domain.CodeTypeTracker))
	assert.Equal(t, "", Prefix(domain.CodeTypeBookingRef))
	assert.Equal(t, "", Prefix(domain.CodeTypeConfirmation))
}

func TestNoTicketPrefixCollidesWithTracker(t *testing.T) {
	for _, t2 := range domain.TicketCodeTypes {
		assert.NotEqual(t, domain.TrackerPrefix, Prefix(t2), "type %s", t2)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code  string
		want  domain.CodeType
		known bool
	}{
		{"FLABC1231234", domain.CodeTypeFlight, true},
		{"FLABC123", domain.CodeTypeFlight, true},
		{"TNXY12349876", domain.CodeTypeTrain, true},
		{"TRABC123XY", domain.CodeTypeTracker, true},
		{"AB1234", domain.CodeTypeConfirmation, true},
		{"ABC123", domain.CodeTypeBookingRef, true},
		// Too short for a prefixed ticket, shaped like a confirmation
		{"TO1234", domain.CodeTypeConfirmation, true},
		{"FL123", "", false},
		{"ab1234", "", false},
		{"", "", false},
		{"X", "", false},
	}

	for _, tc := range tests {
		got, known := Classify(tc.code)
		assert.Equal(t, tc.known, known, "code %q", tc.code)
		assert.Equal(t, tc.want, got, "code %q", tc.code)
	}
}
