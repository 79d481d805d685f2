package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		baseUnits string
		want      string
	}{
		{"0", "0"},
		{"100000000", "1"},
		{"150000000", "1.5"},
		{"100500000", "1.005"},
		{"1", "0.00000001"},
		{"12345678", "0.12345678"},
		{"123456789012345678", "1,234,567,890.12345678"},

		// Exceeds 2^53: must not round-trip through floating point.
		{"92233720368547758080", "922,337,203,685.4775808"},
	}

	for _, tt := range tests {
		got, err := Amount(tt.baseUnits)
		require.NoError(t, err, tt.baseUnits)
		assert.Equal(t, tt.want, got, tt.baseUnits)
	}
}

func TestAmountInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "1.5", "0x10"} {
		_, err := Amount(in)
		assert.Error(t, err, in)

		_, err = AmountWhole(in)
		assert.Error(t, err, in)

		_, err = AmountAbbrev(in)
		assert.Error(t, err, in)
	}
}

func TestAmountWholeTruncates(t *testing.T) {
	got, err := AmountWhole("199999999")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = AmountWhole("4500000012345678")
	require.NoError(t, err)
	assert.Equal(t, "45,000,000", got)
}

func TestAmountAbbrev(t *testing.T) {
	tests := []struct {
		baseUnits string
		want      string
	}{
		{"50000000000", "500"},
		{"1230000000000", "12.3K"},
		{"4500000000000000", "45.00M"},
		{"250000000000000000", "2.50B"},
	}

	for _, tt := range tests {
		got, err := AmountAbbrev(tt.baseUnits)
		require.NoError(t, err, tt.baseUnits)
		assert.Equal(t, tt.want, got, tt.baseUnits)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "0s ago"},
		{59 * time.Second, "59s ago"},
		{60 * time.Second, "1m ago"},
		{59*time.Minute + 59*time.Second, "59m ago"},
		{time.Hour, "1h ago"},
		{23 * time.Hour, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{29 * 24 * time.Hour, "29d ago"},
		{30 * 24 * time.Hour, "1mo ago"},
		{359 * 24 * time.Hour, "11mo ago"},
		{360 * 24 * time.Hour, "1y ago"},
		{420 * 24 * time.Hour, "1y 2mo ago"},
	}

	for _, tt := range tests {
		got := TimeAgo(now.Add(-tt.elapsed).Unix(), now)
		assert.Equal(t, tt.want, got, tt.elapsed.String())
	}
}

func TestTimeAgoFutureSaturates(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, "0s ago", TimeAgo(now.Unix()+120, now))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "Jan 1, 1970 00:00:00", Date(0))
	assert.Equal(t, "Nov 14, 2023 22:13:20", Date(1_700_000_000))
}

func TestTruncateHash(t *testing.T) {
	hash := "f39a1c6075c64f2899168dfc61cb45f62a827ad6a8c1b2f6a1ac43d60e4cc4f9"
	assert.Equal(t, "f39a1c60...0e4cc4f9", TruncateHash(hash, 8, 8))

	// Short enough to keep whole.
	assert.Equal(t, "abcdef", TruncateHash("abcdef", 8, 8))
}

func TestTxTypeLabel(t *testing.T) {
	assert.Equal(t, "Transfer", TxTypeLabel(0, 1))
	assert.Equal(t, "Vote", TxTypeLabel(3, 1))
	assert.Equal(t, "HTLC Refund", TxTypeLabel(10, 1))
	assert.Equal(t, "Type 99", TxTypeLabel(99, 1))

	// Non-core groups render generically even for known type numbers.
	assert.Equal(t, "Type 0", TxTypeLabel(0, 2))
}
