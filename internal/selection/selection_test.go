package selection

import (
	"errors"
	"testing"

	"hayami/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		count   int
		want    []int
		wantErr error
	}{
		{
			name:  "Ascending range with extra index",
			text:  "1-3,5",
			count: 10,
			want:  []int{1, 2, 3, 5},
		},
		{
			name:  "Descending range",
			text:  "5-3",
			count: 10,
			want:  []int{5, 4, 3},
		},
		{
			name:  "Duplicates keep first occurrence order",
			text:  "1,1,2",
			count: 10,
			want:  []int{1, 2},
		},
		{
			name:  "Overlapping ranges dedup after expansion",
			text:  "5-3,4",
			count: 10,
			want:  []int{5, 4, 3},
		},
		{
			name:  "Noise between matches is ignored",
			text:  "give me 2 and 7 - 9 please",
			count: 10,
			want:  []int{2, 7, 8, 9},
		},
		{
			name:    "Too many indices",
			text:    "1-15",
			count:   20,
			wantErr: ErrTooMany,
		},
		{
			name:    "Below lower bound",
			text:    "0-2",
			count:   10,
			wantErr: ErrOutOfBounds,
		},
		{
			name:    "Above count",
			text:    "3-5",
			count:   4,
			wantErr: ErrOutOfBounds,
		},
		{
			name:  "No matches yield empty list",
			text:  "no numbers here",
			count: 10,
			want:  []int{},
		},
		{
			name:  "Empty input yields empty list",
			text:  "",
			count: 10,
			want:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, tt.count)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrorCodes(t *testing.T) {
	_, err := Parse("1-15", 20)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeRangeTooMany, appErr.Code)

	_, err = Parse("0", 10)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeRangeOutOfBounds, appErr.Code)
}

func TestParseExactlyMaxIndices(t *testing.T) {
	got, err := Parse("1-10", 10)
	require.NoError(t, err)
	assert.Len(t, got, MaxIndices)
}
