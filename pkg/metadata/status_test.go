package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatus(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected Status
		wantErr  bool
	}{
		{
			name:     "Available",
			value:    "available",
			expected: StatusAvailable,
		},
		{
			name:     "Checked Out",
			value:    "checked_out",
			expected: StatusCheckedOut,
		},
		{
			name:     "On Hold",
			value:    "on_hold",
			expected: StatusOnHold,
		},
		{
			name:     "Lost",
			value:    "lost",
			expected: StatusLost,
		},
		{
			name:    "Unknown status",
			value:   "in_transit",
			wantErr: true,
		},
		{
			name:    "Empty status",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := NewStatus(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}
