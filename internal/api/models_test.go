package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{"epoch millis number", `1788220800000`, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"epoch millis string", `"1788220800000"`, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"RFC 3339", `"2026-09-01T12:30:00Z"`, time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)},
		{"date only", `"2026-09-01"`, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"null leaves zero", `null`, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(tc.json), &ft))
			assert.True(t, tc.want.Equal(ft.Time), "got %v, want %v", ft.Time, tc.want)
		})
	}

	for _, bad := range []string{`"yesterday"`, `true`} {
		var ft FlexTime
		assert.Error(t, json.Unmarshal([]byte(bad), &ft), "input %s", bad)
	}
}

func TestFlexBoolUnmarshal(t *testing.T) {
	tests := []struct {
		json string
		want FlexBool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"False"`, false},
		{`null`, false},
	}
	for _, tc := range tests {
		var fb FlexBool
		require.NoError(t, json.Unmarshal([]byte(tc.json), &fb), "input %s", tc.json)
		assert.Equal(t, tc.want, fb, "input %s", tc.json)
	}

	for _, bad := range []string{`"yes"`, `1`} {
		var fb FlexBool
		assert.Error(t, json.Unmarshal([]byte(bad), &fb), "input %s", bad)
	}
}

func TestPendingListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want PendingList
	}{
		{"array", `["a","b"]`, PendingList{"a", "b"}},
		{"single string", `"a"`, PendingList{"a"}},
		{"comma separated", `"a, b ,c"`, PendingList{"a", "b", "c"}},
		{"empty segments dropped", `",a,,"`, PendingList{"a"}},
		{"empty string", `""`, nil},
		{"null", `null`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p PendingList
			require.NoError(t, json.Unmarshal([]byte(tc.json), &p))
			assert.Equal(t, tc.want, p)
		})
	}

	var p PendingList
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p), "non-string entries are rejected")
}
