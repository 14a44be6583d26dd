package directory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	users := demoSeed()

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{name: "empty query returns all", query: "", wantIDs: []int64{1, 2, 3}},
		{name: "whitespace query returns all", query: "   ", wantIDs: []int64{1, 2, 3}},
		{name: "by username", query: "user1", wantIDs: []int64{2}},
		{name: "by email domain", query: "@example.com", wantIDs: []int64{1, 2, 3}},
		{name: "by role", query: "admin", wantIDs: []int64{1}},
		{name: "case insensitive", query: "USER1", wantIDs: []int64{2}},
		{name: "substring of role", query: "adm", wantIDs: []int64{1}},
		{name: "no match", query: "nobody", wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(users, tt.query)
			ids := make([]int64, 0, len(got))
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}
