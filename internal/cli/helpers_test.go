package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/persist"
	"github.com/existflow/weektrack/internal/tracker"
)

type nopStrategy struct{}

func (nopStrategy) Scope() persist.Scope { return persist.ScopeLocal }

func (nopStrategy) Load(ctx context.Context) (persist.Snapshot, error) {
	return persist.Snapshot{}, nil
}

func (nopStrategy) Commit(ctx context.Context, c persist.Change) error { return nil }

func TestResolveTimer(t *testing.T) {
	ids := []string{"abc12345-0000", "abd99999-0000", "ffff0000-0000"}
	n := 0
	tr := tracker.New(nopStrategy{}, tracker.WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))
	defer tr.Close()

	tr.AddTimer(model.NewTimer{Type: model.TypeGoal, Title: "Deep work", TotalSeconds: 60})
	tr.AddTimer(model.NewTimer{Type: model.TypeStopwatch, Title: "Reading"})
	tr.AddTimer(model.NewTimer{Type: model.TypeStopwatch, Title: "reading"})

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"abc12345-0000", "abc12345-0000", false},
		{"abc", "abc12345-0000", false},
		{"ab", "", true},
		{"deep WORK", "abc12345-0000", false},
		{"reading", "", true},
		{"ffff", "ffff0000-0000", false},
		{"missing", "", true},
		{"  ", "", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.ref), func(t *testing.T) {
			got, err := resolveTimer(tr, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveTimer(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got.ID != tt.want {
				t.Errorf("resolveTimer(%q) = %s, want %s", tt.ref, got.ID, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}
