package graph_test

import (
	"errors"
	"testing"

	"github.com/Strob0t/RouteForge/port/graph"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		wantErr   bool
	}{
		{"simple match", "MATCH (n:Service) RETURN n.name", false},
		{"trailing separator tolerated", "MATCH (n) RETURN n;", false},
		{"trailing separator with space", "MATCH (n) RETURN n ; ", false},
		{"create rejected", "CREATE (n:Service {name: 'api'})", true},
		{"lowercase create rejected", "create (n) return n", true},
		{"merge rejected", "MERGE (n:Service {name: 'api'}) RETURN n", true},
		{"delete rejected", "MATCH (n) DELETE n", true},
		{"set rejected", "MATCH (n) SET n.flag = true RETURN n", true},
		{"chained statements rejected", "MATCH (n) RETURN n; MATCH (m) RETURN m", true},
		{"empty rejected", "", true},
		{"only separator rejected", ";", true},
		{"verb as substring allowed", "MATCH (n:Dataset) RETURN n.createdAt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := graph.Validate(tt.statement)
			if tt.wantErr && err == nil {
				t.Fatalf("Validate(%q) = nil, want error", tt.statement)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate(%q) = %v, want nil", tt.statement, err)
			}
			if err != nil {
				var verr *graph.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error must be *ValidationError, got %T", err)
				}
				if verr.Statement != tt.statement {
					t.Errorf("ValidationError.Statement = %q, want %q", verr.Statement, tt.statement)
				}
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := graph.Validate("MATCH (n) DELETE n")
	if err == nil {
		t.Fatal("expected rejection")
	}
	want := `query validation failed: write verb "delete" not allowed`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
