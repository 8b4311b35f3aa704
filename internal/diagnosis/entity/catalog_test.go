package entity

import "testing"

func TestCatalog_Lookup(t *testing.T) {
	cat, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	tests := []struct {
		label       string
		wantKey     string
		wantHealthy bool
	}{
		{label: "healthy", wantKey: "healthy", wantHealthy: true},
		{label: "Brown Spot", wantKey: "brown_spot"},
		{label: "  LEAF_BLAST ", wantKey: "leaf_blast"},
		{label: "Tomato healthy", wantKey: "healthy", wantHealthy: true},
		{label: "potato_scab", wantKey: "unknown"},
		{label: "", wantKey: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			// Act
			d, healthy := cat.Lookup(tt.label)

			// Assert
			if d.Key != tt.wantKey || healthy != tt.wantHealthy {
				t.Fatalf("Lookup(%q) = %s, %v", tt.label, d.Key, healthy)
			}
			if d.Name == "" || len(d.Diagnosis) == 0 || len(d.Tips) == 0 {
				t.Fatalf("entry %s is incomplete: %+v", d.Key, d)
			}
		})
	}
}

func TestParseCatalog_RequiresFallbacks(t *testing.T) {
	// Act
	_, err := ParseCatalog([]byte("healthy:\n  name: Healthy\n"))

	// Assert
	if err != ErrCatalogIncomplete {
		t.Fatalf("error = %v, want ErrCatalogIncomplete", err)
	}
}

func TestParseCatalog_Malformed(t *testing.T) {
	// Act
	_, err := ParseCatalog([]byte("healthy: [unterminated"))

	// Assert
	if err == nil {
		t.Fatal("expected parse error")
	}
}
