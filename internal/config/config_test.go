package config

import "testing"

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BBox
		wantErr bool
	}{
		{
			name:  "Newtonmore",
			input: "-4.1386,57.0572,-4.0877,57.0729",
			want:  BBox{West: -4.1386, South: 57.0572, East: -4.0877, North: 57.0729},
		},
		{
			name:  "spaces are trimmed",
			input: " 7.409, 43.724 ,7.440,43.752",
			want:  BBox{West: 7.409, South: 43.724, East: 7.440, North: 43.752},
		},
		{name: "too few values", input: "1,2,3", wantErr: true},
		{name: "not a number", input: "a,2,3,4", wantErr: true},
		{name: "west after east", input: "5,1,4,2", wantErr: true},
		{name: "south after north", input: "1,5,2,4", wantErr: true},
		{name: "latitude out of range", input: "1,-91,2,4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBBox(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBBox(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBBox(%q) unexpected error: %v", tt.input, err)
			}
			if *got != tt.want {
				t.Errorf("ParseBBox(%q) = %+v, want %+v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestBBoxString(t *testing.T) {
	b := DefaultConfig().BBox
	if got, want := b.String(), "-4.1386,57.0572,-4.0877,57.0729"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	bounds := b.Bounds()
	if bounds.MinLon != b.West || bounds.MaxLat != b.North {
		t.Errorf("Bounds() = %+v does not match %+v", bounds, b)
	}
	if !b.Contains(57.06, -4.12) {
		t.Error("expected Newtonmore centre to be inside the box")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	cfg.Source = SourceFile
	if err := cfg.Validate(); err == nil {
		t.Error("file source without input should fail")
	}
	cfg.InputFile = "map.osm"
	if err := cfg.Validate(); err != nil {
		t.Errorf("file source with input should pass: %v", err)
	}

	cfg.Source = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown source should fail")
	}

	cfg = DefaultConfig()
	cfg.Format = "xlsx"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.OutputFormat(); got != FormatCSV {
		t.Errorf("OutputFormat() = %q, want csv", got)
	}
	cfg.OutputFile = "houses.PARQUET"
	if got := cfg.OutputFormat(); got != FormatParquet {
		t.Errorf("OutputFormat() = %q, want parquet", got)
	}
	cfg.Format = FormatCSV
	if got := cfg.OutputFormat(); got != FormatCSV {
		t.Errorf("explicit format should win, got %q", got)
	}
}
