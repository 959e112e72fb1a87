package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		"1.x",
		"-1.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestProtocolVersion_MajorMinor(t *testing.T) {
	v, err := Parse("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if v.Major != 1 {
		t.Errorf("Major = %d, want 1", v.Major)
	}
	if v.Minor != 0 {
		t.Errorf("Minor = %d, want 0", v.Minor)
	}
}

func TestProtocolVersion_String(t *testing.T) {
	v, err := Parse("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "1.0" {
		t.Errorf("String() = %q, want %q", v.String(), "1.0")
	}

	v2, err := Parse("10.23")
	if err != nil {
		t.Fatal(err)
	}
	if v2.String() != "10.23" {
		t.Errorf("String() = %q, want %q", v2.String(), "10.23")
	}
}

func TestCompatible_SameMajor(t *testing.T) {
	v1, _ := Parse("1.0")
	v2, _ := Parse("1.1")

	if !v1.Compatible(v2) {
		t.Error("1.0 should be compatible with 1.1")
	}
	if !v2.Compatible(v1) {
		t.Error("1.1 should be compatible with 1.0")
	}
}

func TestCompatible_DifferentMajor(t *testing.T) {
	v1, _ := Parse("1.0")
	v2, _ := Parse("2.0")

	if v1.Compatible(v2) {
		t.Error("1.0 should NOT be compatible with 2.0")
	}
	if v2.Compatible(v1) {
		t.Error("2.0 should NOT be compatible with 1.0")
	}
}

func TestSubprotocol(t *testing.T) {
	if got := Subprotocol(1); got != "msghub.v1" {
		t.Errorf("Subprotocol(1) = %q, want %q", got, "msghub.v1")
	}
	if got := Subprotocol(12); got != "msghub.v12" {
		t.Errorf("Subprotocol(12) = %q, want %q", got, "msghub.v12")
	}
}

func TestMajorFromSubprotocol(t *testing.T) {
	tests := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"msghub.v1", 1, false},
		{"msghub.v2", 2, false},
		{"chat", 0, true},
		{"msghub.v", 0, true},
		{"", 0, true},
		{"msghub.vx", 0, true},
		{"msghub.v70000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MajorFromSubprotocol(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("MajorFromSubprotocol(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("MajorFromSubprotocol(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSupportedSubprotocols(t *testing.T) {
	protos := SupportedSubprotocols()
	if len(protos) != 1 {
		t.Fatalf("SupportedSubprotocols() returned %d protocols, want 1", len(protos))
	}
	if protos[0] != "msghub.v1" {
		t.Errorf("SupportedSubprotocols()[0] = %q, want %q", protos[0], "msghub.v1")
	}
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{
		"":          true,
		"msghub.v1": true,
		"msghub.v2": false,
		"chat":      false,
	}
	for selected, want := range tests {
		if got := IsSupported(selected); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", selected, got, want)
		}
	}
}

func TestCurrent(t *testing.T) {
	v, err := Parse(Current)
	if err != nil {
		t.Fatalf("Parse(Current) returned error: %v", err)
	}
	if v.Major != 1 || v.Minor != 0 {
		t.Errorf("Current version = %s, want 1.0", v)
	}
}
