package stream

import "testing"

func TestParseEndpoint_DefaultsAndNormalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultEndpoint},
		{"  ", DefaultEndpoint},
		{"127.0.0.1:3000", "ws://127.0.0.1:3000/ws"},
		{"ws://drone.local:9000/telemetry", "ws://drone.local:9000/telemetry"},
		{"http://drone.local:3000", "ws://drone.local:3000/ws"},
		{"https://bridge.example.com/feed", "wss://bridge.example.com/feed"},
		{"wss://bridge.example.com/ws#frag", "wss://bridge.example.com/ws"},
	}
	for _, tt := range tests {
		got, err := ParseEndpoint(tt.in)
		if err != nil {
			t.Fatalf("ParseEndpoint(%q) error: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseEndpoint(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestParseEndpoint_Rejects(t *testing.T) {
	for _, in := range []string{"ftp://host/ws", "ws://", "ws://%zz"} {
		if _, err := ParseEndpoint(in); err == nil {
			t.Fatalf("ParseEndpoint(%q) expected error", in)
		}
	}
}
