package core

import "testing"

func TestSubnetOf(t *testing.T) {
	cases := []struct {
		ip   string
		want string
	}{
		{"203.0.113.7", "203.0.0.0/16"},
		{"8.8.8.8", "8.8.0.0/16"},
		{"not-an-ip", ""},
		{"::1", ""},
	}
	for _, c := range cases {
		if got := SubnetOf(c.ip); got != c.want {
			t.Errorf("SubnetOf(%q) = %q, want %q", c.ip, got, c.want)
		}
	}
}
