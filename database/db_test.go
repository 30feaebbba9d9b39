package database

import "testing"

func TestConnectRetries(t *testing.T) {
	cases := []struct {
		env  string
		want int
	}{
		{"", 5},
		{"3", 3},
		{"0", 1},
		{"-2", 1},
		{"not-a-number", 1},
	}
	for _, c := range cases {
		t.Setenv("DB_CONNECT_RETRIES", c.env)
		if got := connectRetries(); got != c.want {
			t.Errorf("DB_CONNECT_RETRIES=%q: got %d, want %d", c.env, got, c.want)
		}
	}
}
