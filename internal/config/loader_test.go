package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("FO_TEST_SET", "from-env")

	tests := []struct {
		in   string
		want string
	}{
		{"key: ${FO_TEST_SET}", "key: from-env"},
		{"key: ${FO_TEST_SET:fallback}", "key: from-env"},
		{"key: ${FO_TEST_UNSET:fallback}", "key: fallback"},
		{"key: ${FO_TEST_UNSET_EMPTY:}", "key: "},
		{"key: ${FO_TEST_UNSET}", "key: ${FO_TEST_UNSET}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range tests {
		if got := expandEnv(tc.in); got != tc.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
