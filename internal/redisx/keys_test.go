package redisx

import "testing"

func TestKeys(t *testing.T) {
	cases := []struct{ got, want string }{
		{IdemOrderCreateKey("asha@example.com", "k-1"), "idem:order:create:asha@example.com:k-1"},
		{OrderStatusKey("o-1"), "order_status:o-1"},
		{DedupKey("notifier", "e-1"), "dedup:notifier:e-1"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("expected %s, got %s", tc.want, tc.got)
		}
	}
}
