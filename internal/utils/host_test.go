package utils

import "testing"

func TestGetHostStable(t *testing.T) {
	first := GetHost()
	if first == "" {
		t.Fatal("expected a hostname")
	}
	if GetHost() != first {
		t.Error("expected cached hostname")
	}
}

func TestToJSONString(t *testing.T) {
	if got := ToJSONString(map[string]int{"a": 1}); got != `{"a":1}` {
		t.Errorf("unexpected %s", got)
	}
	if got := ToJSONString(make(chan int)); got != "<marshal error>" {
		t.Errorf("unexpected %s", got)
	}
}
