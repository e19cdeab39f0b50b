package katagami

import "testing"

func TestValueIsString(t *testing.T) {
	if !AsValue("hi").IsString() {
		t.Error("want string value to report IsString")
	}
	if AsValue(1).IsString() {
		t.Error("want int value to report !IsString")
	}
}

func TestValueTypeName(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{1, "int"},
		{int64(1), "int64"},
		{"x", "string"},
		{nil, "<nil>"},
	}
	for _, c := range cases {
		if got := AsValue(c.v).TypeName(); got != c.want {
			t.Errorf("AsValue(%#v).TypeName() = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestValueStringDefaultCast(t *testing.T) {
	if got := AsValue(42).String(); got != "42" {
		t.Errorf("got %q", got)
	}
	if got := AsValue("already").String(); got != "already" {
		t.Errorf("got %q", got)
	}
}

func TestValueIsNil(t *testing.T) {
	var p *int
	if !AsValue(p).IsNil() {
		t.Error("want nil pointer to report IsNil")
	}
	if AsValue(0).IsNil() {
		t.Error("zero int is not nil")
	}
}
