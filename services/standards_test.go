package services

import "testing"

func TestBodyLookup(t *testing.T) {
	if _, ok := Body("coda"); !ok {
		t.Errorf("coda should exist in the catalog")
	}
	if _, ok := Body("  CODA "); !ok {
		t.Errorf("body lookup should trim and lower the key")
	}
	if _, ok := Body("unknown"); ok {
		t.Errorf("unknown body key must not resolve")
	}
}

func TestNormalizeStandardID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ADA-1.1", "ada11"},
		{"ada11", "ada11"},
		{"ADA 1.1", "ada11"},
		{" CODA-2.3 ", "coda23"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeStandardID(c.in); got != c.want {
			t.Errorf("NormalizeStandardID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFindStandard(t *testing.T) {
	ada, ok := Body("ada")
	if !ok {
		t.Fatal("ada catalog missing")
	}

	std, ok := FindStandard(ada, "ada11")
	if !ok || std.ID != "ADA-1.1" {
		t.Errorf("mangled id should resolve to the catalog id, got %+v ok=%v", std, ok)
	}
	std, ok = FindStandard(ada, "ADA 3.2")
	if !ok || std.ID != "ADA-3.2" {
		t.Errorf("spaced id should resolve, got %+v ok=%v", std, ok)
	}
	if _, ok := FindStandard(ada, "ADA-9.9"); ok {
		t.Errorf("unknown id must not resolve")
	}
	if _, ok := FindStandard(ada, "  "); ok {
		t.Errorf("blank id must not resolve")
	}
}
