package storage

import "testing"

func TestObjectURLRoundTrip(t *testing.T) {
	m := &MinIOClient{bucket: "uploads", baseURL: "https://cdn.example.com", prefix: "surveys"}

	u := m.ObjectURL(m.imageObject("1700000000000-abc.png"))
	if u != "https://cdn.example.com/uploads/surveys/1700000000000-abc.png" {
		t.Fatalf("unexpected url %s", u)
	}

	name, ok := m.ObjectNameFromURL(u + "?X-Amz-Signature=deadbeef")
	if !ok || name != "surveys/1700000000000-abc.png" {
		t.Fatalf("unexpected object name %q ok=%v", name, ok)
	}
}

func TestObjectNameFromURL_ForeignURL(t *testing.T) {
	m := &MinIOClient{bucket: "uploads", baseURL: "https://cdn.example.com"}

	for _, u := range []string{
		"https://elsewhere.example.com/uploads/a.png",
		"https://cdn.example.com/other/a.png",
		"https://cdn.example.com/uploads/",
		"",
	} {
		if name, ok := m.ObjectNameFromURL(u); ok {
			t.Fatalf("expected %q to be rejected, got %q", u, name)
		}
	}
}
