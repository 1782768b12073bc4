package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizePhotoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "keeps https", input: "https://cdn.example.com/p/1.jpg", want: "https://cdn.example.com/p/1.jpg"},
		{name: "keeps http", input: "http://cdn.example.com/p/1.jpg", want: "http://cdn.example.com/p/1.jpg"},
		{name: "adds scheme to bare host", input: "cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		{name: "lower-cases host not path", input: "HTTPS://CDN.Example.com/Photos/A.JPG", want: "https://cdn.example.com/Photos/A.JPG"},
		{name: "drops tracking params", input: "https://cdn.example.com/a.jpg?utm_source=x&w=800", want: "https://cdn.example.com/a.jpg?w=800"},
		{name: "drops fragment", input: "https://cdn.example.com/a.jpg#top", want: "https://cdn.example.com/a.jpg"},
		{name: "rejects other schemes", input: "ftp://cdn.example.com/a.jpg", want: ""},
		{name: "rejects javascript", input: "javascript://alert(1)", want: ""},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhotoURL(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhotoURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizePhotoURL(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizePhotoURLs_DeduplicatesAndDropsInvalid(t *testing.T) {
	input := []string{
		"https://cdn.example.com/a.jpg",
		"HTTPS://CDN.EXAMPLE.COM/a.jpg",
		"ftp://nope/a.jpg",
		"",
		"https://cdn.example.com/b.jpg",
	}
	want := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}

	if got := NormalizePhotoURLs(input); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizePhotoURLs() = %v, want %v", got, want)
	}
}

func TestSanitizeSlice_EmptyInput(t *testing.T) {
	got := SanitizeSlice(nil, TrimAndNormalize)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
