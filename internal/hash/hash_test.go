package hash

import (
	"testing"

	"github.com/pixelfolio/api/internal/domain"
)

func TestText_KnownDigest(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Text("abc"); got != want {
		t.Errorf("Text(abc) = %s, want %s", got, want)
	}
}

func TestText_Deterministic(t *testing.T) {
	if Text("hello") != Text("hello") {
		t.Error("same input produced different digests")
	}
	if Text("hello") == Text("hello ") {
		t.Error("different inputs produced the same digest")
	}
}

func TestFingerprintCorpus_OrderIndependent(t *testing.T) {
	a := domain.Document{ID: "a", Content: "cats are great pets"}
	b := domain.Document{ID: "b", Content: "quarterly revenue report"}
	c := domain.Document{ID: "c", Content: "pixel art tips"}

	fp1 := FingerprintCorpus([]domain.Document{a, b, c})
	fp2 := FingerprintCorpus([]domain.Document{c, a, b})
	fp3 := FingerprintCorpus([]domain.Document{b, c, a})

	if fp1 != fp2 || fp2 != fp3 {
		t.Errorf("fingerprint depends on document order: %s %s %s", fp1, fp2, fp3)
	}
}

func TestFingerprintCorpus_ContentSensitive(t *testing.T) {
	docs := []domain.Document{
		{ID: "a", Content: "original"},
		{ID: "b", Content: "other"},
	}
	fp := FingerprintCorpus(docs)

	changed := []domain.Document{
		{ID: "a", Content: "edited"},
		{ID: "b", Content: "other"},
	}
	if FingerprintCorpus(changed) == fp {
		t.Error("content change did not change the fingerprint")
	}

	removed := []domain.Document{{ID: "a", Content: "original"}}
	if FingerprintCorpus(removed) == fp {
		t.Error("document removal did not change the fingerprint")
	}
}

func TestFingerprintCorpus_MetadataIgnored(t *testing.T) {
	plain := []domain.Document{{ID: "a", Content: "text"}}
	tagged := []domain.Document{{ID: "a", Content: "text", Metadata: map[string]string{"section": "about"}}}

	if FingerprintCorpus(plain) != FingerprintCorpus(tagged) {
		t.Error("metadata change invalidated the fingerprint")
	}
}

func TestFingerprintCorpus_Empty(t *testing.T) {
	if FingerprintCorpus(nil) != FingerprintCorpus([]domain.Document{}) {
		t.Error("nil and empty corpus fingerprints differ")
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tell me about pets", "tell me about pets"},
		{"  tell me about pets  ", "tell me about pets"},
		{"tell\tme   about\n pets", "tell me about pets"},
		{"   ", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeQuery_Idempotent(t *testing.T) {
	q := "  what   does\tthe owner  do? "
	once := NormalizeQuery(q)
	if NormalizeQuery(once) != once {
		t.Error("NormalizeQuery is not idempotent")
	}
}
