package pagination

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	c := Cursor{
		V:   1,
		Pid: "parse-123",
		Rg:  RegionBlocks,
		Off: 200,
		Ps:  1000,
	}
	tok, err := EncodeCursor(c)
	if err != nil {
		t.Fatalf("EncodeCursor error: %v", err)
	}
	// token should be url-safe base64 (no '+', '/', '=')
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token contains non-url-safe chars: %q", tok)
	}
	out, err := DecodeCursor(tok)
	if err != nil {
		t.Fatalf("DecodeCursor error: %v", err)
	}
	if out.Pid != c.Pid || out.Rg != c.Rg || out.Off != c.Off || out.Ps != c.Ps {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, c)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []string{
		"",    // empty
		"!!!", // not base64
		base64.RawURLEncoding.EncodeToString([]byte("not-json")),
		// missing required fields
		mustB64(`{"v":1}`),
		mustB64(`{"v":1,"pid":"","rg":"blocks","off":0,"ps":10}`),
		mustB64(`{"v":1,"pid":"p","rg":"bad","off":0,"ps":10}`),
		mustB64(`{"v":1,"pid":"p","rg":"clusters","off":-1,"ps":10}`),
		mustB64(`{"v":1,"pid":"p","rg":"clusters","off":0,"ps":0}`),
	}
	for i, tok := range cases {
		if _, err := DecodeCursor(tok); err == nil {
			t.Fatalf("case %d: expected error for token %q", i, tok)
		}
	}
}

func FuzzDecodeCursor(f *testing.F) {
	seeds := []string{
		"", "abc", mustB64(`{"v":1}`), mustB64(`{"pid":"p"}`),
		mustB64(`{"v":1,"pid":"p","rg":"blocks","off":0,"ps":1}`),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, token string) {
		_, _ = DecodeCursor(token)
	})
}

func mustB64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
