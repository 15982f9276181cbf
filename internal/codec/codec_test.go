package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/imgname/internal/apperr"
	"github.com/starford/imgname/internal/models"
)

func ts(y, mo, d, h, mi, s int) models.Timestamp {
	return models.Timestamp{Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s}
}

func TestEncode_KnownTokens(t *testing.T) {
	tests := []struct {
		in   models.Timestamp
		want string
	}{
		{ts(2024, 6, 11, 6, 32, 30), "YFB23550"},
		{ts(2024, 6, 11, 6, 32, 31), "YFB23551"},
		{ts(2020, 5, 30, 17, 40, 59), "UEU63659"},
		{ts(2000, 1, 1, 0, 0, 0), "AA100000"},
		{ts(2025, 12, 31, 23, 59, 59), "ZLV86399"},
		{ts(2016, 5, 4, 3, 2, 1), "QE410921"},
		{ts(2019, 10, 9, 0, 0, 7), "TJ900007"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode(%v): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode_OutOfRange(t *testing.T) {
	cases := map[string]models.Timestamp{
		"year before range": ts(1999, 1, 1, 0, 0, 0),
		"year after range":  ts(2026, 1, 1, 0, 0, 0),
		"month zero":        ts(2024, 0, 1, 0, 0, 0),
		"month thirteen":    ts(2024, 13, 1, 0, 0, 0),
		"day zero":          ts(2024, 1, 0, 0, 0, 0),
		"day thirty-two":    ts(2024, 1, 32, 0, 0, 0),
		"hour twenty-four":  ts(2024, 1, 1, 24, 0, 0),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Encode(in)
			if !errors.Is(err, apperr.ErrOutOfRange) {
				t.Errorf("Encode(%v) err = %v, want ErrOutOfRange", in, err)
			}
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	samples := []int{0, 1, 29, 30, 58, 59}
	for y := 2000; y <= 2025; y++ {
		for mo := 1; mo <= 12; mo++ {
			for d := 1; d <= 31; d++ {
				for h := 0; h <= 23; h++ {
					for _, mi := range samples {
						s := samples[(h+d)%len(samples)]
						in := ts(y, mo, d, h, mi, s)
						tok, err := Encode(in)
						if err != nil {
							t.Fatalf("Encode(%v): %v", in, err)
						}
						if len(tok) != TokenLen {
							t.Fatalf("Encode(%v) = %q, want length %d", in, tok, TokenLen)
						}
						got, ok := Decode(tok)
						if !ok || got != in {
							t.Fatalf("Decode(Encode(%v)) = %v, %v", in, got, ok)
						}
					}
				}
			}
		}
	}
}

func TestEncode_LexicographicWithinDay(t *testing.T) {
	prev := ""
	for sod := 0; sod < 86400; sod += 37 {
		in := ts(2024, 6, 11, sod/3600, sod%3600/60, sod%60)
		tok, err := Encode(in)
		if err != nil {
			t.Fatal(err)
		}
		if prev != "" && !(prev < tok) {
			t.Fatalf("tokens out of order: %q then %q", prev, tok)
		}
		prev = tok
	}
}

func TestDecode_Lenient(t *testing.T) {
	tests := []struct {
		in   string
		want models.Timestamp
	}{
		{"AA10", ts(2000, 1, 1, 0, 0, 0)},
		{"AA1123", ts(2000, 1, 1, 0, 2, 3)},
		{"UEU63659", ts(2020, 5, 30, 17, 40, 59)},
		{"yfb23550", ts(2024, 6, 11, 6, 32, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Decode(tt.in)
			if !ok {
				t.Fatalf("Decode(%q) failed", tt.in)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"AA1",
		"1A100000",
		"_A100000",
		"AM100000",
		"AAW00000",
		"AA000000",
		"AA186400",
		"AA1-1",
		"AA1 2",
		"AA1000000",
		"IMG_1234",
	} {
		if got, ok := Decode(in); ok {
			t.Errorf("Decode(%q) = %v, want failure", in, got)
		}
	}
}

func TestDirName(t *testing.T) {
	if got := DirName(ts(2024, 6, 1, 23, 0, 0)); got != "2024-06-01" {
		t.Errorf("DirName = %q", got)
	}
}

func TestParseLiteral(t *testing.T) {
	got, err := ParseLiteral("2016:05:04 03:02:01\x00")
	if err != nil {
		t.Fatalf("ParseLiteral: %v", err)
	}
	if diff := cmp.Diff(ts(2016, 5, 4, 3, 2, 1), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"", "    :  :     :  :  ", "2016-05-04 03:02:01", "2016:13:04 03:02:01"} {
		if _, err := ParseLiteral(bad); !errors.Is(err, apperr.ErrUnreadableDate) {
			t.Errorf("ParseLiteral(%q) err = %v, want ErrUnreadableDate", bad, err)
		}
	}
}

func TestTokenFromName(t *testing.T) {
	tests := map[string]string{
		"YFB23550.jpg":            "YFB23550",
		"VID_YFB23550.mp4":        "YFB23550",
		"YFB23550-1.jpg":          "YFB23550",
		"AA1123.jpg":              "AA1123",
		"VID_20240611_0632.mp4":   "20240611",
		"2024-06-11/YFB23550.jpg": "YFB23550",
		"/x/VID_YFB23550.mp4":     "YFB23550",
	}
	for in, want := range tests {
		if got := TokenFromName(in); got != want {
			t.Errorf("TokenFromName(%q) = %q, want %q", in, got, want)
		}
	}
}
