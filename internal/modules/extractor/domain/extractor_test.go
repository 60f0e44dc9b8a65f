package domain_test

import (
	"encoding/base64"
	"errors"
	"math"
	"reflect"
	"testing"

	"skytools/internal/modules/extractor/domain"
)

const bodyPayload = `"body":0.35,"scale":1200000000`

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestDecodeBodyMarkerRoundTrip(t *testing.T) {
	t.Parallel()
	raw := encode(bodyPayload)
	if raw[:len(domain.Marker)] != domain.Marker {
		t.Fatalf("fixture should start with the body marker, got %s", raw)
	}
	got, err := domain.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Height != 0.35 || got.Scale != 1.2 {
		t.Fatalf("expected height 0.35 scale 1.2, got %+v", got)
	}
}

func TestDecodeMarkerInsideNoise(t *testing.T) {
	t.Parallel()
	got, err := domain.Decode("outfit share >> " + encode(bodyPayload) + "\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Height != 0.35 || got.Scale != 1.2 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestDecodeURLPayloadParameter(t *testing.T) {
	t.Parallel()
	link := "https://example.com/q?payload=" + encode(bodyPayload)
	got, err := domain.Decode(link)
	if err != nil {
		t.Fatalf("decode link: %v", err)
	}
	direct, err := domain.Decode(encode(bodyPayload))
	if err != nil {
		t.Fatalf("decode direct: %v", err)
	}
	if got != direct {
		t.Fatalf("link and direct decode differ: %+v vs %+v", got, direct)
	}
	match, err := domain.Explain(link)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if match.CandidateIndex != 0 || match.Candidate != encode(bodyPayload) {
		t.Fatalf("expected the query parameter candidate to win, got %+v", match)
	}
}

func TestExplainKeywordStrategyWithMarker(t *testing.T) {
	t.Parallel()
	match, err := domain.Explain(encode(`"body":{"height":0.1},"scale":2500000000`))
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if match.Strategy != domain.StrategyKeyword || match.Printable {
		t.Fatalf("expected keyword strategy on raw text, got %+v", match)
	}
	if match.Payload.Height != 0.1 || match.Payload.Scale != 2.5 {
		t.Fatalf("unexpected payload %+v", match.Payload)
	}
}

func TestKeywordStrategySkipsSmallIntegersForScale(t *testing.T) {
	t.Parallel()
	got, err := domain.Decode(encode(`"body":"height":0.4,"scale":[1,2,3000000000]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Height != 0.4 || got.Scale != 3 {
		t.Fatalf("expected fixed-point scale 3 after skipping small ints, got %+v", got)
	}
}

func TestExplainKeyHintStrategy(t *testing.T) {
	t.Parallel()
	match, err := domain.Explain(encode("s:1.5 h:0.2"))
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if match.Strategy != domain.StrategyHints {
		t.Fatalf("expected key hints strategy, got %s", match.Strategy)
	}
	if match.Payload.Scale != 1.5 || match.Payload.Height != 0.2 {
		t.Fatalf("unexpected payload %+v", match.Payload)
	}
}

func TestExplainFallsBackToPrintableProjection(t *testing.T) {
	t.Parallel()
	match, err := domain.Explain(encode("he\x00ight=0.7 scale=1.1"))
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !match.Printable || match.Strategy != domain.StrategyKeyword {
		t.Fatalf("expected keyword strategy on printable text, got %+v", match)
	}
	if match.Payload.Height != 0.7 || match.Payload.Scale != 1.1 {
		t.Fatalf("unexpected payload %+v", match.Payload)
	}
}

func TestDecodeNegativeHeightIsValid(t *testing.T) {
	t.Parallel()
	got, err := domain.Decode(encode(`"body":{"height":-0.8},"scale":-500000000`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Height != -0.8 || got.Scale != -0.5 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty", raw: "", want: domain.ErrNoPayload},
		{name: "blank", raw: " \n\t ", want: domain.ErrNoPayload},
		{name: "plain text", raw: "hello world!", want: domain.ErrNoScaleHeight},
		{name: "no numbers", raw: encode("no numbers here"), want: domain.ErrNoScaleHeight},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := domain.Decode(tc.raw)
			var decodeErr *domain.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCollectCandidatesOrder(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want []string
	}{
		{
			raw:  "https://x.test/a/b?payload=AAA&o=BBB",
			want: []string{"AAA", "BBB", "https://x.test/a/b?payload=AAA&o=BBB"},
		},
		{
			raw:  "scan result data=QUJD end",
			want: []string{"QUJD", "scan result data=QUJD end"},
		},
		{
			raw:  "https://x.test/share/QUJD/",
			want: []string{"QUJD", "https://x.test/share/QUJD/"},
		},
		{
			raw:  "  QUJD  ",
			want: []string{"QUJD"},
		},
	}
	for _, tc := range cases {
		if got := domain.CollectCandidates(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("candidates for %q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
	if got := domain.CollectCandidates("   "); got != nil {
		t.Fatalf("expected no candidates for blank input, got %v", got)
	}
}

func TestPayloadValid(t *testing.T) {
	t.Parallel()
	if !(domain.Payload{Scale: 1, Height: -1}).Valid() {
		t.Fatalf("finite payload should be valid")
	}
	if (domain.Payload{Scale: math.NaN(), Height: 0}).Valid() {
		t.Fatalf("NaN scale must be invalid")
	}
	if (domain.Payload{Scale: 0, Height: math.Inf(1)}).Valid() {
		t.Fatalf("infinite height must be invalid")
	}
}
