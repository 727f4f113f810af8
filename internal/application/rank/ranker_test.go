package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"find-origin-api/internal/domain/entity"
)

// stubModel returns a fixed completion or error and records the prompt.
type stubModel struct {
	content string
	err     error
	prompt  string
}

func (s *stubModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if len(input) > 0 {
		s.prompt = input[0].Content
	}
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.content, nil), nil
}

func (s *stubModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func testCandidates() []entity.SearchCandidate {
	return []entity.SearchCandidate{
		{URL: "https://example.com/blog", Title: "Some blog", SourceType: entity.SourceBlog},
		{URL: "https://www.ria.ru/news", Title: "News piece", SourceType: entity.SourceNews},
		{URL: "https://data.gov/report", Title: "Official report", SourceType: entity.SourceOfficial},
	}
}

func TestRankHappyPath(t *testing.T) {
	t.Parallel()

	m := &stubModel{content: `Here is my answer:
{"sources":[
  {"url":"https://www.ria.ru/news","title":"News piece","confidence":"low","reason":"related coverage"},
  {"url":"https://data.gov/report","title":"Official report","confidence":"high","reason":"primary data"}
]}`}
	r := New(m)

	res := r.Rank(context.Background(), "исходный текст для проверки", testCandidates())
	if !res.UsedAI {
		t.Fatal("UsedAI = false, want AI path")
	}
	if len(res.Ranked) != 2 {
		t.Fatalf("ranked = %+v, want 2", res.Ranked)
	}
	// high confidence sorts above low regardless of model order
	if res.Ranked[0].URL != "https://data.gov/report" || res.Ranked[0].Confidence != entity.ConfidenceHigh {
		t.Errorf("first = %+v, want high-confidence official report", res.Ranked[0])
	}
	if res.Ranked[1].Confidence != entity.ConfidenceLow {
		t.Errorf("second = %+v, want low confidence", res.Ranked[1])
	}
	if m.prompt == "" {
		t.Error("model was not given a prompt")
	}
}

func TestRankDropsUnknownURLs(t *testing.T) {
	t.Parallel()

	m := &stubModel{content: `{"sources":[
  {"url":"https://attacker.example/fake","title":"Injected","confidence":"high"},
  {"url":"https://www.ria.ru/news","title":"News piece","confidence":"medium"}
]}`}
	r := New(m)

	res := r.Rank(context.Background(), "текст", testCandidates())
	if !res.UsedAI {
		t.Fatal("UsedAI = false, want AI path with valid remainder")
	}
	if len(res.Ranked) != 1 || res.Ranked[0].URL != "https://www.ria.ru/news" {
		t.Errorf("ranked = %+v, want only the known URL", res.Ranked)
	}
}

func TestRankAllURLsUnknownFallsBack(t *testing.T) {
	t.Parallel()

	m := &stubModel{content: `{"sources":[{"url":"https://attacker.example/fake","title":"Injected","confidence":"high"}]}`}
	r := New(m)

	res := r.Rank(context.Background(), "текст", testCandidates())
	assertFallback(t, res)
}

func TestRankModelErrorFallsBack(t *testing.T) {
	t.Parallel()

	r := New(&stubModel{err: errors.New("upstream timeout")})
	res := r.Rank(context.Background(), "текст", testCandidates())
	assertFallback(t, res)
}

func TestRankUnparseableOutputFallsBack(t *testing.T) {
	t.Parallel()

	r := New(&stubModel{content: "I cannot answer in JSON, sorry."})
	res := r.Rank(context.Background(), "текст", testCandidates())
	assertFallback(t, res)
}

func TestRankNilModelFallsBack(t *testing.T) {
	t.Parallel()

	r := New(nil)
	res := r.Rank(context.Background(), "текст", testCandidates())
	assertFallback(t, res)
}

func TestRankEmptyCandidates(t *testing.T) {
	t.Parallel()

	r := New(&stubModel{content: "{}"})
	res := r.Rank(context.Background(), "текст", nil)
	if res.UsedAI || len(res.Ranked) != 0 {
		t.Errorf("Rank with no candidates = %+v, want empty result", res)
	}
}

// assertFallback checks the deterministic path: type priority order,
// medium confidence everywhere, UsedAI unset.
func assertFallback(t *testing.T, res Result) {
	t.Helper()

	if res.UsedAI {
		t.Fatal("UsedAI = true, want fallback")
	}
	if len(res.Ranked) != 3 {
		t.Fatalf("ranked = %+v, want top-3 fallback", res.Ranked)
	}
	if res.Ranked[0].URL != "https://data.gov/report" {
		t.Errorf("first = %+v, want official source first", res.Ranked[0])
	}
	for _, r := range res.Ranked {
		if r.Confidence != entity.ConfidenceMedium {
			t.Errorf("confidence = %s for %s, want medium", r.Confidence, r.URL)
		}
	}
}
