package source

import (
	"testing"

	"find-origin-api/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want entity.SourceType
	}{
		{"https://www.ria.ru/20240115/neft.html", entity.SourceNews},
		{"https://tass.ru/ekonomika/1", entity.SourceNews},
		{"https://www.reuters.com/markets/", entity.SourceNews},
		{"https://kremlin.gov.ru/events/1", entity.SourceOfficial},
		{"https://www.cdc.gov/flu", entity.SourceOfficial},
		{"https://university.edu/paper", entity.SourceOfficial},
		{"https://arxiv.org/abs/2401.00001", entity.SourceResearch},
		{"https://doi.org/10.1000/xyz", entity.SourceResearch},
		{"https://www.sciencedirect.com/science/article/1", entity.SourceResearch},
		// .gov hosts win over research fragments
		{"https://pubmed.ncbi.nlm.nih.gov/1", entity.SourceOfficial},
		{"https://habr.com/ru/articles/1/", entity.SourceBlog},
		{"https://medium.com/@x/post", entity.SourceBlog},
		{"https://example.com/page", entity.SourceOther},
		{"not a url at all", entity.SourceOther},
		{"", entity.SourceOther},
	}
	for _, tc := range tests {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.url, got, tc.want)
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	t.Parallel()

	url := "https://www.ria.ru/x"
	first := Classify(url)
	for i := 0; i < 3; i++ {
		if got := Classify(url); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", got, first)
		}
	}
}

func TestSortByType(t *testing.T) {
	t.Parallel()

	in := []entity.SearchCandidate{
		{URL: "https://blog.example/1", SourceType: entity.SourceBlog},
		{URL: "https://news.example/1", SourceType: entity.SourceNews},
		{URL: "https://gov.example/1", SourceType: entity.SourceOfficial},
		{URL: "https://news.example/2", SourceType: entity.SourceNews},
	}
	got := SortByType(in)

	wantOrder := []string{
		"https://gov.example/1",
		"https://news.example/1",
		"https://news.example/2",
		"https://blog.example/1",
	}
	for i, url := range wantOrder {
		if got[i].URL != url {
			t.Fatalf("position %d = %s, want %s (full: %+v)", i, got[i].URL, url, got)
		}
	}

	// input slice is untouched
	if in[0].URL != "https://blog.example/1" {
		t.Errorf("SortByType mutated its input: %+v", in)
	}
}
