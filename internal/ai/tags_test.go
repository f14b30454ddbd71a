package ai

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeGenerator returns a canned reply or error.
type fakeGenerator struct {
	reply string
	err   error
}

func (f fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func TestSuggestTags(t *testing.T) {
	gen := fakeGenerator{reply: "knowledge-management, Note Taking, zettelkasten"}
	got, err := SuggestTags(context.Background(), gen, "body", []string{"zettelkasten"}, 8)
	if err != nil {
		t.Fatalf("SuggestTags: %v", err)
	}
	want := []string{"knowledge-management", "note-taking"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSuggestTagsBackendDown(t *testing.T) {
	gen := fakeGenerator{err: ErrBackendUnavailable}
	got, err := SuggestTags(context.Background(), gen, "body", nil, 8)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty suggestions, got %v", got)
	}
}

func TestParseTagReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "comma separated",
			reply: "alpha, beta, gamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "line separated with bullets",
			reply: "- alpha\n* beta\n1. gamma\n",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "mixed case and spaces",
			reply: "Machine Learning, Deep_Learning",
			want:  []string{"machine-learning", "deep-learning"},
		},
		{
			name:  "duplicates collapsed",
			reply: "alpha, Alpha, ALPHA, beta",
			want:  []string{"alpha", "beta"},
		},
		{
			name:  "unparsable noise",
			reply: "!!! ??? ...",
			want:  nil,
		},
		{
			name:  "empty reply",
			reply: "",
			want:  nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTagReply(tc.reply, nil, 8)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseTagReplyTruncates(t *testing.T) {
	got := ParseTagReply("a1, a2, a3, a4, a5, a6", nil, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 tags, got %v", got)
	}
}

func TestParseTagReplyExcludesExisting(t *testing.T) {
	got := ParseTagReply("alpha, beta", []string{"Alpha"}, 8)
	if !reflect.DeepEqual(got, []string{"beta"}) {
		t.Fatalf("got %v", got)
	}
}

func TestNoopBackend(t *testing.T) {
	var n Noop
	if _, err := n.GenerateText(context.Background(), "x"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("GenerateText err = %v", err)
	}
	if _, err := n.Embed(context.Background(), "x"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Embed err = %v", err)
	}
}
