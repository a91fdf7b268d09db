package corpus

import (
	"reflect"
	"testing"
)

func TestMergeSessions_KeepLastAndRelabel(t *testing.T) {
	t.Parallel()

	link := "https://docs.rs/mycrate/1.0.0/mycrate/fn.f.html"
	other := "https://docs.rs/mycrate/1.0.0/mycrate/struct.S.html"
	in := []SessionEntry{
		{Title: "f", Description: "Does X.", Link: link},
		{Title: "S", Description: "A struct.", Link: other},
		{Title: "r", Description: "Does X.", Link: link},
	}

	got := MergeSessions(in)
	want := []SessionEntry{
		// Last occurrence survives, title re-derived from the link.
		{Title: "f", Description: "Does X.", Link: link},
		{Title: "S", Description: "A struct.", Link: other},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeSessions = %+v, want %+v", got, want)
	}
}

func TestMergeSessions_SingletonTitleUntouched(t *testing.T) {
	t.Parallel()

	in := []SessionEntry{
		{Title: "original name", Link: "https://docs.rs/c/1/c/fn.x.html"},
	}
	got := MergeSessions(in)
	if got[0].Title != "original name" {
		t.Errorf("title = %q, want untouched original", got[0].Title)
	}
}

func TestMergeSessions_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	in := []SessionEntry{
		{Title: "b", Link: "B"},
		{Title: "a", Link: "A"},
		{Title: "b2", Link: "B"},
		{Title: "c", Link: "C"},
	}
	got := MergeSessions(in)
	var links []string
	for _, e := range got {
		links = append(links, e.Link)
	}
	if !reflect.DeepEqual(links, []string{"B", "A", "C"}) {
		t.Errorf("link order = %v, want first-seen order", links)
	}
}

func TestMergeFullSessions_Concatenates(t *testing.T) {
	t.Parallel()

	in := []FullSessionEntry{
		{Content: "A builder.", Link: "S"},
		{Content: "Creates a Command.", Link: "S"},
		{Content: "Does X.", Link: "F"},
	}
	got := MergeFullSessions(in)
	want := []FullSessionEntry{
		{Content: "A builder.\n\nCreates a Command.", Link: "S"},
		{Content: "Does X.", Link: "F"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeFullSessions = %+v, want %+v", got, want)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	sessions := []SessionEntry{
		{Title: "f", Link: "F"},
		{Title: "r", Link: "F"},
		{Title: "S", Link: "S"},
	}
	once := MergeSessions(sessions)
	twice := MergeSessions(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("MergeSessions not idempotent: %+v vs %+v", once, twice)
	}

	fulls := []FullSessionEntry{
		{Content: "a", Link: "S"},
		{Content: "b", Link: "S"},
	}
	fonce := MergeFullSessions(fulls)
	ftwice := MergeFullSessions(fonce)
	if !reflect.DeepEqual(fonce, ftwice) {
		t.Errorf("MergeFullSessions not idempotent: %+v vs %+v", fonce, ftwice)
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	t.Parallel()

	if got := MergeSessions(nil); len(got) != 0 {
		t.Errorf("MergeSessions(nil) = %v", got)
	}
	if got := MergeFullSessions(nil); len(got) != 0 {
		t.Errorf("MergeFullSessions(nil) = %v", got)
	}
}
