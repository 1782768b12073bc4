package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"testing"

	"staybook/internal/availability"
	"staybook/internal/listings/repository"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

// memorySource mimics the repository: filter on city_key, sort by id.
type memorySource struct {
	listings []*model.Listing
	opened   int
	failOpen error
	failAt   int
	last     *memoryCursor
}

func (m *memorySource) Stream(ctx context.Context, cityKey string) (repository.Cursor, error) {
	m.opened++
	if m.failOpen != nil {
		return nil, m.failOpen
	}
	var out []*model.Listing
	for _, l := range m.listings {
		if cityKey == "" || l.CityKey == cityKey {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	m.last = &memoryCursor{items: out, pos: -1, failAt: m.failAt}
	return m.last, nil
}

type memoryCursor struct {
	items  []*model.Listing
	pos    int
	failAt int
	err    error
	closed bool
}

func (c *memoryCursor) Next(context.Context) bool {
	c.pos++
	if c.failAt > 0 && c.pos == c.failAt {
		c.err = errors.New("cursor killed")
		return false
	}
	return c.pos < len(c.items)
}

func (c *memoryCursor) Decode(v any) error {
	*(v.(*model.Listing)) = *c.items[c.pos]
	return nil
}

func (c *memoryCursor) Err() error { return c.err }

func (c *memoryCursor) Close(context.Context) error {
	c.closed = true
	return nil
}

func listing(id, city string) *model.Listing {
	return &model.Listing{ID: id, Title: "Listing " + id, City: city, CityKey: sanitizer.CityKey(city)}
}

func collect(t *testing.T, seq func(func(*model.Listing, error) bool)) []string {
	t.Helper()
	var ids []string
	for l, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, l.ID)
	}
	return ids
}

func newTestSearch(src *memorySource, idx *availability.Index) SearchService {
	return NewSearchService(src, idx, logger.Discard())
}

func TestSearch_NoFiltersReturnsAllInIDOrder(t *testing.T) {
	src := &memorySource{listings: []*model.Listing{
		listing("c", "Porto"), listing("a", "Lisbon"), listing("b", "Lisbon"),
	}}
	svc := newTestSearch(src, availability.NewIndex())

	got := collect(t, svc.Search(context.Background(), Query{}))
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("got %v, want [a b c]", got)
	}
}

func TestSearch_CityIsCaseInsensitiveExact(t *testing.T) {
	src := &memorySource{listings: []*model.Listing{
		listing("a", "New York"), listing("b", "York"), listing("c", "new  york"),
	}}
	svc := newTestSearch(src, availability.NewIndex())

	got := collect(t, svc.Search(context.Background(), Query{City: "NEW YORK"}))
	if strings.Join(got, ",") != "a,c" {
		t.Errorf("got %v, want [a c]", got)
	}
}

func TestSearch_RangeExcludesBookedListings(t *testing.T) {
	src := &memorySource{listings: []*model.Listing{
		listing("a", "Lisbon"), listing("b", "Lisbon"), listing("c", "Porto"),
	}}
	idx := availability.NewIndex()
	booked, _ := model.ParseDateRange("2025-03-10", "2025-03-13")
	if err := idx.Reserve("a", booked); err != nil {
		t.Fatal(err)
	}
	svc := newTestSearch(src, idx)

	overlapping, _ := model.ParseDateRange("2025-03-12", "2025-03-14")
	got := collect(t, svc.Search(context.Background(), Query{City: "lisbon", Range: &overlapping}))
	if strings.Join(got, ",") != "b" {
		t.Errorf("got %v, want [b]", got)
	}

	backToBack, _ := model.ParseDateRange("2025-03-13", "2025-03-15")
	got = collect(t, svc.Search(context.Background(), Query{City: "lisbon", Range: &backToBack}))
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("back-to-back stay should not exclude a listing: got %v", got)
	}
}

func TestSearch_IsLazyAndRestartable(t *testing.T) {
	src := &memorySource{listings: []*model.Listing{
		listing("a", "Lisbon"), listing("b", "Lisbon"), listing("c", "Lisbon"),
	}}
	svc := newTestSearch(src, availability.NewIndex())

	seq := svc.Search(context.Background(), Query{City: "Lisbon"})
	if src.opened != 0 {
		t.Fatal("building the sequence must not query the store")
	}

	first := collect(t, seq)
	second := collect(t, seq)
	if !slices.Equal(first, second) {
		t.Errorf("repeated iteration differs: %v vs %v", first, second)
	}
	if src.opened != 2 {
		t.Errorf("each iteration should re-run the query, opened=%d", src.opened)
	}
}

func TestSearch_EarlyStopClosesCursor(t *testing.T) {
	src := &memorySource{listings: []*model.Listing{listing("a", "Lisbon"), listing("b", "Lisbon")}}
	svc := newTestSearch(src, availability.NewIndex())

	for l, err := range svc.Search(context.Background(), Query{}) {
		if err != nil || l.ID != "a" {
			t.Fatalf("unexpected first element %v %v", l, err)
		}
		break
	}
	if !src.last.closed {
		t.Error("cursor must be closed when the consumer stops early")
	}
}

func TestSearch_YieldsErrors(t *testing.T) {
	openErr := errors.New("no primary")
	svc := newTestSearch(&memorySource{failOpen: openErr}, availability.NewIndex())

	var gotErr error
	for _, err := range svc.Search(context.Background(), Query{}) {
		gotErr = err
	}
	if !errors.Is(gotErr, openErr) {
		t.Errorf("expected open error, got %v", gotErr)
	}

	src := &memorySource{listings: []*model.Listing{listing("a", "X"), listing("b", "X"), listing("c", "X")}, failAt: 2}
	svc = newTestSearch(src, availability.NewIndex())

	var ids []string
	gotErr = nil
	for l, err := range svc.Search(context.Background(), Query{}) {
		if err != nil {
			gotErr = err
			continue
		}
		ids = append(ids, l.ID)
	}
	if len(ids) != 2 || gotErr == nil {
		t.Errorf("expected two listings then an error, got %v / %v", ids, gotErr)
	}
}
