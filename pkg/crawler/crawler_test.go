package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"docketlabeler/pkg/checkpoint"
	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/errors"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/models"
	"docketlabeler/pkg/retry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func item(t *testing.T, raw string) courtlistener.RawItem {
	t.Helper()
	var it courtlistener.RawItem
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	return it
}

// fakeCatalog serves pages keyed by cursor ("" for the start)
type fakeCatalog struct {
	pages    map[string]*courtlistener.Page
	failOn   map[string]error
	requests []string
}

func (f *fakeCatalog) FetchPage(ctx context.Context, cursor *string) (*courtlistener.Page, error) {
	key := ""
	if cursor != nil {
		key = *cursor
	}
	f.requests = append(f.requests, key)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.failOn[key]; ok {
		return nil, err
	}
	page, ok := f.pages[key]
	if !ok {
		return nil, errors.NewRemote(404, nil, "no page for cursor %q", key)
	}
	return page, nil
}

func entry(id int64, text string) courtlistener.RawItem {
	return courtlistener.RawItem{ID: &id, Description: &text}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.Record
	}{
		{
			name: "own description",
			raw:  `{"id": 1, "description": "Summons Returned Executed", "recap_documents": [{"id": 9, "description": "ignored"}]}`,
			want: []models.Record{{EntryID: 1, Text: "Summons Returned Executed"}},
		},
		{
			name: "children when description empty",
			raw:  `{"id": 2, "description": "", "recap_documents": [{"id": 20, "description": "Main Document"}, {"id": 21, "description": ""}, {"id": 22, "description": "Exhibit A"}]}`,
			want: []models.Record{
				{EntryID: 2, ChildID: models.Int64Ptr(20), Text: "Main Document"},
				{EntryID: 2, ChildID: models.Int64Ptr(21), Text: ""},
				{EntryID: 2, ChildID: models.Int64Ptr(22), Text: "Exhibit A"},
			},
		},
		{
			name: "children when description missing",
			raw:  `{"id": 3, "recap_documents": [{"id": 0, "description": "Order"}]}`,
			want: []models.Record{{EntryID: 3, ChildID: models.Int64Ptr(0), Text: "Order"}},
		},
		{
			name: "whitespace description falls through to children",
			raw:  `{"id": 4, "description": "   ", "recap_documents": [{"id": 40, "description": "Notice"}]}`,
			want: []models.Record{{EntryID: 4, ChildID: models.Int64Ptr(40), Text: "Notice"}},
		},
		{
			name: "all children blank",
			raw:  `{"id": 5, "description": "", "recap_documents": [{"id": 50, "description": ""}, {"id": 51, "description": " "}]}`,
		},
		{
			name: "no children",
			raw:  `{"id": 6, "description": null}`,
		},
		{
			name: "empty children list",
			raw:  `{"id": 7, "description": "", "recap_documents": []}`,
		},
		{
			name: "no id",
			raw:  `{"description": "orphan"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(item(t, tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractAllKeepsOrder(t *testing.T) {
	items := []courtlistener.RawItem{entry(1, "a"), entry(2, "b"), entry(3, "c")}
	records := ExtractAll(items)

	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, int64(i+1), r.EntryID)
	}
}

func newCheckpoint(t *testing.T) *checkpoint.Store {
	t.Helper()
	return checkpoint.NewStore(filepath.Join(t.TempDir(), "next.json"), logger.NewNopLogger())
}

func TestPaginatorCheckpointMonotonicity(t *testing.T) {
	catalog := &fakeCatalog{pages: map[string]*courtlistener.Page{
		"":   {Items: []courtlistener.RawItem{entry(1, "a")}, Next: strPtr("p2")},
		"p2": {Items: []courtlistener.RawItem{entry(2, "b")}, Next: strPtr("p3")},
		"p3": {Items: []courtlistener.RawItem{entry(3, "c")}, Next: nil},
	}}
	store := newCheckpoint(t)

	p, err := NewPaginator(catalog, store, logger.NewNopLogger())
	require.NoError(t, err)

	wantNext := []*string{strPtr("p2"), strPtr("p3"), nil}
	for n, want := range wantNext {
		items, err := p.NextPage(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)

		// persisted before any record is consumed
		saved, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, want, saved, "after fetch %d", n+1)
		assert.Equal(t, want, p.Cursor())
	}

	assert.True(t, p.Exhausted())
	assert.Equal(t, 3, p.Pages())
	assert.Equal(t, []string{"", "p2", "p3"}, catalog.requests)
}

func TestPaginatorResumesFromCheckpoint(t *testing.T) {
	store := newCheckpoint(t)
	require.NoError(t, store.Save(strPtr("p2")))

	catalog := &fakeCatalog{pages: map[string]*courtlistener.Page{
		"p2": {Items: []courtlistener.RawItem{entry(2, "b")}, Next: strPtr("p3")},
	}}

	p, err := NewPaginator(catalog, store, logger.NewNopLogger())
	require.NoError(t, err)

	_, err = p.NextPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, catalog.requests)
}

func TestPaginatorFailureKeepsCursor(t *testing.T) {
	store := newCheckpoint(t)
	require.NoError(t, store.Save(strPtr("p2")))

	catalog := &fakeCatalog{failOn: map[string]error{
		"p2": errors.NewRemote(503, nil, "unavailable"),
	}}

	p, err := NewPaginator(catalog, store, logger.NewNopLogger())
	require.NoError(t, err)

	_, err = p.NextPage(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRemote(err))

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, strPtr("p2"), saved)
	assert.Equal(t, strPtr("p2"), p.Cursor())
	assert.Equal(t, 0, p.Pages())
}

// scriptedPages returns canned pages in sequence
type scriptedPages struct {
	pages     [][]courtlistener.RawItem
	exhausted []bool
	errAt     int
	err       error
	calls     int
	last      bool
}

func (s *scriptedPages) NextPage(ctx context.Context) ([]courtlistener.RawItem, error) {
	s.calls++
	if s.err != nil && s.calls == s.errAt {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.pages) {
		s.last = true
		return nil, nil
	}
	s.last = idx < len(s.exhausted) && s.exhausted[idx]
	return s.pages[idx], nil
}

func (s *scriptedPages) Exhausted() bool { return s.last }

type recordingWait struct {
	delays []time.Duration
}

func (r *recordingWait) wait(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newTestGenerator(pages PageSource, order Order) (*Generator, *recordingWait) {
	g := NewGenerator(pages, order, &retry.ExponentialBackoff{
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		Multiplier: 2,
	}, logger.NewNopLogger())
	rw := &recordingWait{}
	g.wait = rw.wait
	return g, rw
}

func drain(t *testing.T, g *Generator, n int) []int64 {
	t.Helper()
	var ids []int64
	for i := 0; i < n; i++ {
		r, err := g.Next(context.Background())
		require.NoError(t, err)
		ids = append(ids, r.EntryID)
	}
	return ids
}

func TestGeneratorFIFO(t *testing.T) {
	pages := &scriptedPages{pages: [][]courtlistener.RawItem{
		{entry(1, "a"), entry(2, "b")},
		{entry(3, "c")},
	}}
	g, rw := newTestGenerator(pages, OrderFIFO)

	assert.Equal(t, []int64{1, 2, 3}, drain(t, g, 3))
	assert.Empty(t, rw.delays)
	assert.Equal(t, 2, pages.calls, "pages are fetched lazily")
}

func TestGeneratorLIFO(t *testing.T) {
	pages := &scriptedPages{pages: [][]courtlistener.RawItem{
		{entry(1, "a"), entry(2, "b")},
		{entry(3, "c"), entry(4, "d")},
	}}
	g, _ := newTestGenerator(pages, OrderLIFO)

	assert.Equal(t, []int64{2, 1, 4, 3}, drain(t, g, 4))
}

func TestGeneratorSkipsPagesWithoutRecords(t *testing.T) {
	empty := courtlistener.RawItem{ID: models.Int64Ptr(9)}
	pages := &scriptedPages{pages: [][]courtlistener.RawItem{
		{empty},
		{entry(1, "a")},
	}}
	g, rw := newTestGenerator(pages, OrderFIFO)

	assert.Equal(t, []int64{1}, drain(t, g, 1))
	assert.Empty(t, rw.delays, "a page with items but no records is not exhaustion")
}

func TestGeneratorBacksOffWhenCatalogExhausted(t *testing.T) {
	pages := &scriptedPages{
		pages: [][]courtlistener.RawItem{
			{entry(1, "a")},
			{},
			{},
			{entry(2, "b")},
			{entry(3, "c")},
		},
		exhausted: []bool{true, true, true, false, false},
	}
	g, rw := newTestGenerator(pages, OrderFIFO)

	assert.Equal(t, []int64{1, 2, 3}, drain(t, g, 3))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, rw.delays)

	// the non-empty, non-final page reset the backoff
	pages.pages = append(pages.pages, []courtlistener.RawItem{})
	pages.exhausted = append(pages.exhausted, true)
	pages.pages = append(pages.pages, []courtlistener.RawItem{entry(4, "d")})
	assert.Equal(t, []int64{4}, drain(t, g, 1))
	assert.Equal(t, time.Second, rw.delays[len(rw.delays)-1])
}

func TestGeneratorPropagatesFetchError(t *testing.T) {
	fetchErr := errors.NewProtocol(200, nil, "missing results")
	pages := &scriptedPages{
		pages: [][]courtlistener.RawItem{{entry(1, "a")}},
		errAt: 2,
		err:   fetchErr,
	}
	g, _ := newTestGenerator(pages, OrderFIFO)

	assert.Equal(t, []int64{1}, drain(t, g, 1))

	_, err := g.Next(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}

func TestGeneratorHonoursCancellationWhileWaiting(t *testing.T) {
	pages := &scriptedPages{
		pages:     [][]courtlistener.RawItem{{}},
		exhausted: []bool{true},
	}
	g := NewGenerator(pages, OrderFIFO, &retry.ConstantBackoff{Delay: time.Hour}, logger.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
	assert.Equal(t, 1, pages.calls)
}

func TestGeneratorStopsHandingOutBufferAfterCancel(t *testing.T) {
	pages := &scriptedPages{pages: [][]courtlistener.RawItem{
		{entry(1, "a"), entry(2, "b"), entry(3, "c")},
	}}
	g, _ := newTestGenerator(pages, OrderFIFO)
	assert.Equal(t, []int64{1}, drain(t, g, 1))
	require.Equal(t, 2, g.Buffered())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, g.Buffered(), "buffered records stay queued")
	assert.Equal(t, 1, pages.calls)
}

func TestGeneratorOverPaginator(t *testing.T) {
	catalog := &fakeCatalog{pages: map[string]*courtlistener.Page{
		"": {
			Items: []courtlistener.RawItem{
				entry(1, "Summons Returned Executed"),
				item(t, `{"id": 2, "description": "", "recap_documents": [{"id": 20, "description": ""}, {"id": 21, "description": "Exhibit"}]}`),
			},
			Next: strPtr("p2"),
		},
		"p2": {Items: []courtlistener.RawItem{entry(3, "Order Granting Motion")}, Next: strPtr("p3")},
	}}
	store := newCheckpoint(t)
	p, err := NewPaginator(catalog, store, logger.NewNopLogger())
	require.NoError(t, err)

	g, _ := newTestGenerator(p, OrderFIFO)

	var got []string
	for i := 0; i < 4; i++ {
		r, err := g.Next(context.Background())
		require.NoError(t, err)
		got = append(got, fmt.Sprintf("%d/%v:%s", r.EntryID, r.Identity().HasChild, r.Text))
	}
	assert.Equal(t, []string{
		"1/false:Summons Returned Executed",
		"2/true:",
		"2/true:Exhibit",
		"3/false:Order Granting Motion",
	}, got)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, strPtr("p3"), saved)
}

func TestPageAndRecordCountsAreLoggedSeparately(t *testing.T) {
	catalog := &fakeCatalog{pages: map[string]*courtlistener.Page{
		"": {
			Items: []courtlistener.RawItem{
				item(t, `{"id": 2, "description": "", "recap_documents": [{"id": 20, "description": "Exhibit"}, {"id": 21, "description": "Exhibit"}]}`),
			},
			Next: strPtr("p2"),
		},
	}}
	tl := logger.NewTestLogger()
	p, err := NewPaginator(catalog, newCheckpoint(t), tl)
	require.NoError(t, err)
	g := NewGenerator(p, OrderFIFO, nil, tl)

	_, err = g.Next(context.Background())
	require.NoError(t, err)

	var page, buffered *logger.LogMessage
	for _, m := range tl.GetMessages() {
		m := m
		switch m.Message {
		case "Fetched catalog page":
			page = &m
		case "Buffered page records":
			buffered = &m
		}
	}
	require.NotNil(t, page)
	require.NotNil(t, buffered)
	assert.Equal(t, 1, page.Fields["raw_items"])
	assert.NotContains(t, page.Fields, "records")
	assert.Equal(t, 2, buffered.Fields["records"])
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("LIFO")
	require.NoError(t, err)
	assert.Equal(t, OrderLIFO, o)

	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderFIFO, o)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}
