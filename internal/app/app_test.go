package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"score-tracker/internal/model"
)

type fakePersister struct {
	initial *model.Store
	loadErr error
	saveErr error
	saves   int
	last    *model.Store
}

func (f *fakePersister) Load(context.Context) (*model.Store, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.initial == nil {
		return model.NewStore(), nil
	}
	return f.initial, nil
}

func (f *fakePersister) Save(_ context.Context, s *model.Store) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.last = s.Clone()
	return nil
}

func newTestApp(t *testing.T) (*App, *fakePersister) {
	t.Helper()
	clock := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	p := &fakePersister{}
	a := New(context.Background(), p,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
	return a, p
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func seed(t *testing.T, a *App) {
	t.Helper()
	ctx := context.Background()
	mustDo(t, a.AddCategory(ctx, "A"))
	mustDo(t, a.AddCategory(ctx, "B"))
	mustDo(t, a.AddItem(ctx, "A", "X", "1"))
	mustDo(t, a.AddItem(ctx, "B", "X", "0.5"))
	mustDo(t, a.SelectItem("A", "X"))
	for _, s := range []string{"10", "20", "30"} {
		mustDo(t, a.AddScore(ctx, s))
	}
}

func TestNewFallsBackOnLoadError(t *testing.T) {
	p := &fakePersister{loadErr: errors.New("corrupt")}
	a := New(context.Background(), p, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if a.Store() == nil || len(a.Store().Categories) != 0 {
		t.Fatalf("store = %+v, want empty", a.Store())
	}
	if a.Selection.HistoryIndex != NoHistory {
		t.Errorf("HistoryIndex = %d", a.Selection.HistoryIndex)
	}
}

func TestPersistOnlyAfterSuccess(t *testing.T) {
	a, p := newTestApp(t)
	ctx := context.Background()

	mustDo(t, a.AddCategory(ctx, "Run"))
	if p.saves != 1 || !p.last.HasCategory("Run") {
		t.Fatalf("saves = %d, last = %+v", p.saves, p.last)
	}

	err := a.AddCategory(ctx, "Run")
	if !errors.Is(err, model.ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}
	if p.saves != 1 {
		t.Errorf("saves = %d after failure, want 1", p.saves)
	}
	if a.ErrorMessage == "" {
		t.Error("ErrorMessage not set")
	}
	a.DismissError()
	if a.ErrorMessage != "" {
		t.Error("DismissError did not clear message")
	}
}

func TestSaveFailureKeepsChange(t *testing.T) {
	a, p := newTestApp(t)
	p.saveErr = errors.New("read-only")
	err := a.AddCategory(context.Background(), "Run")
	if err == nil || a.ErrorMessage == "" {
		t.Fatalf("err = %v, message = %q", err, a.ErrorMessage)
	}
	if !a.Store().HasCategory("Run") {
		t.Error("in-memory change lost")
	}
}

func TestParsers(t *testing.T) {
	if v, err := ParseDecay(" 0.75 "); err != nil || v != 0.75 {
		t.Errorf("ParseDecay = %v, %v", v, err)
	}
	if _, err := ParseDecay("fast"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("ParseDecay(fast) err = %v", err)
	}
	if v, err := ParseScore("-3"); err != nil || v != -3 {
		t.Errorf("ParseScore = %v, %v", v, err)
	}
	if _, err := ParseScore("1.5"); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("ParseScore(1.5) err = %v", err)
	}
}

func TestAddItemDecayText(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	mustDo(t, a.AddCategory(ctx, "C"))

	mustDo(t, a.AddItem(ctx, "C", "default", "  "))
	if r, _ := a.Store().ItemDecay("C", "default"); r != model.DefaultDecayRate {
		t.Errorf("blank decay = %v", r)
	}
	if err := a.AddItem(ctx, "C", "bad", "abc"); !errors.Is(err, ErrInvalidDecay) {
		t.Errorf("err = %v, want ErrInvalidDecay", err)
	}
	if err := a.AddItem(ctx, "C", "big", "1.5"); !errors.Is(err, model.ErrDecayOutOfRange) {
		t.Errorf("err = %v, want ErrDecayOutOfRange", err)
	}
}

func TestAddScore(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	if err := a.AddScore(ctx, "5"); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	seed(t, a)

	a.Selection.InputScore = "-1"
	if err := a.AddScore(ctx, a.Selection.InputScore); !errors.Is(err, model.ErrNegativeScore) {
		t.Fatalf("err = %v, want ErrNegativeScore", err)
	}
	if a.Selection.InputScore != "-1" {
		t.Error("input cleared on failure")
	}
	a.Selection.InputScore = "40"
	mustDo(t, a.AddScore(ctx, a.Selection.InputScore))
	if a.Selection.InputScore != "" {
		t.Error("input not cleared on success")
	}
	it, _ := a.Store().Item("A", "X")
	if !reflect.DeepEqual(it.Values(), []int64{10, 20, 30, 40}) {
		t.Errorf("scores = %v", it.Values())
	}
}

func TestAddScoresAllOrNothing(t *testing.T) {
	a, p := newTestApp(t)
	ctx := context.Background()
	if err := a.AddScores(ctx, []string{"1"}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	seed(t, a)
	saves := p.saves

	tests := []struct {
		name    string
		texts   []string
		wantErr error
	}{
		{"bad text after good ones", []string{"40", "50", "abc"}, ErrInvalidScore},
		{"negative after good ones", []string{"40", "-2", "50"}, model.ErrNegativeScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.AddScores(ctx, tt.texts); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			it, _ := a.Store().Item("A", "X")
			if !reflect.DeepEqual(it.Values(), []int64{10, 20, 30}) {
				t.Errorf("scores = %v, want unchanged", it.Values())
			}
			if p.saves != saves {
				t.Errorf("saves = %d, want %d", p.saves, saves)
			}
		})
	}

	mustDo(t, a.AddScores(ctx, []string{"40", " 50 "}))
	it, _ := a.Store().Item("A", "X")
	if !reflect.DeepEqual(it.Values(), []int64{10, 20, 30, 40, 50}) {
		t.Errorf("scores = %v", it.Values())
	}
	if p.saves != saves+1 {
		t.Errorf("saves = %d, want one save for the batch", p.saves-saves)
	}
	if !reflect.DeepEqual(p.last.Categories["A"].Items["X"].Values(), it.Values()) {
		t.Errorf("persisted scores = %v", p.last.Categories["A"].Items["X"].Values())
	}
}

func TestSelectionFollowsRenames(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	seed(t, a)

	mustDo(t, a.RenameCategory(ctx, "A", "  Alpha "))
	if a.Selection.Category != "Alpha" {
		t.Fatalf("category = %q", a.Selection.Category)
	}
	mustDo(t, a.AddCategory(ctx, "C"))
	mustDo(t, a.UpdateItem(ctx, "Alpha", "X", "C", " Y ", "0.8"))
	if a.Selection.Category != "C" || a.Selection.Item != "Y" {
		t.Fatalf("selection = %+v", a.Selection)
	}
	if r, _ := a.Store().ItemDecay("C", "Y"); r != 0.8 {
		t.Errorf("decay = %v", r)
	}
	if a.Store().HasItem("Alpha", "X") {
		t.Error("Alpha/X still present after move")
	}
}

func TestUpdateItemMoveIntoTakenNameFails(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	seed(t, a)
	before := a.Store().Clone()

	// B already holds an X, so the move step fails before the rename is tried.
	err := a.UpdateItem(ctx, "A", "X", "B", "Y", "0.8")
	if !errors.Is(err, model.ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}
	if !reflect.DeepEqual(a.Store().Categories, before.Categories) {
		t.Error("store changed after failed update")
	}
	if a.Selection.Category != "A" || a.Selection.Item != "X" {
		t.Errorf("selection = %+v", a.Selection)
	}
}

func TestUpdateItemCollisionIsAtomic(t *testing.T) {
	a, p := newTestApp(t)
	ctx := context.Background()
	seed(t, a)
	before := a.Store().Clone()
	saves := p.saves

	a.Modal = &EditItemModal{Category: "A", Item: "X", NewCategory: "B", NewName: "X", Decay: "0.3"}
	err := a.Submit(ctx)
	if !errors.Is(err, model.ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}
	if !reflect.DeepEqual(a.Store().Categories, before.Categories) {
		t.Error("store changed after failed update")
	}
	if p.saves != saves {
		t.Error("failed update was persisted")
	}
	if _, ok := a.Modal.(*EditItemModal); !ok {
		t.Error("dialog closed after failure")
	}
	if a.Selection.Category != "A" || a.Selection.Item != "X" {
		t.Errorf("selection moved: %+v", a.Selection)
	}
}

func TestDeletesClearSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("score", func(t *testing.T) {
		a, _ := newTestApp(t)
		seed(t, a)
		mustDo(t, a.SelectHistory(1))
		a.OpenDeleteScore(1)
		mustDo(t, a.Confirm(ctx))
		if a.Selection.HistoryIndex != NoHistory {
			t.Errorf("HistoryIndex = %d", a.Selection.HistoryIndex)
		}
		it, _ := a.Store().Item("A", "X")
		if !reflect.DeepEqual(it.Values(), []int64{10, 30}) {
			t.Errorf("scores = %v", it.Values())
		}
		if a.Modal != nil {
			t.Error("dialog still open")
		}
	})

	t.Run("item", func(t *testing.T) {
		a, _ := newTestApp(t)
		seed(t, a)
		a.OpenDeleteItem("A", "X")
		mustDo(t, a.Confirm(ctx))
		if a.Selection.Item != "" || a.Selection.Category != "A" {
			t.Errorf("selection = %+v", a.Selection)
		}
	})

	t.Run("category", func(t *testing.T) {
		a, _ := newTestApp(t)
		seed(t, a)
		a.OpenDeleteCategory("A")
		mustDo(t, a.Submit(ctx))
		if a.Selection.HasItem() || a.Selection.Category != "" {
			t.Errorf("selection = %+v", a.Selection)
		}
		if a.Store().HasCategory("A") {
			t.Error("category not removed")
		}
	})

	t.Run("other category keeps selection", func(t *testing.T) {
		a, _ := newTestApp(t)
		seed(t, a)
		mustDo(t, a.DeleteCategory(ctx, "B"))
		if a.Selection.Category != "A" || a.Selection.Item != "X" {
			t.Errorf("selection = %+v", a.Selection)
		}
	})
}

func TestModalFlow(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	if err := a.Submit(ctx); !errors.Is(err, ErrNoModal) {
		t.Fatalf("Submit without dialog err = %v", err)
	}

	a.OpenAddCategory()
	a.Modal.(*AddCategoryModal).Name = "   "
	if err := a.Submit(ctx); !errors.Is(err, model.ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	if a.Modal == nil {
		t.Fatal("dialog closed on failure")
	}
	a.Modal.(*AddCategoryModal).Name = "Lift"
	mustDo(t, a.Submit(ctx))
	if a.Modal != nil {
		t.Fatal("dialog open after success")
	}

	mustDo(t, a.OpenAddItem("Lift"))
	m := a.Modal.(*AddItemModal)
	if m.Decay != "0.9" {
		t.Errorf("prefilled decay = %q", m.Decay)
	}
	m.Name = "Squat"
	mustDo(t, a.Submit(ctx))
	mustDo(t, a.SelectItem("Lift", "Squat"))

	mustDo(t, a.OpenEditDecay())
	a.Modal.(*EditDecayModal).Decay = "0.25"
	mustDo(t, a.Submit(ctx))
	if r, _ := a.Store().ItemDecay("Lift", "Squat"); r != 0.25 {
		t.Errorf("decay = %v", r)
	}

	mustDo(t, a.OpenEditItem("Lift", "Squat"))
	em := a.Modal.(*EditItemModal)
	if em.Decay != "0.25" || !reflect.DeepEqual(em.Categories, []string{"Lift"}) {
		t.Errorf("edit dialog = %+v", em)
	}
	a.CloseModal()

	mustDo(t, a.OpenRenameCategory("Lift"))
	a.Modal.(*RenameCategoryModal).NewName = "Gym"
	mustDo(t, a.Submit(ctx))
	if a.Selection.Category != "Gym" {
		t.Errorf("selection = %+v", a.Selection)
	}

	if err := a.OpenAddItem("Nope"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("OpenAddItem(Nope) err = %v", err)
	}
	a.Selection = Selection{HistoryIndex: NoHistory}
	if err := a.OpenEditDecay(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("OpenEditDecay err = %v", err)
	}
}

func TestViewAndClick(t *testing.T) {
	a, _ := newTestApp(t)
	seed(t, a)

	v, ok := a.View()
	if !ok {
		t.Fatal("no view for selected item")
	}
	if v.Summary.Mean != 20 || v.Layout.TotalWidth != 3 {
		t.Errorf("mean = %v, width = %v", v.Summary.Mean, v.Layout.TotalWidth)
	}
	var idx []int
	for _, r := range v.History {
		idx = append(idx, r.Index)
	}
	if !reflect.DeepEqual(idx, []int{2, 1, 0}) {
		t.Errorf("history indices = %v", idx)
	}

	tests := []struct {
		x      float64
		want   int
		wantOK bool
	}{
		{0.5, 0, true},
		{1.5, 1, true},
		{2.99, 2, true},
		{3, NoHistory, false},
		{-0.1, NoHistory, false},
	}
	for _, tt := range tests {
		got, ok := a.Click(tt.x)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Click(%v) = %d,%v want %d,%v", tt.x, got, ok, tt.want, tt.wantOK)
		}
		if a.Selection.HistoryIndex != tt.want {
			t.Errorf("Click(%v) HistoryIndex = %d", tt.x, a.Selection.HistoryIndex)
		}
	}

	a.Click(1.5)
	if i, ok := a.TakeScroll(); !ok || i != 1 {
		t.Errorf("TakeScroll = %d,%v", i, ok)
	}
	if _, ok := a.TakeScroll(); ok {
		t.Error("scroll request not consumed")
	}
	v, _ = a.View()
	if !v.History[1].Selected || v.History[0].Selected {
		t.Errorf("selected flags wrong: %+v", v.History)
	}

	a.Selection = Selection{HistoryIndex: NoHistory}
	if _, ok := a.View(); ok {
		t.Error("view without selection")
	}
	if _, ok := a.Click(1); ok {
		t.Error("click without selection")
	}
}
