// Package app holds the interactive controller: selection, dialogs and the
// actions a front end dispatches against the store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"score-tracker/internal/chart"
	"score-tracker/internal/model"
	"score-tracker/internal/stats"
)

var (
	ErrNoSelection  = errors.New("no item selected")
	ErrNoModal      = errors.New("no dialog open")
	ErrInvalidDecay = fmt.Errorf("%w: decay rate must be a number", model.ErrValidation)
	ErrInvalidScore = fmt.Errorf("%w: score must be an integer", model.ErrValidation)
)

// Persister loads and saves whole snapshots of the store.
type Persister interface {
	Load(ctx context.Context) (*model.Store, error)
	Save(ctx context.Context, s *model.Store) error
}

// App owns the live store and the screen state around it. It is driven by a
// single loop and is not safe for concurrent use.
type App struct {
	Selection    Selection
	Modal        Modal
	ErrorMessage string

	store        *model.Store
	persister    Persister
	log          *slog.Logger
	defaultDecay float64
	clock        func() time.Time
}

type Option func(*App)

func WithLogger(log *slog.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithDefaultDecay sets the rate used when an item is added without one.
func WithDefaultDecay(rate float64) Option {
	return func(a *App) { a.defaultDecay = rate }
}

func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// New loads the store through p. A failed load starts from an empty store.
func New(ctx context.Context, p Persister, opts ...Option) *App {
	a := &App{
		Selection:    Selection{HistoryIndex: NoHistory},
		persister:    p,
		log:          slog.Default(),
		defaultDecay: model.DefaultDecayRate,
	}
	for _, opt := range opts {
		opt(a)
	}

	s, err := p.Load(ctx)
	if err != nil || s == nil {
		a.log.Warn("load failed, starting with empty data", "error", err)
		s = model.NewStore()
	}
	if a.clock != nil {
		s.SetClock(a.clock)
	}
	a.store = s
	a.log.Debug("data loaded", "categories", len(s.Categories))
	return a
}

// Store exposes the live store for read-only rendering.
func (a *App) Store() *model.Store {
	return a.store
}

// ParseDecay converts user text to a decay rate. Range checks are left to
// the store.
func ParseDecay(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w (got %q)", ErrInvalidDecay, text)
	}
	return v, nil
}

// ParseScore converts user text to a score. Negative values are left to the
// store.
func ParseScore(text string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w (got %q)", ErrInvalidScore, text)
	}
	return v, nil
}

// FormatDecay renders a rate the way dialogs prefill it.
func FormatDecay(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// fail records err for the error dialog and hands it back.
func (a *App) fail(action string, err error) error {
	a.ErrorMessage = err.Error()
	a.log.Debug("action rejected", "action", action, "error", err)
	return err
}

// commit persists after a successful mutation and closes any dialog. A save
// failure is reported but the in-memory change stays.
func (a *App) commit(ctx context.Context, action string) error {
	a.Modal = nil
	a.ErrorMessage = ""
	if err := a.persister.Save(ctx, a.store); err != nil {
		a.log.Error("save failed", "action", action, "error", err)
		return a.fail(action, fmt.Errorf("save failed: %w", err))
	}
	a.log.Debug("saved", "action", action)
	return nil
}

// DismissError closes the error dialog.
func (a *App) DismissError() {
	a.ErrorMessage = ""
}

// SelectItem switches the main screen to cat/item and resets the input and
// history selection.
func (a *App) SelectItem(cat, item string) error {
	if _, err := a.store.Item(cat, item); err != nil {
		return a.fail("select", err)
	}
	a.Selection = Selection{Category: cat, Item: item, HistoryIndex: NoHistory}
	return nil
}

// SelectHistory highlights a history row without scrolling to it.
func (a *App) SelectHistory(index int) error {
	it, err := a.selectedItem()
	if err != nil {
		return a.fail("select-history", err)
	}
	if index < 0 || index >= len(it.Scores) {
		return a.fail("select-history", fmt.Errorf("%w: %d", model.ErrIndexOutOfRange, index))
	}
	a.Selection.HistoryIndex = index
	a.Selection.ScrollTo = false
	return nil
}

func (a *App) selectedItem() (*model.Item, error) {
	if !a.Selection.HasItem() {
		return nil, ErrNoSelection
	}
	return a.store.Item(a.Selection.Category, a.Selection.Item)
}

func (a *App) AddCategory(ctx context.Context, name string) error {
	if err := a.store.AddCategory(name); err != nil {
		return a.fail("add-category", err)
	}
	return a.commit(ctx, "add-category")
}

func (a *App) RenameCategory(ctx context.Context, oldName, newName string) error {
	if err := a.store.RenameCategory(oldName, newName); err != nil {
		return a.fail("rename-category", err)
	}
	if a.Selection.Category == oldName {
		a.Selection.Category = strings.TrimSpace(newName)
	}
	return a.commit(ctx, "rename-category")
}

// AddItem parses decayText and adds the item. Blank text uses the default
// decay rate.
func (a *App) AddItem(ctx context.Context, cat, name, decayText string) error {
	rate := a.defaultDecay
	if strings.TrimSpace(decayText) != "" {
		var err error
		if rate, err = ParseDecay(decayText); err != nil {
			return a.fail("add-item", err)
		}
	}
	if err := a.store.AddItem(cat, name, rate); err != nil {
		return a.fail("add-item", err)
	}
	return a.commit(ctx, "add-item")
}

// AddScore appends the parsed text to the selected item and clears the input.
func (a *App) AddScore(ctx context.Context, text string) error {
	if !a.Selection.HasItem() {
		return a.fail("add-score", ErrNoSelection)
	}
	score, err := ParseScore(text)
	if err != nil {
		return a.fail("add-score", err)
	}
	if err := a.store.AddScore(a.Selection.Category, a.Selection.Item, score); err != nil {
		return a.fail("add-score", err)
	}
	a.Selection.InputScore = ""
	return a.commit(ctx, "add-score")
}

// AddScores appends several scores to the selected item and saves once. Every
// text is parsed and checked first, so one bad value adds nothing.
func (a *App) AddScores(ctx context.Context, texts []string) error {
	if !a.Selection.HasItem() {
		return a.fail("add-scores", ErrNoSelection)
	}
	scores := make([]int64, len(texts))
	for i, text := range texts {
		score, err := ParseScore(text)
		if err != nil {
			return a.fail("add-scores", err)
		}
		if score < 0 {
			return a.fail("add-scores", fmt.Errorf("%w (got %d)", model.ErrNegativeScore, score))
		}
		scores[i] = score
	}

	next := a.store.Clone()
	for _, score := range scores {
		if err := next.AddScore(a.Selection.Category, a.Selection.Item, score); err != nil {
			return a.fail("add-scores", err)
		}
	}
	a.store = next
	a.Selection.InputScore = ""
	return a.commit(ctx, "add-scores")
}

// UpdateItem moves, renames and re-rates an item as one step. Nothing
// changes unless every part succeeds.
func (a *App) UpdateItem(ctx context.Context, fromCat, item, toCat, newName, decayText string) error {
	rate, err := ParseDecay(decayText)
	if err != nil {
		return a.fail("update-item", err)
	}
	if err := a.store.UpdateItem(fromCat, item, toCat, newName, rate); err != nil {
		return a.fail("update-item", err)
	}
	if a.Selection.Category == fromCat && a.Selection.Item == item {
		a.Selection.Category = toCat
		a.Selection.Item = strings.TrimSpace(newName)
	}
	return a.commit(ctx, "update-item")
}

// UpdateDecayRate changes the decay rate of the selected item.
func (a *App) UpdateDecayRate(ctx context.Context, decayText string) error {
	if !a.Selection.HasItem() {
		return a.fail("update-decay", ErrNoSelection)
	}
	rate, err := ParseDecay(decayText)
	if err != nil {
		return a.fail("update-decay", err)
	}
	if err := a.store.UpdateDecay(a.Selection.Category, a.Selection.Item, rate); err != nil {
		return a.fail("update-decay", err)
	}
	return a.commit(ctx, "update-decay")
}

func (a *App) DeleteCategory(ctx context.Context, name string) error {
	if _, err := a.store.RemoveCategory(name); err != nil {
		return a.fail("delete-category", err)
	}
	if a.Selection.Category == name {
		a.Selection = Selection{HistoryIndex: NoHistory}
	}
	return a.commit(ctx, "delete-category")
}

func (a *App) DeleteItem(ctx context.Context, cat, item string) error {
	if err := a.store.RemoveItem(cat, item); err != nil {
		return a.fail("delete-item", err)
	}
	if a.Selection.Category == cat && a.Selection.Item == item {
		a.Selection.Item = ""
		a.Selection.InputScore = ""
		a.Selection.clearHistory()
	}
	return a.commit(ctx, "delete-item")
}

// DeleteScore removes the score at physical position index of the selected
// item.
func (a *App) DeleteScore(ctx context.Context, index int) error {
	if !a.Selection.HasItem() {
		return a.fail("delete-score", ErrNoSelection)
	}
	if err := a.store.RemoveScore(a.Selection.Category, a.Selection.Item, index); err != nil {
		return a.fail("delete-score", err)
	}
	a.Selection.clearHistory()
	return a.commit(ctx, "delete-score")
}

// Click maps a chart x coordinate to a score and selects it, requesting the
// history list to scroll there. A click outside every bar clears the
// selection.
func (a *App) Click(x float64) (int, bool) {
	v, ok := a.View()
	if !ok {
		return NoHistory, false
	}
	idx, hit := v.Layout.Resolve(x)
	if !hit {
		a.Selection.clearHistory()
		return NoHistory, false
	}
	a.Selection.HistoryIndex = idx
	a.Selection.ScrollTo = true
	return idx, true
}

// TakeScroll returns the pending scroll target once.
func (a *App) TakeScroll() (int, bool) {
	if !a.Selection.ScrollTo || a.Selection.HistoryIndex == NoHistory {
		return NoHistory, false
	}
	a.Selection.ScrollTo = false
	return a.Selection.HistoryIndex, true
}

// HistoryRow is one history line; Index is the physical score position.
type HistoryRow struct {
	Index     int
	Score     int64
	Timestamp time.Time
	Selected  bool
}

// ItemView is everything the main screen shows for the selected item.
type ItemView struct {
	Category  string
	Item      string
	DecayRate float64
	UpdatedAt time.Time

	Summary stats.Summary
	Range   stats.Range
	Layout  chart.Layout

	// History is newest first.
	History []HistoryRow
}

// View computes the main-screen model for the selected item. ok is false
// when nothing (or nothing valid) is selected.
func (a *App) View() (ItemView, bool) {
	it, err := a.selectedItem()
	if err != nil {
		return ItemView{}, false
	}

	values := it.Values()
	sum := stats.Summarize(values, it.DecayRate)
	rng := stats.PlotRange(values, sum.Weights)

	rows := make([]HistoryRow, 0, len(it.Scores))
	for i := len(it.Scores) - 1; i >= 0; i-- {
		rows = append(rows, HistoryRow{
			Index:     i,
			Score:     it.Scores[i].Score,
			Timestamp: it.Scores[i].Timestamp,
			Selected:  i == a.Selection.HistoryIndex,
		})
	}

	return ItemView{
		Category:  a.Selection.Category,
		Item:      a.Selection.Item,
		DecayRate: it.DecayRate,
		UpdatedAt: it.UpdatedAt,
		Summary:   sum,
		Range:     rng,
		Layout:    chart.NewLayout(values, sum.Weights, rng.Floor),
		History:   rows,
	}, true
}
