package app

// NoHistory marks an empty history selection.
const NoHistory = -1

// Selection is the resident screen state: the item being looked at, the
// highlighted history entry and the pending score input.
type Selection struct {
	Category string
	Item     string

	// HistoryIndex is the physical score position, or NoHistory.
	HistoryIndex int
	// ScrollTo asks the history list to bring HistoryIndex into view once.
	ScrollTo bool

	InputScore string
}

// HasItem reports whether both a category and an item are selected.
func (s Selection) HasItem() bool {
	return s.Category != "" && s.Item != ""
}

func (s *Selection) clearHistory() {
	s.HistoryIndex = NoHistory
	s.ScrollTo = false
}

// Modal is the dialog currently open on top of the main screen. A nil Modal
// means no dialog. The set of implementations is closed.
type Modal interface {
	modal()
}

type AddCategoryModal struct {
	Name string
}

type RenameCategoryModal struct {
	Target  string
	NewName string
}

type AddItemModal struct {
	Category string
	Name     string
	Decay    string
}

// EditItemModal edits category, name and decay of one item in a single step.
type EditItemModal struct {
	Category string
	Item     string

	NewCategory string
	NewName     string
	Decay       string

	// Categories lists move destinations alphabetically.
	Categories []string
}

type EditDecayModal struct {
	Decay string
}

type ConfirmDeleteCategoryModal struct {
	Category string
}

type ConfirmDeleteItemModal struct {
	Category string
	Item     string
}

type ConfirmDeleteScoreModal struct {
	Index int
}

func (*AddCategoryModal) modal()           {}
func (*RenameCategoryModal) modal()        {}
func (*AddItemModal) modal()               {}
func (*EditItemModal) modal()              {}
func (*EditDecayModal) modal()             {}
func (*ConfirmDeleteCategoryModal) modal() {}
func (*ConfirmDeleteItemModal) modal()     {}
func (*ConfirmDeleteScoreModal) modal()    {}
