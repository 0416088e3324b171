package app

import (
	"context"
	"fmt"

	"score-tracker/internal/model"
)

func (a *App) OpenAddCategory() {
	a.Modal = &AddCategoryModal{}
}

func (a *App) OpenRenameCategory(cat string) error {
	if !a.store.HasCategory(cat) {
		return a.fail("open-rename-category", fmt.Errorf("category %q: %w", cat, model.ErrCategoryNotFound))
	}
	a.Modal = &RenameCategoryModal{Target: cat, NewName: cat}
	return nil
}

func (a *App) OpenAddItem(cat string) error {
	if !a.store.HasCategory(cat) {
		return a.fail("open-add-item", fmt.Errorf("category %q: %w", cat, model.ErrCategoryNotFound))
	}
	a.Modal = &AddItemModal{Category: cat, Decay: FormatDecay(a.defaultDecay)}
	return nil
}

// OpenEditItem prefills the edit dialog with the item's current values.
func (a *App) OpenEditItem(cat, item string) error {
	rate, err := a.store.ItemDecay(cat, item)
	if err != nil {
		return a.fail("open-edit-item", err)
	}
	a.Modal = &EditItemModal{
		Category:    cat,
		Item:        item,
		NewCategory: cat,
		NewName:     item,
		Decay:       FormatDecay(rate),
		Categories:  a.store.CategoryNamesAlpha(),
	}
	return nil
}

// OpenEditDecay opens the decay dialog for the selected item.
func (a *App) OpenEditDecay() error {
	it, err := a.selectedItem()
	if err != nil {
		a.Modal = nil
		return a.fail("open-edit-decay", err)
	}
	a.Modal = &EditDecayModal{Decay: FormatDecay(it.DecayRate)}
	return nil
}

func (a *App) OpenDeleteCategory(cat string) {
	a.Modal = &ConfirmDeleteCategoryModal{Category: cat}
}

func (a *App) OpenDeleteItem(cat, item string) {
	a.Modal = &ConfirmDeleteItemModal{Category: cat, Item: item}
}

func (a *App) OpenDeleteScore(index int) {
	a.Modal = &ConfirmDeleteScoreModal{Index: index}
}

func (a *App) CloseModal() {
	a.Modal = nil
}

// Submit dispatches the open dialog's inputs. On failure the dialog stays
// open with ErrorMessage set.
func (a *App) Submit(ctx context.Context) error {
	switch m := a.Modal.(type) {
	case nil:
		return ErrNoModal
	case *AddCategoryModal:
		return a.AddCategory(ctx, m.Name)
	case *RenameCategoryModal:
		return a.RenameCategory(ctx, m.Target, m.NewName)
	case *AddItemModal:
		return a.AddItem(ctx, m.Category, m.Name, m.Decay)
	case *EditItemModal:
		return a.UpdateItem(ctx, m.Category, m.Item, m.NewCategory, m.NewName, m.Decay)
	case *EditDecayModal:
		return a.UpdateDecayRate(ctx, m.Decay)
	default:
		return a.Confirm(ctx)
	}
}

// Confirm carries out the deletion an open confirmation dialog asks about.
func (a *App) Confirm(ctx context.Context) error {
	switch m := a.Modal.(type) {
	case *ConfirmDeleteCategoryModal:
		return a.DeleteCategory(ctx, m.Category)
	case *ConfirmDeleteItemModal:
		return a.DeleteItem(ctx, m.Category, m.Item)
	case *ConfirmDeleteScoreModal:
		return a.DeleteScore(ctx, m.Index)
	default:
		return ErrNoModal
	}
}
