package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"score-tracker/internal/app"
	"score-tracker/internal/chart"
	"score-tracker/internal/format"
	"score-tracker/internal/service"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session with a selected item and confirmation prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return newShell(a, cmd.InOrStdin(), cmd.OutOrStdout()).run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

const shellHelp = `commands:
  ls                           list categories and items
  select CATEGORY ITEM         choose the item to work on
  view                         statistics and history of the selected item
  add SCORE...                 record scores for the selected item
  rm #N                        delete score #N of the selected item
  decay [RATE]                 change the selected item's decay rate
  click X                      select the score drawn at chart position X
  chart [FILE]                 render the selected item to FILE (png or svg)
  cat add|rename|rm ...        manage categories
  item add CATEGORY NAME [RATE]
  item edit CATEGORY NAME      move, rename or re-rate an item
  item rm CATEGORY NAME
  report                       overview of everything
  help, quit`

var errQuit = errors.New("quit")

type shell struct {
	app     *app.App
	in      *bufio.Scanner
	out     io.Writer
	summary *service.SummaryService
}

func newShell(a *app.App, in io.Reader, out io.Writer) *shell {
	return &shell{
		app:     a,
		in:      bufio.NewScanner(in),
		out:     out,
		summary: service.NewSummaryService(),
	}
}

func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, "score tracker shell, type help for commands")
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, ok := sh.ask(sh.prompt())
		if !ok {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		err = sh.exec(ctx, args)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			sh.app.DismissError()
			sh.app.CloseModal()
		}
	}
}

func (sh *shell) prompt() string {
	sel := sh.app.Selection
	if sel.HasItem() {
		return fmt.Sprintf("[%s/%s]> ", sel.Category, sel.Item)
	}
	return "> "
}

// ask prints prompt and reads one line; ok is false at end of input.
func (sh *shell) ask(prompt string) (string, bool) {
	fmt.Fprint(sh.out, prompt)
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

// askDefault keeps def when the answer is empty.
func (sh *shell) askDefault(label, def string) string {
	answer, ok := sh.ask(fmt.Sprintf("%s [%s]: ", label, def))
	if !ok || answer == "" {
		return def
	}
	return answer
}

// confirm resolves the open confirmation dialog from a y/N answer.
func (sh *shell) confirm(ctx context.Context, question string) error {
	answer, _ := sh.ask(question + " [y/N]: ")
	switch strings.ToLower(answer) {
	case "y", "yes":
		return sh.app.Confirm(ctx)
	default:
		sh.app.CloseModal()
		fmt.Fprintln(sh.out, "cancelled")
		return nil
	}
}

func (sh *shell) exec(ctx context.Context, args []string) error {
	a := sh.app
	cmd, rest := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "quit", "exit", "q":
		return errQuit
	case "ls":
		sh.list()
	case "report":
		fmt.Fprintln(sh.out, sh.summary.Report(a.Store(), time.Now()))
	case "select", "use":
		if len(rest) != 2 {
			return errors.New("usage: select CATEGORY ITEM")
		}
		if err := a.SelectItem(rest[0], rest[1]); err != nil {
			return err
		}
		sh.view()
	case "view":
		if !a.Selection.HasItem() {
			return app.ErrNoSelection
		}
		sh.view()
	case "add", "score":
		if len(rest) == 0 {
			return errors.New("usage: add SCORE...")
		}
		a.Selection.InputScore = strings.Join(rest, " ")
		if err := a.AddScores(ctx, rest); err != nil {
			return err
		}
		sh.itemLine()
	case "rm":
		if len(rest) != 1 {
			return errors.New("usage: rm #N")
		}
		return sh.removeScore(ctx, rest[0])
	case "decay":
		return sh.editDecay(ctx, rest)
	case "click":
		if len(rest) != 1 {
			return errors.New("usage: click X")
		}
		return sh.click(rest[0])
	case "chart":
		return sh.chart(rest)
	case "cat", "category":
		return sh.category(ctx, rest)
	case "item":
		return sh.item(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q, type help", args[0])
	}
	return nil
}

func (sh *shell) list() {
	s := sh.app.Store()
	cats := s.CategoryNames()
	if len(cats) == 0 {
		fmt.Fprintln(sh.out, "no categories, add one with: cat add NAME")
		return
	}
	for _, cat := range cats {
		fmt.Fprintln(sh.out, cat)
		items, _ := s.ItemNames(cat)
		for _, name := range items {
			it, _ := s.Item(cat, name)
			fmt.Fprintf(sh.out, "  %s: %s\n", name, sh.summary.ItemLine(it))
		}
	}
}

func (sh *shell) itemLine() {
	v, ok := sh.app.View()
	if !ok {
		return
	}
	it, _ := sh.app.Store().Item(v.Category, v.Item)
	fmt.Fprintf(sh.out, "%s/%s: %s\n", v.Category, v.Item, sh.summary.ItemLine(it))
}

func (sh *shell) view() {
	v, ok := sh.app.View()
	if !ok {
		return
	}
	sh.itemLine()
	if v.Summary.Count > 0 {
		fmt.Fprintf(sh.out, "plot range %s - %s, chart width %.3f\n",
			format.Float(v.Range.Floor, 1), format.Float(v.Range.Ceiling, 1), v.Layout.TotalWidth)
	}
	if len(v.History) == 0 {
		fmt.Fprintln(sh.out, "no history")
		return
	}
	for _, row := range v.History {
		marker := " "
		if row.Selected {
			marker = ">"
		}
		fmt.Fprintf(sh.out, "%s #%-4d %12s  [%s]\n", marker, row.Index+1, format.Int(row.Score), format.Timestamp(row.Timestamp))
	}
}

func (sh *shell) removeScore(ctx context.Context, pos string) error {
	index, err := parsePosition(pos)
	if err != nil {
		return err
	}
	it, err := sh.app.Store().Item(sh.app.Selection.Category, sh.app.Selection.Item)
	if !sh.app.Selection.HasItem() || err != nil {
		return app.ErrNoSelection
	}
	if index < 0 || index >= len(it.Scores) {
		return fmt.Errorf("no score #%d", index+1)
	}
	sh.app.OpenDeleteScore(index)
	question := fmt.Sprintf("delete #%d: %s?", index+1, format.Int(it.Scores[index].Score))
	return sh.confirm(ctx, question)
}

func (sh *shell) editDecay(ctx context.Context, rest []string) error {
	if err := sh.app.OpenEditDecay(); err != nil {
		return err
	}
	m := sh.app.Modal.(*app.EditDecayModal)
	if len(rest) > 0 {
		m.Decay = rest[0]
	} else {
		m.Decay = sh.askDefault("decay rate", m.Decay)
	}
	if err := sh.app.Submit(ctx); err != nil {
		return err
	}
	sh.itemLine()
	return nil
}

func (sh *shell) click(text string) error {
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid x %q", text)
	}
	if !sh.app.Selection.HasItem() {
		return app.ErrNoSelection
	}
	index, ok := sh.app.Click(x)
	if !ok {
		fmt.Fprintln(sh.out, "no selection")
		return nil
	}
	if i, scroll := sh.app.TakeScroll(); scroll {
		index = i
	}
	v, _ := sh.app.View()
	fmt.Fprintf(sh.out, "selected #%d: %s\n", index+1, format.Int(v.Layout.Segments[index].Score))
	return nil
}

func (sh *shell) chart(rest []string) error {
	v, ok := sh.app.View()
	if !ok {
		return app.ErrNoSelection
	}
	path := fmt.Sprintf("%s_%s.png", slug(v.Category), slug(v.Item))
	if len(rest) > 0 {
		path = rest[0]
	}
	formatName := "png"
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		formatName = "svg"
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = chart.Render(f, v.Layout, chart.RenderOptions{
		Title:    fmt.Sprintf("%s / %s", v.Category, v.Item),
		Width:    cfg.ChartWidth,
		Height:   cfg.ChartHeight,
		Format:   formatName,
		Selected: sh.app.Selection.HistoryIndex,
		Mean:     v.Summary.Mean,
		Range:    v.Range,
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	fmt.Fprintf(sh.out, "wrote %s\n", path)
	return nil
}

func (sh *shell) category(ctx context.Context, rest []string) error {
	a := sh.app
	if len(rest) == 0 {
		return errors.New("usage: cat add NAME | cat rename OLD NEW | cat rm NAME")
	}
	switch rest[0] {
	case "add":
		if len(rest) != 2 {
			return errors.New("usage: cat add NAME")
		}
		a.OpenAddCategory()
		a.Modal.(*app.AddCategoryModal).Name = rest[1]
		return a.Submit(ctx)
	case "rename":
		if len(rest) != 3 {
			return errors.New("usage: cat rename OLD NEW")
		}
		if err := a.OpenRenameCategory(rest[1]); err != nil {
			return err
		}
		a.Modal.(*app.RenameCategoryModal).NewName = rest[2]
		return a.Submit(ctx)
	case "rm":
		if len(rest) != 2 {
			return errors.New("usage: cat rm NAME")
		}
		if !a.Store().HasCategory(rest[1]) {
			return fmt.Errorf("category %q not found", rest[1])
		}
		a.OpenDeleteCategory(rest[1])
		return sh.confirm(ctx, fmt.Sprintf("delete category %q with all its items and scores?", rest[1]))
	default:
		return fmt.Errorf("unknown cat subcommand %q", rest[0])
	}
}

func (sh *shell) item(ctx context.Context, rest []string) error {
	a := sh.app
	if len(rest) < 3 {
		return errors.New("usage: item add|edit|rm CATEGORY NAME")
	}
	cat, name := rest[1], rest[2]
	switch rest[0] {
	case "add":
		if err := a.OpenAddItem(cat); err != nil {
			return err
		}
		m := a.Modal.(*app.AddItemModal)
		m.Name = name
		if len(rest) > 3 {
			m.Decay = rest[3]
		}
		return a.Submit(ctx)
	case "edit":
		if err := a.OpenEditItem(cat, name); err != nil {
			return err
		}
		m := a.Modal.(*app.EditItemModal)
		fmt.Fprintf(sh.out, "categories: %s\n", strings.Join(m.Categories, ", "))
		m.NewCategory = sh.askDefault("category", m.NewCategory)
		m.NewName = sh.askDefault("name", m.NewName)
		m.Decay = sh.askDefault("decay rate", m.Decay)
		return a.Submit(ctx)
	case "rm":
		if !a.Store().HasItem(cat, name) {
			return fmt.Errorf("item %q not found in %q", name, cat)
		}
		a.OpenDeleteItem(cat, name)
		return sh.confirm(ctx, fmt.Sprintf("delete %q and all its scores?", name))
	default:
		return fmt.Errorf("unknown item subcommand %q", rest[0])
	}
}

// splitArgs splits a shell line on whitespace, keeping single- or
// double-quoted runs together so names may contain spaces.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		pending bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			pending = true
		case r == ' ' || r == '\t':
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if pending {
		args = append(args, cur.String())
	}
	return args, nil
}
