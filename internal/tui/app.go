// Package tui renders the newsdesk terminal interface on top of the
// headlines coordinator, the source selection service and the saved list.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/btcalls/newsdesk/internal/api"
	"github.com/btcalls/newsdesk/internal/browser"
	"github.com/btcalls/newsdesk/internal/headlines"
	"github.com/btcalls/newsdesk/internal/imgcache"
	"github.com/btcalls/newsdesk/internal/saved"
	"github.com/btcalls/newsdesk/internal/sources"
	"github.com/btcalls/newsdesk/internal/store"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeHeadlines mode = iota
	modeSearch
	modeSources
	modeSaved
	modeHelp
)

// Options carries the collaborators the app renders.
type Options struct {
	Coordinator *headlines.Coordinator
	Sources     *sources.Service
	Saved       *saved.Service
	Images      *imgcache.Cache
}

type App struct {
	coord   *headlines.Coordinator
	sources *sources.Service
	saved   *saved.Service
	loader  *imgcache.Loader

	snap      headlines.Snapshot
	thumb     imgcache.Update
	savedList []store.Article
	savedKeys map[string]bool

	// Source picker working copy; discarded on esc, committed on enter.
	working   []store.Source
	srcCursor int

	cursor        int
	savedCursor   int
	focus         focusPane
	mode          mode
	previewScroll int
	width         int
	height        int

	searchInput textinput.Model
	spinner     spinner.Model
	term        string
	err         error
}

func NewApp(opts Options) *App {
	ti := textinput.New()
	ti.Placeholder = "Search headlines..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		coord:       opts.Coordinator,
		sources:     opts.Sources,
		saved:       opts.Saved,
		loader:      opts.Images.NewLoader(),
		searchInput: ti,
		spinner:     sp,
		savedKeys:   make(map[string]bool),
	}
	a.reloadSaved()
	return a
}

func articleKey(sourceName, url string, published time.Time) string {
	return sourceName + "|" + url + "|" + published.UTC().Format(time.RFC3339)
}

func (a *App) reloadSaved() {
	a.savedList = a.saved.List()
	a.savedKeys = make(map[string]bool, len(a.savedList))
	for _, s := range a.savedList {
		a.savedKeys[articleKey(s.SourceName, s.URL, s.PublishedAt)] = true
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitSnapshot(),
		a.waitThumb(),
		a.initialFetch(),
		a.spinner.Tick,
	)
}

func (a *App) initialFetch() tea.Cmd {
	coord := a.coord
	return func() tea.Msg {
		coord.FetchIfNeeded(context.Background(), "")
		return nil
	}
}

func (a *App) waitSnapshot() tea.Cmd {
	ch := a.coord.Updates()
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snap: s}
	}
}

func (a *App) waitThumb() tea.Cmd {
	ch := a.loader.Updates()
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return thumbMsg{update: u}
	}
}

// loadThumbForCursor points the loader at the highlighted article's image.
// Repeated calls while scrolling supersede each other; only the latest URL
// ever reaches the preview.
func (a *App) loadThumbForCursor() {
	switch a.mode {
	case modeSaved:
		if a.savedCursor < len(a.savedList) {
			a.loader.Load(a.savedList[a.savedCursor].ThumbnailURL)
		}
	default:
		if a.cursor < len(a.snap.Articles) {
			a.loader.Load(a.snap.Articles[a.cursor].URLToImage)
		}
	}
}

func (a *App) saveCmd(article api.Article) tea.Cmd {
	coord := a.coord
	return func() tea.Msg {
		return saveDoneMsg{err: coord.Save(article)}
	}
}

func (a *App) deleteSavedCmd(article store.Article) tea.Cmd {
	svc := a.saved
	return func() tea.Msg {
		remaining, err := svc.Delete(article)
		return savedDeletedMsg{remaining: remaining, err: err}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		a.err = nil
		return a.handleKey(msg)

	case snapshotMsg:
		a.snap = msg.snap
		if a.cursor >= len(a.snap.Articles) {
			a.cursor = max(0, len(a.snap.Articles)-1)
		}
		if a.mode == modeHeadlines {
			a.loadThumbForCursor()
		}
		cmds := []tea.Cmd{a.waitSnapshot()}
		if a.snap.Phase == headlines.PhaseLoading {
			cmds = append(cmds, a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case thumbMsg:
		a.thumb = msg.update
		return a, a.waitThumb()

	case saveDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.reloadSaved()
		}
		return a, nil

	case savedDeletedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.savedList = msg.remaining
		a.savedKeys = make(map[string]bool, len(a.savedList))
		for _, s := range a.savedList {
			a.savedKeys[articleKey(s.SourceName, s.URL, s.PublishedAt)] = true
		}
		if a.savedCursor >= len(a.savedList) {
			a.savedCursor = max(0, len(a.savedList)-1)
		}
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.snap.Phase == headlines.PhaseLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.loader.Close()
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeSources:
		return a.handleSourcesKey(msg)
	case modeSaved:
		return a.handleSavedKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeHeadlines
		}
		return a, nil
	}

	// Headlines mode.
	switch msg.String() {
	case "q":
		a.loader.Close()
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.snap.Articles)-1 {
			a.cursor++
			a.previewScroll = 0
			a.loadThumbForCursor()
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
			a.loadThumbForCursor()
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if a.cursor < len(a.snap.Articles) {
			return a, openBrowserCmd(a.snap.Articles[a.cursor].URL)
		}
		return a, nil
	case "s":
		if a.cursor < len(a.snap.Articles) {
			return a, a.saveCmd(a.snap.Articles[a.cursor])
		}
		return a, nil
	case "r":
		a.coord.Fetch(context.Background(), a.term)
		return a, a.spinner.Tick
	case "/":
		a.mode = modeSearch
		a.searchInput.SetValue(a.term)
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.working = a.sources.ListAll()
		a.srcCursor = 0
		a.mode = modeSources
		return a, nil
	case "v":
		a.reloadSaved()
		a.savedCursor = 0
		a.mode = modeSaved
		a.loadThumbForCursor()
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeHeadlines
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		if a.term != "" {
			a.term = ""
			a.coord.Fetch(context.Background(), "")
			return a, a.spinner.Tick
		}
		return a, nil
	case "enter":
		a.mode = modeHeadlines
		a.term = strings.TrimSpace(a.searchInput.Value())
		a.searchInput.Blur()
		a.cursor = 0
		a.coord.Fetch(context.Background(), a.term)
		return a, a.spinner.Tick
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleSourcesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeHeadlines
		a.working = nil
		return a, nil
	case "j", "down":
		if a.srcCursor < len(a.working)-1 {
			a.srcCursor++
		}
		return a, nil
	case "k", "up":
		if a.srcCursor > 0 {
			a.srcCursor--
		}
		return a, nil
	case " ":
		if a.srcCursor < len(a.working) {
			s := a.working[a.srcCursor]
			sources.SetSelected(a.working, s.ID, !s.Selected)
		}
		return a, nil
	case "c":
		sources.ClearSelections(a.working)
		return a, nil
	case "enter":
		if err := a.sources.Commit(a.working); err != nil {
			a.err = err
			return a, nil
		}
		a.mode = modeHeadlines
		a.working = nil
		a.cursor = 0
		a.coord.Fetch(context.Background(), a.term)
		return a, a.spinner.Tick
	case "q":
		a.loader.Close()
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleSavedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "v":
		a.mode = modeHeadlines
		a.loadThumbForCursor()
		return a, nil
	case "j", "down":
		if a.savedCursor < len(a.savedList)-1 {
			a.savedCursor++
			a.loadThumbForCursor()
		}
		return a, nil
	case "k", "up":
		if a.savedCursor > 0 {
			a.savedCursor--
			a.loadThumbForCursor()
		}
		return a, nil
	case "o", "enter":
		if a.savedCursor < len(a.savedList) {
			return a, openBrowserCmd(a.savedList[a.savedCursor].URL)
		}
		return a, nil
	case "d":
		if a.savedCursor < len(a.savedList) {
			return a, a.deleteSavedCmd(a.savedList[a.savedCursor])
		}
		return a, nil
	case "q":
		a.loader.Close()
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return headerStyle.Render("newsdesk")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	headerHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - statusHeight - 2
	if contentHeight < 3 {
		contentHeight = 3
	}

	header := a.renderHeader()
	var content, hints string

	switch a.mode {
	case modeSources:
		picker := renderSourcePicker(a.working, a.srcCursor, contentHeight, a.width-4)
		content = paneActiveStyle.Width(a.width - 2).Height(contentHeight).Render(picker)
		hints = fmt.Sprintf("%d selected · space toggle  c clear  enter apply  esc cancel", countSelected(a.working))
	case modeSaved:
		content = a.renderSplit(a.savedRows(), a.savedCursor, a.savedPreview(), contentHeight)
		hints = "d delete  o open  esc back  q quit"
	default:
		content = a.renderSplit(a.headlineRows(), a.cursor, a.headlinePreview(), contentHeight)
		hints = "s save  o open  / search  f sources  v saved  r refresh  ? help  q quit"
		if a.mode == modeSearch {
			hints = "enter search  esc cancel"
		}
	}

	status := a.renderStatus(hints)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (a *App) headlineRows() []listRow {
	rows := make([]listRow, len(a.snap.Articles))
	for i, art := range a.snap.Articles {
		rows[i] = articleRow(art, a.savedKeys[articleKey(art.Source.Name, art.URL, art.PublishedAt)])
	}
	return rows
}

func (a *App) savedRows() []listRow {
	rows := make([]listRow, len(a.savedList))
	for i, art := range a.savedList {
		rows[i] = listRow{
			title: art.Title,
			meta:  itemSourceStyle.Render(art.SourceName) + " " + itemTimeStyle.Render("· "+relativeTime(art.PublishedAt)),
		}
	}
	return rows
}

func (a *App) headlinePreview() *previewItem {
	if a.cursor >= len(a.snap.Articles) {
		return nil
	}
	art := a.snap.Articles[a.cursor]
	return &previewItem{
		Title:       art.Title,
		SourceName:  art.Source.Name,
		Author:      art.Author,
		Description: art.Description,
		URL:         art.URL,
		ImageURL:    art.URLToImage,
		When:        art.PublishedAt.Format("Jan 2, 2006"),
	}
}

func (a *App) savedPreview() *previewItem {
	if a.savedCursor >= len(a.savedList) {
		return nil
	}
	art := a.savedList[a.savedCursor]
	return &previewItem{
		Title:       art.Title,
		SourceName:  art.SourceName,
		Author:      art.Author,
		Description: art.Description,
		URL:         art.URL,
		ImageURL:    art.ThumbnailURL,
		When:        art.PublishedAt.Format("Jan 2, 2006"),
	}
}

func (a *App) renderSplit(rows []listRow, cursor int, item *previewItem, contentHeight int) string {
	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	listContent := renderRows(rows, cursor, contentHeight, listWidth-4)
	previewContent := renderPreview(item, a.thumb, previewWidth-4, contentHeight, a.previewScroll)

	listStyle, prevStyle := paneStyle, paneStyle
	if a.focus == focusList {
		listStyle = paneActiveStyle
	} else {
		prevStyle = paneActiveStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Width(listWidth-2).Height(contentHeight).Render(listContent),
		prevStyle.Width(previewWidth-2).Height(contentHeight).Render(previewContent),
	)
}

func (a *App) renderHeader() string {
	left := headerStyle.Render("newsdesk")
	if a.mode == modeSearch {
		return left + " " + a.searchInput.View()
	}
	if a.term != "" {
		left += itemTimeStyle.Render(" · " + a.term)
	}
	right := headerStatusStyle.Render(a.snap.Status)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 0 {
		gap = 0
	}
	return left + fmt.Sprintf("%*s", gap, "") + right + " "
}

func (a *App) renderStatus(hints string) string {
	var left string
	switch a.mode {
	case modeSaved:
		left = fmt.Sprintf("%d saved", len(a.savedList))
	default:
		left = fmt.Sprintf("%d articles", len(a.snap.Articles))
	}

	if a.snap.Phase == headlines.PhaseLoading {
		left = a.spinner.View() + " " + left
	}
	if a.err != nil {
		return statusBarStyle.Width(a.width).Render(errorStyle.Render(a.err.Error()))
	}
	if a.snap.ErrorMessage != "" && a.mode != modeSources {
		return statusBarStyle.Width(a.width).Render(errorStyle.Render(a.snap.ErrorMessage))
	}
	return renderStatusBar(left, hints+" ", a.width)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsdesk")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through the article list\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  s             Save the highlighted article\n" +
		"  o, enter      Open article in browser\n" +
		"  r             Refetch headlines\n" +
		"  /             Search headlines\n" +
		"  f             Choose sources\n" +
		"  v             Saved articles\n\n" +
		dim.Render("Source Picker") + "\n" +
		"  space         Toggle source\n" +
		"  c             Clear all selections\n" +
		"  enter         Apply and refetch\n" +
		"  esc           Discard changes\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, helpCardStyle.Render(help))
}

// Run starts the interface and blocks until the user quits.
func Run(opts Options) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
