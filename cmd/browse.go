package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/adapters/prefs"
	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/services"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Launch a full-screen browser over the catalog.

The browser provides:
- Category sidebar with live reload on category changes
- Paginated asset list (20 per page) with sorting and filtering
- Debounced search across all metadata fields
- Detail view with favorite toggle and delete

Keyboard Shortcuts:
  Navigation:
    ↑/k ↓/j     Move selection
    ←/h →/l     Previous / next page
    tab         Next category
    shift+tab   Previous category

  Actions:
    enter       Open detail tab
    f           Toggle favorite
    d           Delete asset
    s           Cycle sort column (reselect flips direction)
    w           Close detail tab

  Views:
    /           Search mode
    x           Toggle NSFW visibility
    g           Toggle grid/masonry layout
    esc         Clear search / back
    ?           Help
    q           Quit`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	cats, err := categoryService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	if err := catalogService.Reload(ctx, domain.AllAssetsCategory); err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	m := newBrowseModel(ctx, cats)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}

// Browse view modes
type browseMode int

const (
	browseList browseMode = iota
	browseSearch
	browseDetail
	browseHelp
	browseConfirmDelete
)

type browseModel struct {
	ctx        context.Context
	mode       browseMode
	categories []domain.Category
	catNames   []string
	catIndex   int

	cursor int
	width  int
	height int
	ready  bool

	searchInput textinput.Model
	searchSeq   int
	showNSFW    bool
	layout      string

	tabs         domain.Tabs
	loaded       map[int]*domain.Asset
	deleteTarget *domain.Asset

	help          help.Model
	keys          browseKeyMap
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time

	changes <-chan struct{}
}

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	NextCat  key.Binding
	PrevCat  key.Binding
	Open     key.Binding
	Favorite key.Binding
	Delete   key.Binding
	Sort     key.Binding
	Layout   key.Binding
	CloseTab key.Binding
	Search   key.Binding
	NSFW     key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPage, k.Open, k.Search, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.NextCat, k.PrevCat},
		{k.Open, k.Favorite, k.Delete, k.Sort, k.Layout, k.CloseTab},
		{k.Search, k.NSFW, k.Help, k.Escape, k.Quit},
	}
}

var browseKeys = browseKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
	NextCat:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
	PrevCat:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
	Open:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "details")),
	Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Layout:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "layout")),
	CloseTab: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "close tab")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	NSFW:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "nsfw")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	Cancel:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
}

func newBrowseModel(ctx context.Context, cats []domain.Category) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Search assets..."
	ti.CharLimit = 100
	ti.Width = 50

	names := flattenCategories(cats)
	catIndex := 0
	for i, n := range names {
		if n == domain.AllAssetsCategory {
			catIndex = i
			break
		}
	}

	return browseModel{
		ctx:         ctx,
		mode:        browseList,
		categories:  cats,
		catNames:    names,
		catIndex:    catIndex,
		searchInput: ti,
		showNSFW:    appPrefs.GetBool(prefs.KeyShowNSFW, false),
		layout:      appPrefs.GetString(prefs.KeyGridLayout, "grid"),
		loaded:      make(map[int]*domain.Asset),
		help:        help.New(),
		keys:        browseKeys,
		changes:     changeHub.Subscribe(),
	}
}

// flattenCategories turns the tree into the sidebar's flat entry list.
func flattenCategories(cats []domain.Category) []string {
	var names []string
	for _, c := range cats {
		for _, sub := range c.Subcategories {
			names = append(names, sub.Name)
		}
	}
	if len(names) == 0 {
		names = []string{domain.AllAssetsCategory, domain.FavoritesCategory}
	}
	return names
}

// Messages

type browseStatusMsg struct {
	message string
	style   lipgloss.Style
}

type browseClearMsg struct{}

type assetsReloadedMsg struct{}

type searchDebounceMsg struct{ seq int }

type searchResultMsg struct {
	gen    uint64
	assets []domain.Asset
	err    error
}

type detailLoadedMsg struct {
	asset *domain.Asset
	err   error
}

type favoriteToggledMsg struct {
	asset *domain.Asset
}

type categoriesChangedMsg struct{}

type categoriesLoadedMsg struct {
	cats []domain.Category
}

func (m browseModel) Init() tea.Cmd {
	return m.waitForCategoryChange()
}

// waitForCategoryChange blocks on the hub and converts the signal into a
// message. Re-armed after every delivery.
func (m browseModel) waitForCategoryChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return categoriesChangedMsg{}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case browseSearch:
			return m.updateSearch(msg)
		case browseDetail:
			return m.updateDetail(msg)
		case browseHelp:
			return m.updateHelp(msg)
		case browseConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}

	case browseStatusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return browseClearMsg{} })

	case browseClearMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case assetsReloadedMsg:
		m.cursor = 0
		return m, nil

	case searchDebounceMsg:
		// Only the latest keystroke's timer fires a search.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, m.searchCmd(m.searchInput.Value())

	case searchResultMsg:
		if msg.err != nil {
			return m, m.status("Search failed: "+msg.err.Error(), ui.StyleError)
		}
		// Superseded results are dropped by the generation check.
		if catalogService.ApplySearch(msg.gen, msg.assets) {
			m.cursor = 0
		}
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			return m, m.status("Failed to load asset: "+msg.err.Error(), ui.StyleError)
		}
		m.loaded[msg.asset.ID] = msg.asset
		m.tabs.Open(msg.asset.ID)
		m.mode = browseDetail
		return m, nil

	case favoriteToggledMsg:
		if _, ok := m.loaded[msg.asset.ID]; ok {
			m.loaded[msg.asset.ID] = msg.asset
		}
		// Unfavoriting in the Favorites view drops the row, so the cursor
		// may now point past the end of the page.
		m.clampCursor()
		note := "Unfavorited " + msg.asset.Name
		if msg.asset.IsFavorite {
			note = ui.IconFavorite + " Favorited " + msg.asset.Name
		}
		return m, m.status(note, ui.StyleSuccess)

	case categoriesChangedMsg:
		return m, tea.Batch(m.loadCategories(), m.waitForCategoryChange())

	case categoriesLoadedMsg:
		m.categories = msg.cats
		m.catNames = flattenCategories(msg.cats)
		if m.catIndex >= len(m.catNames) {
			m.catIndex = 0
		}
		return m, nil
	}

	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clampCursor()
	visible := m.visibleAssets()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.PrevPage):
		catalogService.SetPage(catalogService.Page() - 1)
		m.cursor = 0

	case key.Matches(msg, m.keys.NextPage):
		catalogService.SetPage(catalogService.Page() + 1)
		m.cursor = 0

	case key.Matches(msg, m.keys.NextCat):
		return m.switchCategory(1)

	case key.Matches(msg, m.keys.PrevCat):
		return m.switchCategory(-1)

	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
		m.cursor = 0

	case key.Matches(msg, m.keys.Open):
		if len(visible) > 0 {
			id := visible[m.cursor].ID
			if _, ok := m.loaded[id]; ok {
				m.tabs.Open(id)
				m.mode = browseDetail
				return m, nil
			}
			return m, m.loadDetail(id)
		}

	case key.Matches(msg, m.keys.Favorite):
		if len(visible) > 0 {
			return m, m.toggleFavorite(visible[m.cursor].ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if len(visible) > 0 {
			a := visible[m.cursor]
			m.deleteTarget = &a
			m.mode = browseConfirmDelete
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = browseSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NSFW):
		m.showNSFW = !m.showNSFW
		catalogService.SetShowMature(m.showNSFW)
		if err := appPrefs.Set(prefs.KeyShowNSFW, m.showNSFW); err != nil {
			return m, m.status("Failed to save preference", ui.StyleError)
		}
		m.cursor = 0

	case key.Matches(msg, m.keys.Layout):
		if m.layout == "grid" {
			m.layout = "masonry"
		} else {
			m.layout = "grid"
		}
		if err := appPrefs.Set(prefs.KeyGridLayout, m.layout); err != nil {
			return m, m.status("Failed to save preference", ui.StyleError)
		}

	case key.Matches(msg, m.keys.Help):
		m.mode = browseHelp
	}

	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = browseList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchSeq++
		m.cursor = 0
		return m, m.reloadAssets()

	case msg.Type == tea.KeyEnter:
		m.mode = browseList
		m.searchInput.Blur()
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.visibleAssets())-1 {
			m.cursor++
		}
		return m, nil

	default:
		var cmd tea.Cmd
		before := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() == before {
			return m, cmd
		}
		// Debounce: arm a timer per keystroke, only the newest fires.
		m.searchSeq++
		seq := m.searchSeq
		debounce := appConfig.SearchDebounce
		return m, tea.Batch(cmd, tea.Tick(debounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{seq: seq}
		}))
	}
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.loaded[m.tabs.Active()]

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeDetail()

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextCat):
		m.tabs.Next()

	case key.Matches(msg, m.keys.PrevCat):
		m.tabs.Prev()

	case key.Matches(msg, m.keys.CloseTab):
		if active != nil && !m.tabs.Close(active.ID) {
			// The last tab closes the whole detail view.
			m.closeDetail()
		}

	case key.Matches(msg, m.keys.Favorite):
		if active != nil {
			return m, m.toggleFavorite(active.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if active != nil {
			m.deleteTarget = active
			m.mode = browseConfirmDelete
		}
	}
	return m, nil
}

// closeDetail drops every open tab and returns to the list.
func (m *browseModel) closeDetail() {
	m.mode = browseList
	m.tabs = domain.Tabs{}
	m.loaded = make(map[int]*domain.Asset)
}

func (m browseModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = browseList
	}
	return m, nil
}

func (m browseModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.deleteTarget
		m.deleteTarget = nil
		m.cursor = 0
		if m.tabs.Len() > 0 {
			delete(m.loaded, target.ID)
			if m.tabs.Close(target.ID) {
				m.mode = browseDetail
			} else {
				m.closeDetail()
			}
		} else {
			m.mode = browseList
		}
		return m, m.deleteAsset(target)

	case key.Matches(msg, m.keys.Cancel):
		m.deleteTarget = nil
		if m.tabs.Len() > 0 {
			m.mode = browseDetail
		} else {
			m.mode = browseList
		}
	}
	return m, nil
}

// switchCategory moves the sidebar selection and reloads the catalog.
func (m browseModel) switchCategory(dir int) (tea.Model, tea.Cmd) {
	if len(m.catNames) == 0 {
		return m, nil
	}
	m.catIndex = (m.catIndex + dir + len(m.catNames)) % len(m.catNames)
	m.cursor = 0
	return m, m.reloadAssets()
}

func (m browseModel) cycleSort() {
	current, _ := catalogService.Sort()
	switch current {
	case services.SortByName:
		catalogService.SortBy(services.SortByType)
	case services.SortByType:
		catalogService.SortBy(services.SortByMedia)
	default:
		catalogService.SortBy(services.SortByName)
	}
}

// visibleAssets returns the current catalog page. The NSFW preference is
// applied inside the catalog filter, before pagination.
func (m browseModel) visibleAssets() []domain.Asset {
	return catalogService.Visible()
}

// clampCursor keeps the selection inside the current page after rows
// disappear underneath it.
func (m *browseModel) clampCursor() {
	if max := len(m.visibleAssets()) - 1; m.cursor > max {
		m.cursor = max
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Commands

func (m browseModel) status(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return browseStatusMsg{message: message, style: style}
	}
}

func (m browseModel) reloadAssets() tea.Cmd {
	category := m.catNames[m.catIndex]
	return func() tea.Msg {
		if err := catalogService.Reload(context.Background(), category); err != nil {
			return browseStatusMsg{message: "Reload failed: " + err.Error(), style: ui.StyleError}
		}
		return assetsReloadedMsg{}
	}
}

func (m browseModel) searchCmd(query string) tea.Cmd {
	gen := catalogService.NextGeneration()
	category := catalogService.Category()
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			if err := catalogService.Reload(context.Background(), category); err != nil {
				return searchResultMsg{err: err}
			}
			return assetsReloadedMsg{}
		}
		assets, err := apiClient.Search(context.Background(), query, category)
		return searchResultMsg{gen: gen, assets: assets, err: err}
	}
}

func (m browseModel) loadDetail(id int) tea.Cmd {
	return func() tea.Msg {
		asset, err := apiClient.Get(context.Background(), id)
		return detailLoadedMsg{asset: asset, err: err}
	}
}

func (m browseModel) toggleFavorite(id int) tea.Cmd {
	return func() tea.Msg {
		updated, err := catalogService.ToggleFavorite(context.Background(), id)
		if err != nil {
			return browseStatusMsg{message: "Favorite failed: " + err.Error(), style: ui.StyleError}
		}
		return favoriteToggledMsg{asset: updated}
	}
}

func (m browseModel) deleteAsset(target *domain.Asset) tea.Cmd {
	return func() tea.Msg {
		if target == nil {
			return nil
		}
		if err := apiClient.Delete(context.Background(), target.ID); err != nil {
			return browseStatusMsg{message: "Delete failed: " + err.Error(), style: ui.StyleError}
		}
		catalogService.Remove(target.ID)
		return browseStatusMsg{message: "Deleted " + target.Name, style: ui.StyleSuccess}
	}
}

func (m browseModel) loadCategories() tea.Cmd {
	return func() tea.Msg {
		cats, err := categoryService.List(context.Background())
		if err != nil {
			return browseStatusMsg{message: "Category reload failed: " + err.Error(), style: ui.StyleError}
		}
		return categoriesLoadedMsg{cats: cats}
	}
}

// Views

func (m browseModel) View() string {
	if !m.ready {
		return "\n  Loading catalog..."
	}
	switch m.mode {
	case browseHelp:
		return m.viewHelp()
	case browseConfirmDelete:
		return m.viewConfirmDelete()
	case browseDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m browseModel) viewList() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n\n")

	sidebarWidth := 22
	sidebar := m.renderSidebar(sidebarWidth)
	list := m.renderAssetList(m.width - sidebarWidth - 3)

	sidebarLines := strings.Split(sidebar, "\n")
	listLines := strings.Split(list, "\n")
	maxLines := len(sidebarLines)
	if len(listLines) > maxLines {
		maxLines = len(listLines)
	}
	for i := 0; i < maxLines; i++ {
		var left, right string
		if i < len(sidebarLines) {
			left = sidebarLines[i]
		}
		if i < len(listLines) {
			right = listLines[i]
		}
		s.WriteString(padLine(left, sidebarWidth))
		s.WriteString(" │ ")
		s.WriteString(right)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m browseModel) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(0, 1).
		Render("Lokarni Browser")
	sortKey, asc := catalogService.Sort()
	dir := "↑"
	if !asc {
		dir = "↓"
	}
	nsfw := "hidden"
	if m.showNSFW {
		nsfw = "shown"
	}
	stats := ui.StyleMuted.Render(fmt.Sprintf("sort: %s%s  nsfw: %s  layout: %s",
		sortKey, dir, nsfw, m.layout))

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}
	return title + strings.Repeat(" ", spacer) + stats
}

func (m browseModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == browseSearch {
		borderColor = ui.ColorPrimary
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 4)

	content := m.searchInput.View()
	if m.mode != browseSearch && m.searchInput.Value() == "" {
		content = ui.StyleMuted.Render("Press / to search...")
	}
	return style.Render(content)
}

func (m browseModel) renderSidebar(width int) string {
	var s strings.Builder
	for _, c := range m.categories {
		s.WriteString(ui.StyleHeader.Render(ui.Truncate(c.Title, width)))
		s.WriteString("\n")
		for _, sub := range c.Subcategories {
			idx := -1
			for i, n := range m.catNames {
				if n == sub.Name {
					idx = i
					break
				}
			}
			line := "  " + ui.Truncate(sub.Name, width-4)
			if idx == m.catIndex {
				line = ui.StylePrimary.Render("▶ " + ui.Truncate(sub.Name, width-4))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m browseModel) renderAssetList(width int) string {
	assets := m.visibleAssets()
	if len(assets) == 0 {
		empty := "No assets here."
		if m.searchInput.Value() != "" {
			empty = "No assets match your search."
		}
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1, 2).Render(empty)
	}

	var s strings.Builder
	nameWidth := width - 28
	if nameWidth < 16 {
		nameWidth = 16
	}
	for i, a := range assets {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(ui.ColorDefault)
		if i == m.cursor {
			cursor = ui.StylePrimary.Render("▶ ")
			style = ui.StylePrimary.Bold(true)
		}
		line := fmt.Sprintf("%s%s %-*s %-12s %3d",
			cursor,
			ui.Favorite(a.IsFavorite),
			nameWidth, style.Render(ui.Truncate(a.Name, nameWidth)),
			ui.Truncate(a.Type, 12),
			a.MediaCount(),
		)
		if a.Mature() {
			line += " " + ui.MatureBadge(true)
		}
		s.WriteString(line)
		s.WriteString("\n")
		if m.layout == "masonry" {
			meta := a.BaseModel
			if tags := strings.Join(a.TagList(), ", "); tags != "" {
				if meta != "" {
					meta += " · "
				}
				meta += tags
			}
			if meta != "" {
				s.WriteString("     " + ui.StyleSubtle.Render(ui.Truncate(meta, nameWidth+14)))
			}
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m browseModel) renderFooter() string {
	var statusLine string
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		statusLine = m.messageStyle.Render(m.message)
	} else {
		statusLine = ui.StyleMuted.Render(fmt.Sprintf("%s  page %d/%d  %d assets",
			m.catNames[m.catIndex],
			catalogService.Page(), catalogService.TotalPages(),
			len(catalogService.All())))
	}
	hint := ui.StyleMuted.Render("[↑↓] Move  [←→] Page  [tab] Category  [enter] Details  [f] Favorite  [/] Search  [?] Help  [q] Quit")
	return lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, statusLine, hint))
}

func (m browseModel) viewDetail() string {
	a := m.loaded[m.tabs.Active()]
	if a == nil {
		return "\n  Loading asset...\n"
	}

	var s strings.Builder
	s.WriteString("\n  ")
	s.WriteString(m.renderTabBar())
	s.WriteString("\n")

	title := a.Name
	if a.IsFavorite {
		title = ui.IconFavorite + " " + title
	}
	s.WriteString("\n  ")
	s.WriteString(ui.StyleTitle.Render(title))
	if a.Mature() {
		s.WriteString("  " + ui.MatureBadge(true))
	}
	s.WriteString("\n\n")

	kv := func(k, v string) {
		if v != "" {
			s.WriteString("  " + ui.RenderKeyValue(k, v) + "\n")
		}
	}
	kv("ID", fmt.Sprintf("%d", a.ID))
	kv("Type", a.Type)
	kv("Base model", a.BaseModel)
	kv("Version", a.ModelVersion)
	kv("Creator", a.Creator)
	kv("Triggers", a.TriggerWords)
	kv("Tags", strings.Join(a.TagList(), ", "))
	kv("Media", fmt.Sprintf("%d file(s)", a.MediaCount()))

	if a.PositivePrompt != "" {
		s.WriteString("\n  " + ui.FormatBold("Positive prompt") + "\n")
		s.WriteString("  " + ui.Truncate(a.PositivePrompt, m.width*3) + "\n")
	}
	if a.Description != "" {
		s.WriteString("\n  " + ui.FormatBold("Description") + "\n")
		s.WriteString("  " + ui.Truncate(a.Description, m.width*3) + "\n")
	}

	s.WriteString("\n\n  ")
	s.WriteString(ui.StyleMuted.Render("[tab] Switch tab  [w] Close tab  [f] Favorite  [d] Delete  [esc] Back  [q] Quit"))
	s.WriteString("\n")
	return s.String()
}

// renderTabBar shows one chip per open detail tab, active one highlighted.
func (m browseModel) renderTabBar() string {
	active := m.tabs.Active()
	chips := make([]string, 0, m.tabs.Len())
	for _, id := range m.tabs.IDs() {
		label := fmt.Sprintf("#%d", id)
		if a := m.loaded[id]; a != nil {
			label = ui.Truncate(a.Name, 18)
		}
		if id == active {
			chips = append(chips, ui.StylePrimary.Render("["+label+"]"))
		} else {
			chips = append(chips, ui.StyleMuted.Render(" "+label+" "))
		}
	}
	return strings.Join(chips, " ")
}

func (m browseModel) viewConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
			lipgloss.NewStyle().Foreground(ui.ColorWarning).Bold(true).Render(ui.IconWarning+"  Delete Asset?"),
			ui.StylePrimary.Bold(true).Render(m.deleteTarget.Name),
			ui.StyleMuted.Render(m.deleteTarget.Type),
			"Press 'y' to confirm, 'n' or ESC to cancel",
		))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m browseModel) viewHelp() string {
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(1, 2).
		Render("Lokarni Browser - Keyboard Shortcuts"))
	s.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []struct{ key, desc string }
	}{
		{
			title: "Navigation",
			keys: []struct{ key, desc string }{
				{"↑ / k", "Move selection up"},
				{"↓ / j", "Move selection down"},
				{"← / h", "Previous page"},
				{"→ / l", "Next page"},
				{"tab", "Next category"},
				{"shift+tab", "Previous category"},
			},
		},
		{
			title: "Actions",
			keys: []struct{ key, desc string }{
				{"enter", "Open detail tab (reuses an existing tab)"},
				{"f", "Toggle favorite"},
				{"d", "Delete asset (with confirmation)"},
				{"s", "Cycle sort column"},
				{"w", "Close detail tab (last tab closes the view)"},
			},
		},
		{
			title: "Views & Search",
			keys: []struct{ key, desc string }{
				{"/", "Search (debounced, esc clears)"},
				{"x", "Toggle NSFW visibility"},
				{"g", "Toggle grid/masonry layout"},
				{"?", "Show this help"},
				{"q", "Quit"},
			},
		},
	}

	sectionStyle := lipgloss.NewStyle().Foreground(ui.ColorAccent).Bold(true).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Bold(true).Width(12)
	for _, section := range sections {
		s.WriteString(sectionStyle.Render(section.title))
		s.WriteString("\n")
		for _, b := range section.keys {
			s.WriteString("  ")
			s.WriteString(keyStyle.Render(b.key))
			s.WriteString(b.desc)
			s.WriteString("\n")
		}
	}
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return"))
	s.WriteString("\n")
	return s.String()
}

func padLine(s string, width int) string {
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}
