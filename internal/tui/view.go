package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/detail"
	"github.com/b1ack-panther/jikan-journeys/internal/search"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	favStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	favMark       = "♥"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenDetail:
		return m.viewDetail()
	case screenFavorites:
		return m.viewFavorites()
	}
	return m.viewSearch()
}

func (m Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m Model) listHeight() int {
	// header, input, filters, status, share, notice, help
	const chrome = 8
	h := m.height - chrome
	if m.height == 0 {
		h = defaultHeight - chrome
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) viewHeader(section string) string {
	right := dimStyle.Render(fmt.Sprintf("%s %d", favMark, m.favs.Len()))
	return titleStyle.Render("Jikan Journeys") + " " + dimStyle.Render(section) + "  " + right
}

func (m Model) viewSearch() string {
	st := m.search.State()
	var b strings.Builder

	section := "search"
	if m.showingTop() {
		section = "top anime"
	}
	b.WriteString(m.viewHeader(section))
	b.WriteRune('\n')

	if m.prompting {
		b.WriteString(m.prompt.View())
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(Truncate(commandHelp, m.viewWidth())))
	} else {
		b.WriteString(m.input.View())
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("filters: " + summaryOrNone(st.Filters)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewResults(st))
	b.WriteRune('\n')

	if line := m.viewPagination(st); line != "" {
		b.WriteString(line)
		b.WriteRune('\n')
	}
	if m.sync != nil && st.Query != "" {
		b.WriteString(dimStyle.Render("share: " + MiddleTruncate(m.sync.URL(), m.viewWidth()-7)))
		b.WriteRune('\n')
	}
	if m.notice != "" {
		style := dimStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(Truncate(m.notice, m.viewWidth())))
		b.WriteRune('\n')
	}
	b.WriteString(dimStyle.Render("↑/↓ select · enter details · pgup/pgdn page · ctrl+f favorite · ctrl+o favorites · ctrl+g filters · esc quit"))
	return b.String()
}

func (m Model) viewResults(st search.State) string {
	if m.showingTop() {
		switch {
		case m.topLoading && m.top == nil:
			return m.spinner.View() + " Loading top anime..."
		case m.topErr != nil && m.top == nil:
			return errorStyle.Render(search.ErrorMessage(m.topErr))
		case m.top == nil:
			return ""
		}
		return m.viewList(m.top.Items)
	}

	switch {
	case st.Status == search.StatusFailed:
		return errorStyle.Render(st.ErrorMessage)
	case st.Page == nil && st.Loading:
		return m.spinner.View() + " Searching..."
	case st.Page == nil:
		return dimStyle.Render("Waiting for you to stop typing...")
	case len(st.Page.Items) == 0:
		return dimStyle.Render("No anime matched \"" + Clean(st.Query) + "\".")
	}
	return m.viewList(st.Page.Items)
}

func (m Model) viewList(items []catalog.AnimeSummary) string {
	var b strings.Builder
	width := m.viewWidth()
	maxItems := m.listHeight()

	start := 0
	if m.selection >= maxItems {
		start = m.selection - maxItems + 1
	}
	for i := start; i < len(items) && i < start+maxItems; i++ {
		line := SummaryLine(items[i], width-4, m.favs.Contains(items[i].MalID))
		if i == m.selection {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		if i < len(items)-1 && i < start+maxItems-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// SummaryLine renders one result as "Title (TV, 26 eps, 1998) ★ 8.75 ♥".
func SummaryLine(a catalog.AnimeSummary, width int, fav bool) string {
	var meta []string
	if a.Type != "" {
		meta = append(meta, Clean(a.Type))
	}
	if a.Episodes > 0 {
		meta = append(meta, strconv.Itoa(a.Episodes)+" eps")
	}
	if a.Year > 0 {
		meta = append(meta, strconv.Itoa(a.Year))
	}

	suffix := ""
	if len(meta) > 0 {
		suffix += " (" + strings.Join(meta, ", ") + ")"
	}
	if a.Score > 0 {
		suffix += fmt.Sprintf(" ★ %.2f", a.Score)
	}
	if fav {
		suffix += " " + favMark
	}

	title := Clean(a.Title)
	room := width - lipgloss.Width(suffix)
	if room < 8 {
		return Truncate(title+suffix, width)
	}
	return Truncate(title, room) + suffix
}

func (m Model) viewPagination(st search.State) string {
	var page *catalog.ResultPage
	loading := false
	if m.showingTop() {
		page, loading = m.top, m.topLoading
	} else if st.Status != search.StatusFailed {
		page, loading = st.Page, st.Loading
	}
	if page == nil {
		return ""
	}
	line := dimStyle.Render(fmt.Sprintf("page %d of %d", page.CurrentPage, page.LastPage))
	if loading {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) viewDetail() string {
	v := m.detail
	width := m.viewWidth()
	var b strings.Builder

	b.WriteString(m.viewHeader("details"))
	b.WriteString("\n\n")

	switch {
	case v.Detail != nil:
		b.WriteString(m.viewDetailBody(v.Detail, width))
	case v.DetailErr != nil:
		b.WriteString(errorStyle.Render("Failed to fetch anime details: " + fetchErrorText(v.DetailErr)))
	case v.LoadingDetail():
		b.WriteString(m.spinner.View() + " Loading details...")
	}
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Main characters"))
	b.WriteRune('\n')
	b.WriteString(m.viewCharacters(v, width))
	b.WriteString("\n\n")

	if m.notice != "" {
		style := dimStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(Truncate(m.notice, width)))
		b.WriteRune('\n')
	}
	b.WriteString(dimStyle.Render("ctrl+f favorite · esc back"))
	return b.String()
}

func (m Model) viewDetailBody(d *catalog.AnimeDetail, width int) string {
	var b strings.Builder

	title := Clean(d.Title)
	if m.favs.Contains(d.MalID) {
		title += " " + favStyle.Render(favMark)
	}
	b.WriteString(headingStyle.Render(title))
	if alt := altTitles(d); alt != "" {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(Truncate(alt, width)))
	}
	b.WriteRune('\n')

	var facts []string
	add := func(label, value string) {
		if value != "" && value != "0" {
			facts = append(facts, label+" "+Clean(value))
		}
	}
	add("type", d.Type)
	add("episodes", strconv.Itoa(d.Episodes))
	add("status", d.Status)
	add("aired", d.Aired.String)
	add("duration", d.Duration)
	add("rating", d.Rating)
	add("rank", strconv.Itoa(d.Rank))
	add("popularity", strconv.Itoa(d.Popularity))
	add("members", strconv.Itoa(d.Members))
	b.WriteString(dimStyle.Render(strings.Join(Wrap(strings.Join(facts, " · "), width), "\n")))
	b.WriteRune('\n')

	if d.Score > 0 {
		score := fmt.Sprintf("★ %.2f", d.Score)
		if d.ScoredBy > 0 {
			score += fmt.Sprintf(" (%d votes)", d.ScoredBy)
		}
		b.WriteString(scoreStyle.Render(score))
		b.WriteRune('\n')
	}
	if names := namedList(d.Genres); names != "" {
		b.WriteString("genres: " + names + "\n")
	}
	if names := namedList(d.Themes); names != "" {
		b.WriteString("themes: " + names + "\n")
	}
	if names := namedList(d.Studios); names != "" {
		b.WriteString("studios: " + names + "\n")
	}

	if d.Synopsis != "" {
		b.WriteRune('\n')
		b.WriteString(strings.Join(Wrap(Clean(d.Synopsis), width), "\n"))
	}
	return b.String()
}

func altTitles(d *catalog.AnimeDetail) string {
	var alts []string
	if d.TitleEnglish != "" && d.TitleEnglish != d.Title {
		alts = append(alts, Clean(d.TitleEnglish))
	}
	if d.TitleJapanese != "" {
		alts = append(alts, Clean(d.TitleJapanese))
	}
	return strings.Join(alts, " · ")
}

func namedList(items []catalog.Named) string {
	names := make([]string, 0, len(items))
	for _, n := range items {
		names = append(names, Clean(n.Name))
	}
	return strings.Join(names, ", ")
}

func (m Model) viewCharacters(v *detail.View, width int) string {
	switch {
	case v.CharactersErr != nil:
		return errorStyle.Render("Failed to fetch characters: " + fetchErrorText(v.CharactersErr))
	case v.LoadingCharacters():
		return m.spinner.View() + " Loading characters..."
	}
	chars := v.MainCharacters()
	if len(chars) == 0 {
		return dimStyle.Render("No main characters listed.")
	}
	lines := make([]string, len(chars))
	for i, c := range chars {
		line := Clean(c.Character.Name)
		if len(c.VoiceActors) > 0 {
			line += dimStyle.Render(" · " + Clean(c.VoiceActors[0].Person.Name))
		}
		lines[i] = "  " + Truncate(line, width-2)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewFavorites() string {
	width := m.viewWidth()
	var b strings.Builder

	b.WriteString(m.viewHeader("favorites"))
	b.WriteString("\n\n")

	switch {
	case m.favLoading:
		b.WriteString(m.spinner.View() + " Loading favorites...")
	case m.favErr != nil:
		b.WriteString(errorStyle.Render("Failed to load favorites: " + fetchErrorText(m.favErr)))
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("ctrl+r to retry"))
	case len(m.favItems) == 0:
		b.WriteString(dimStyle.Render("No favorites yet. Press ctrl+f on a result to add one."))
	default:
		for i, item := range m.favItems {
			line := SummaryLine(item.AnimeSummary, width-4, false)
			if i == m.favSel {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString(normalStyle.Render("  " + line))
			}
			b.WriteRune('\n')
		}
	}
	b.WriteString("\n")

	if m.notice != "" {
		style := dimStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(Truncate(m.notice, width)))
		b.WriteRune('\n')
	}
	b.WriteString(dimStyle.Render("enter details · ctrl+f remove · ctrl+r reload · esc back"))
	return b.String()
}

// fetchErrorText describes a failed detail or favorites lookup.
func fetchErrorText(err error) string {
	if catalog.IsNotFound(err) {
		return "Not found in the catalog."
	}
	return search.ErrorMessage(err)
}
