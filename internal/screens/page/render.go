package page

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/progress"
	"github.com/deepsea/deepsea/internal/ui/components"
	"github.com/deepsea/deepsea/internal/ui/document"
	"github.com/deepsea/deepsea/internal/ui/theme"
)

// Section ids, in page order.
const (
	SectionHome    = "home"
	SectionWhy     = "why"
	SectionTracks  = "tracks"
	SectionProof   = "proof"
	SectionLearn   = "learn"
	SectionFAQ     = "faq"
	SectionUpdates = "updates"
	SectionFooter  = "footer"
)

// focusable is an activatable element of the page: a button or a link.
type focusable struct {
	id     string
	line   int
	height int
	col    int
	width  int
	action func() tea.Cmd
}

func (f focusable) contains(x, line int) bool {
	return line >= f.line && line < f.line+f.height && x >= f.col && x < f.col+f.width
}

// canvas accumulates the page's lines while recording sections, focusable
// elements and document nodes at the line they land on.
type canvas struct {
	width      int
	focusID    string
	lines      []string
	sections   map[string]int
	order      []string
	focusables []focusable
	doc        *document.Document
}

func newCanvas(width int, focusID string) *canvas {
	return &canvas{
		width:    width,
		focusID:  focusID,
		sections: make(map[string]int),
		doc:      document.New(),
	}
}

func (c *canvas) line() int { return len(c.lines) }

func (c *canvas) write(s string) {
	c.lines = append(c.lines, strings.Split(s, "\n")...)
}

func (c *canvas) blank() { c.lines = append(c.lines, "") }

// wrap renders text soft-wrapped to the canvas width.
func (c *canvas) wrap(style lipgloss.Style, text string) {
	c.write(style.Width(c.width).Render(text))
}

func (c *canvas) section(id, title, subtitle string) {
	c.sections[id] = c.line()
	c.order = append(c.order, id)
	c.doc.Add("section-"+id, document.KindSection, title)
	c.write(theme.Title.Render("■ " + title))
	if subtitle != "" {
		c.wrap(theme.Subtitle, subtitle)
	}
	c.blank()
}

// anchor records a section id without a heading.
func (c *canvas) anchor(id string) {
	c.sections[id] = c.line()
	c.order = append(c.order, id)
}

type button struct {
	id     string
	testID string
	label  string
	action func() tea.Cmd
}

// buttons renders one row of buttons, indented by two columns.
func (c *canvas) buttons(bs ...button) {
	row := c.line()
	col := 2
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		view := components.NewButton(b.label, b.id == c.focusID, nil).View()
		w := lipgloss.Width(view)
		c.focusables = append(c.focusables, focusable{
			id: b.id, line: row, height: 1, col: col, width: w, action: b.action,
		})
		if b.testID != "" {
			c.doc.Add(b.testID, document.KindButton, b.label)
		}
		parts = append(parts, view)
		col += w + 1
	}
	c.write("  " + strings.Join(parts, " "))
}

func (c *canvas) bullets(items []string) {
	for _, item := range items {
		c.wrap(theme.Body.PaddingLeft(2), "• "+item)
	}
}

func cardStyle(focused bool) lipgloss.Style {
	if focused {
		return theme.FocusedCard
	}
	return theme.Card
}

func pill(text string) string {
	return theme.Pill.Render(text)
}

// render lays out the whole page.
func (s *Screen) render(width int) *canvas {
	c := newCanvas(width, s.focusID)
	cat := s.catalog

	s.renderNav(c)
	s.renderHero(c, cat)
	s.renderWhy(c, cat)
	s.renderTracks(c, cat)
	s.renderProof(c, cat)
	s.renderLearning(c, cat)
	for _, t := range cat.Tracks {
		s.renderTrackDetail(c, t)
	}
	s.renderFAQ(c, cat)
	s.renderUpdates(c, cat)
	s.renderFooter(c, cat)

	c.doc.SetBody(strings.Join(c.lines, "\n"))
	return c
}

var navItems = []struct {
	section string
	label   string
}{
	{SectionWhy, "我们怎么做"},
	{SectionTracks, "方向"},
	{SectionProof, "学员案例"},
	{SectionLearn, "学习中心"},
	{SectionFAQ, "FAQ"},
	{SectionUpdates, "最新进展"},
}

func (s *Screen) renderNav(c *canvas) {
	bs := make([]button, 0, len(navItems))
	for _, item := range navItems {
		bs = append(bs, button{id: "nav-" + item.section, label: item.label, action: s.goTo(item.section)})
	}
	c.buttons(bs...)
	c.blank()
}

func (s *Screen) renderHero(c *canvas, cat *catalog.Catalog) {
	c.anchor(SectionHome)
	c.write(pill(cat.Brand))
	c.doc.Add("hero-title", document.KindHeading, cat.Hero.Title)
	c.wrap(theme.Title, cat.Hero.Title)
	c.blank()
	c.wrap(theme.Body, cat.Hero.Lead)
	c.blank()
	pills := make([]string, 0, len(cat.Hero.Pills))
	for _, p := range cat.Hero.Pills {
		pills = append(pills, pill(p))
	}
	c.write(lipgloss.JoinHorizontal(lipgloss.Top, pills...))
	c.blank()
	c.buttons(
		button{id: "open-learning", label: "进入学习中心 →", action: s.openDialog},
		button{id: "hero-tracks", label: "快速选择方向", action: s.goTo(SectionTracks)},
		button{id: "hero-why", label: "我们怎么做？", action: s.goTo(SectionWhy)},
	)
	c.blank()
}

func (s *Screen) renderWhy(c *canvas, cat *catalog.Catalog) {
	c.section(SectionWhy, cat.Why.Title, cat.Why.Subtitle)
	for _, p := range cat.Why.Points {
		body := theme.Heading.Render(p.Title) + "\n" + theme.Body.Render(p.Body)
		c.write(theme.Card.Width(c.width).Render(body))
	}
	c.blank()
}

func (s *Screen) renderTracks(c *canvas, cat *catalog.Catalog) {
	c.section(SectionTracks, "选择你的深耕方向", "先选人群，再选打法：进入详情前先看 15 秒概览")
	for _, t := range cat.Tracks {
		id := "track-card-" + t.Key
		c.doc.Add(id, document.KindCard, t.Title)

		var b strings.Builder
		b.WriteString(pill(cat.Brand) + " " + pill(t.Tag) + "\n")
		b.WriteString(theme.Heading.Render(t.Title) + "\n")
		b.WriteString(theme.Subtitle.Render(t.Line) + "\n")
		for _, item := range t.Bullets {
			b.WriteString(theme.Body.Render("• "+item) + "\n")
		}
		b.WriteString(theme.Hint.Render("了解详情 →"))

		card := cardStyle(s.focusID == id).Width(c.width).Render(b.String())
		c.focusables = append(c.focusables, focusable{
			id: id, line: c.line(), height: lipgloss.Height(card),
			width: lipgloss.Width(card), action: s.goTo(t.Key),
		})
		c.write(card)
	}
	c.blank()
}

func (s *Screen) renderProof(c *canvas, cat *catalog.Catalog) {
	c.section(SectionProof, "学员代表案例", "真实与可复制，胜过夸张的形容词")
	for _, cs := range cat.Cases {
		c.doc.Add("case-card", document.KindCard, cs.Who)
		body := theme.Subtitle.Render(cs.Who) + "\n" + theme.Heading.Render(cs.What)
		c.write(theme.Card.Width(c.width).Render(body))
	}
	if cat.CasesNote != "" {
		c.wrap(theme.Hint, cat.CasesNote)
	}
	c.blank()
}

func (s *Screen) renderLearning(c *canvas, cat *catalog.Catalog) {
	c.section(SectionLearn, "学习中心", "进入你已购买的课程，继续学习并查看进度")
	c.doc.Add("learning-center", document.KindSection, "学习中心")

	st := s.state
	if !st.LoggedIn {
		c.write(theme.Heading.Render("请登录后查看你的课程"))
		c.wrap(theme.Subtitle, "演示环境不含注册与支付；选择下方按钮进行「一键 Demo 登录」。")
		c.buttons(button{id: "demo-login", testID: "demo-login", label: "Demo 登录", action: s.login})
		c.blank()
		return
	}

	c.wrap(theme.Subtitle, fmt.Sprintf("欢迎，%s。这是你的学习中心（演示版），仅提供学习功能。", st.Name))
	c.buttons(
		button{id: "history", label: "学习记录", action: s.openHistory},
		button{id: "logout", label: "退出", action: s.logout},
	)
	if s.flash != "" {
		c.write(theme.Done.Render("  " + s.flash))
	}
	c.blank()

	courses := cat.Purchased(st.Purchased)
	if recent := progress.Recent(courses, st.Progress); len(recent) > 0 {
		c.write(theme.Heading.Render("最近学习"))
		for _, r := range recent {
			c.write(theme.Body.Render(fmt.Sprintf("  • %s · %s", r.Course.Title, r.Lesson.Title)))
			c.buttons(button{
				id: "resume-" + r.Course.Key, testID: "resume-btn",
				label: "继续学习", action: s.jumpTo(r.Course, r.Lesson),
			})
		}
		c.blank()
	}

	for _, course := range courses {
		s.renderCourseCard(c, cat, course)
	}
}

func (s *Screen) renderCourseCard(c *canvas, cat *catalog.Catalog, course catalog.Course) {
	st := s.state
	ratio := progress.CourseProgress(course, st.Progress)
	next, _ := progress.NextLesson(course, st.Progress)

	c.doc.Add("course-card-"+course.Key, document.KindCard, course.Title)
	c.write(theme.Hint.Render(cat.Brand))
	c.write(theme.Heading.Render(course.Title) + "  " + pill(fmt.Sprintf("%d%%", progress.Percent(ratio))))
	c.wrap(theme.Subtitle, course.Tagline)
	c.write(components.NewProgressBar("", ratio, false, c.width).View())
	c.buttons(
		button{
			id: "continue-" + course.Key, testID: "continue-btn",
			label: "继续学习：" + next.Title, action: s.jumpTo(course, next),
		},
		button{id: "catalog-" + course.Key, label: "查看目录", action: s.openCourse(course)},
		button{
			id: "complete-" + course.Key, testID: "complete-btn",
			label: "标记本课完成", action: s.markComplete(course, next),
		},
	)
	for _, l := range course.Lessons {
		status := theme.Pending.Render("未完成")
		if progress.IsCompleted(course, st.Progress, l.ID) {
			status = theme.Done.Render("已完成")
		}
		c.write(fmt.Sprintf("  • %s %s  %s", l.Title, theme.Hint.Render("· "+l.Duration), status))
	}
	c.blank()
}

func (s *Screen) renderTrackDetail(c *canvas, t catalog.Track) {
	d := t.Detail
	c.section(t.Key, d.Title, d.Subtitle)
	c.write(theme.Heading.Render(d.LearnTitle))
	c.bullets(d.Learn)
	c.write(theme.Heading.Render(d.FitTitle))
	c.bullets(d.Fit)
	c.blank()
}

func (s *Screen) renderFAQ(c *canvas, cat *catalog.Catalog) {
	c.section(SectionFAQ, "常见问题（当前阶段）", "当前仅供了解")
	for i, item := range cat.FAQ {
		c.doc.Add("faq-item", document.KindItem, item.Q)
		marker := "▸"
		if s.faqOpen[i] {
			marker = "▾"
		}
		c.buttons(button{id: fmt.Sprintf("faq-%d", i), label: marker + " " + item.Q, action: s.toggleFAQ(i)})
		if s.faqOpen[i] {
			c.wrap(theme.Body.PaddingLeft(4), item.A)
		}
	}
	c.blank()
}

func (s *Screen) renderUpdates(c *canvas, cat *catalog.Catalog) {
	c.section(SectionUpdates, "最新进展", "与生财有术官方同步")
	c.wrap(theme.Body, cat.Updates.Lead)
	c.bullets(cat.Updates.Items)
	c.blank()
}

func (s *Screen) renderFooter(c *canvas, cat *catalog.Catalog) {
	c.anchor(SectionFooter)
	for _, line := range cat.Footer {
		c.write(theme.Subtitle.Render(line))
	}
	c.buttons(
		button{id: "footer-open-learning", label: "进入学习中心", action: s.openDialog},
		button{id: "footer-tracks", label: "回到方向选择", action: s.goTo(SectionTracks)},
		button{id: "footer-top", label: "返回顶部", action: s.goTo(SectionHome)},
	)
}
