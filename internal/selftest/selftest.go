// Package selftest runs a fixed list of diagnostics against a rendered
// page once, reports the outcome as a table and logs failures. It never
// fails the program and never changes state.
package selftest

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"go.uber.org/zap"

	"github.com/deepsea/deepsea/internal/ui/theme"
)

// Document is the read-only view of a rendered page the checks inspect.
type Document interface {
	Has(testID string) bool
	Count(testID string) int
	CountPrefix(prefix string) int
	FormControls() int
	Text() string
}

// Check is one named diagnostic.
type Check struct {
	Name string
	Run  func(Document) bool
}

// Result is the outcome of one check.
type Result struct {
	Name string
	Pass bool
}

// TrackKeys are the track cards the landing page must show.
var TrackKeys = []string{"ai-overseas", "yt-ai", "bilibili-goods"}

var priceLike = regexp.MustCompile(`¥|￥|价格|折扣|优惠|\$\s?\d`)

// DefaultChecks returns the landing page diagnostics in report order.
func DefaultChecks() []Check {
	return []Check{
		{"hero 存在", func(d Document) bool { return d.Has("hero-title") }},
		{"三个方向卡片存在", func(d Document) bool {
			for _, k := range TrackKeys {
				if !d.Has("track-card-" + k) {
					return false
				}
			}
			return true
		}},
		{"页面不包含价格与表单", func(d Document) bool {
			return !priceLike.MatchString(d.Text()) && d.FormControls() == 0
		}},
		{"FAQ 至少 3 条", func(d Document) bool { return d.Count("faq-item") >= 3 }},
		{"学习中心存在", func(d Document) bool { return d.Has("learning-center") }},
		{"我的课程至少 2 个", func(d Document) bool { return d.CountPrefix("course-card-") >= 2 }},
		{"存在继续学习按钮", func(d Document) bool { return d.Has("continue-btn") }},
		{"无右侧三句话模块", absent("三句话说明白")},
		{"why 无副标题关键词", absent("三个关键词")},
		{"hero 无阶段性提示", absent("不展示价格", "不收集报名表单")},
	}
}

func absent(phrases ...string) func(Document) bool {
	return func(d Document) bool {
		text := d.Text()
		for _, p := range phrases {
			if strings.Contains(text, p) {
				return false
			}
		}
		return true
	}
}

// Evaluate runs checks against doc in order. A panicking check fails.
func Evaluate(checks []Check, doc Document) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		results = append(results, Result{Name: c.Name, Pass: safeRun(c, doc)})
	}
	return results
}

func safeRun(c Check, doc Document) (pass bool) {
	defer func() {
		if recover() != nil {
			pass = false
		}
	}()
	return c.Run(doc)
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

// Report renders results as a table.
func Report(results []Result) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("name", "pass").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.TextDim)
			}
			if col == 1 && row >= 0 && row < len(results) {
				if results[row].Pass {
					return s.Inherit(theme.Pass)
				}
				return s.Inherit(theme.Fail)
			}
			return s
		})
	for _, r := range results {
		t.Row(r.Name, passLabel(r.Pass))
	}
	return t.Render()
}

func passLabel(pass bool) string {
	if pass {
		return "true"
	}
	return "false"
}

// Harness runs its checks at most once.
type Harness struct {
	checks []Check
	logger *zap.Logger

	once    sync.Once
	mu      sync.Mutex
	results []Result
}

// New returns a harness over checks, or DefaultChecks when none are given.
func New(logger *zap.Logger, checks ...Check) *Harness {
	if len(checks) == 0 {
		checks = DefaultChecks()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{checks: checks, logger: logger.Named("selftest")}
}

// Run evaluates the checks against doc the first time it is called with a
// document and returns the results. Later calls return nil. A nil doc
// means nothing has rendered yet; it is ignored and does not use up the
// run.
func (h *Harness) Run(doc Document) []Result {
	if isNil(doc) {
		return nil
	}
	var out []Result
	h.once.Do(func() {
		out = Evaluate(h.checks, doc)
		h.mu.Lock()
		h.results = out
		h.mu.Unlock()
		h.log(out)
	})
	return out
}

// isNil also catches a nil pointer stored in the interface.
func isNil(doc Document) bool {
	if doc == nil {
		return true
	}
	v := reflect.ValueOf(doc)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (h *Harness) log(results []Result) {
	failed := 0
	for _, r := range results {
		if !r.Pass {
			failed++
			h.logger.Warn("self-test check failed", zap.String("check", r.Name))
		}
	}
	h.logger.Info("self-test finished",
		zap.Int("checks", len(results)),
		zap.Int("failed", failed))
	h.logger.Debug("self-test report\n" + Report(results))
}

// Results returns the results of the completed run, or nil before it.
func (h *Harness) Results() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Result(nil), h.results...)
}
