package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/progress"
	"github.com/deepsea/deepsea/internal/screens/history"
	"github.com/deepsea/deepsea/internal/ui/theme"
	"github.com/deepsea/deepsea/internal/userstate"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress per course",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("recent")
		if limit < 0 {
			return fmt.Errorf("--recent must not be negative, got %d", limit)
		}
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		st := rt.users.Current()
		status := "已登录"
		if !st.LoggedIn {
			status = "未登录"
		}
		fmt.Printf("%s（%s）\n", st.Name, status)
		fmt.Println(progressTable(rt.catalog.Purchased(st.Purchased), st))

		if events := rt.users.Activity(cmd.Context(), limit); len(events) > 0 {
			fmt.Println("最近动态")
			for _, a := range events {
				fmt.Println("  " + history.Describe(rt.catalog, a))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("recent", 10, "Number of recent actions to list")
}

func progressTable(courses []catalog.Course, st userstate.UserState) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("课程", "进度", "已完成", "下一课").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.TextDim)
			}
			return s
		})

	for _, c := range courses {
		ratio := progress.CourseProgress(c, st.Progress)
		done := 0
		for _, l := range c.Lessons {
			if progress.IsCompleted(c, st.Progress, l.ID) {
				done++
			}
		}
		next := "-"
		if l, ok := progress.NextLesson(c, st.Progress); ok {
			next = l.Title
		}
		t.Row(c.Title,
			fmt.Sprintf("%d%%", progress.Percent(ratio)),
			fmt.Sprintf("%d/%d", done, len(c.Lessons)),
			next)
	}
	return t.Render()
}
