package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepsea/deepsea/internal/progress"
)

var completeCmd = &cobra.Command{
	Use:   "complete <course> [lesson]",
	Short: "Mark a lesson complete; defaults to the course's next lesson",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		course, ok := rt.catalog.Course(args[0])
		if !ok {
			return fmt.Errorf("unknown course %q", args[0])
		}

		st := rt.users.Current()
		lesson, ok := progress.NextLesson(course, st.Progress)
		if len(args) == 2 {
			lesson, ok = course.Lesson(args[1])
			if !ok {
				return fmt.Errorf("course %q has no lesson %q", course.Key, args[1])
			}
		}
		if !ok {
			return fmt.Errorf("course %q has no lessons", course.Key)
		}

		st = rt.users.MarkComplete(cmd.Context(), course, lesson)
		ratio := progress.CourseProgress(course, st.Progress)
		fmt.Printf("已完成：%s · %s（%d%%）\n", course.Title, lesson.Title, progress.Percent(ratio))
		return nil
	},
}
