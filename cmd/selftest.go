package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepsea/deepsea/internal/screen"
	"github.com/deepsea/deepsea/internal/screens/page"
	"github.com/deepsea/deepsea/internal/selftest"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Render the page headlessly and run the self-test",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")

		p := page.New(page.Deps{Catalog: rt.catalog, Store: rt.users, Logger: rt.logger})
		defer p.Close()
		p.Update(screen.SizeMsg{Width: width, Height: height})
		if p.Document() == nil {
			return fmt.Errorf("page did not render at %dx%d", width, height)
		}

		results := selftest.New(rt.logger).Run(p.Document())
		fmt.Println(selftest.Report(results))
		if strict, _ := cmd.Flags().GetBool("strict"); strict && !selftest.Passed(results) {
			return fmt.Errorf("self-test failed")
		}
		return nil
	},
}

func init() {
	selftestCmd.Flags().Int("width", 100, "Render width")
	selftestCmd.Flags().Int("height", 40, "Render height")
	selftestCmd.Flags().Bool("strict", false, "Exit non-zero when a check fails")
}
