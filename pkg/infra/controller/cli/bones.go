// 指示: miu200521358
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/spf13/cobra"
)

// newBonesCommand はhumanoidスロット一覧の表示コマンドを生成する。
func newBonesCommand(app *appContext) *cobra.Command {
	var requiredOnly bool
	cmd := &cobra.Command{
		Use:   "bones",
		Short: messages.HelpBonesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(app.out, 0, 0, 3, ' ', 0)
			fmt.Fprintf(w, "#\t%s\t%s\t%s\n", messages.LabelBone, messages.LabelTrait, messages.LabelRequired)
			for _, bone := range model.HumanBones() {
				if requiredOnly && !bone.IsRequired() {
					continue
				}
				required := ""
				if bone.IsRequired() {
					required = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", int(bone), bone.String(), bone.TraitName(), required)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&requiredOnly, "required", false, "必須スロットのみ表示する")
	return cmd
}
