// Program rules-demo runs the rule scanner over sample reports and prints
// what each rule family reports, with no model provider involved.
package main

import (
	"fmt"
	"strings"

	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/rules"
	"github.com/ppiankov/proofline/internal/score"
)

var samples = []struct {
	name string
	text string
}{
	{
		name: "numbering",
		text: "本周工作：\n1、完成接口联调。\n3.整理会议纪要。\n（4）提交周报。\n下周计划：\n1.1.准备评审材料。\n跟进上线事项。",
	},
	{
		name: "punctuation",
		text: "本周工作：\n1.完成需求评审,确认排期;\n2.梳理测试/验收流程。。\n3.修复登录问题(第二期)\n下周计划：\n1.准备 上线。同步进度。",
	},
	{
		name: "clean",
		text: "本周工作：\n1.完成需求评审，确认排期。\n下周计划：\n1.10:30参加项目例会。",
	},
}

func main() {
	fmt.Println("=== Rule Scanner Demo ===")
	fmt.Println()

	for _, sample := range samples {
		fmt.Printf("Sample: %s\n", sample.name)
		fmt.Println(strings.Repeat("-", 60))

		result := model.NewCheckResult(rules.Scan(sample.text, model.DefaultRuleConfig()))
		if result.Count == 0 {
			fmt.Println("  ✓ No issues")
			fmt.Println()
			continue
		}

		for _, issue := range result.Issues {
			fmt.Printf("  [%s] %s: %q → %q\n", issue.Rule, issue.Location, issue.Original, issue.Suggestion)
			fmt.Printf("         %s\n", issue.Context)
		}

		s := score.Tally(result)
		fmt.Printf("\n  %d issues, index %d/100 (%s)\n", s.Total, s.Index, s.Grade)
		for _, rc := range s.TopRules() {
			fmt.Printf("    - %s: %d\n", rc.Rule, rc.Count)
		}
		fmt.Println()
	}

	fmt.Println("=== Demo Complete ===")
}
