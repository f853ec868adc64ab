package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/rules"
)

// stageMessages are the start and completion texts shown for each stage
var stageMessages = map[model.Stage][2]string{
	model.StageRule:         {"正在检查格式与标点规范...", "格式规范检查完成"},
	model.StageTypoCurrent:  {"正在分析本周工作内容...", "本周工作错别字检查完成"},
	model.StagePunctCurrent: {"正在优化本周工作表达...", "本周工作分析完成"},
	model.StageTypoNext:     {"正在分析下周计划内容...", "下周计划错别字检查完成"},
	model.StagePunctNext:    {"正在优化下周计划表达...", "下周计划分析完成"},
	model.StageDone:         {"", "智能校对完成"},
}

// CheckStream runs the check one stage at a time and reports progress on
// the returned channel. A failed stage is reported inline and the stream
// continues. The last event is always a single StageDone carrying the merged
// result, unless ctx ends first, in which case the channel closes without
// it and no further model call is made.
func (p *Pipeline) CheckStream(ctx context.Context, text string) <-chan model.StageEvent {
	events := make(chan model.StageEvent)

	go func() {
		defer close(events)

		send := func(ev model.StageEvent) bool {
			select {
			case <-ctx.Done():
				return false
			case events <- ev:
				return true
			}
		}

		// Rule stage cannot fail
		if !send(startEvent(model.StageRule)) {
			return
		}
		issues := rules.Scan(text, p.source.RuleConfig(ctx))
		if !send(completedEvent(model.StageRule)) {
			return
		}

		for _, t := range p.tasks(text) {
			if !send(startEvent(t.stage)) {
				return
			}

			found, err := t.agent.Check(ctx, t.section)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				p.logger.Warn("stage failed", zap.String("stage", string(t.stage)), zap.Error(err))
				if !send(model.StageEvent{Stage: t.stage, Error: err.Error()}) {
					return
				}
				continue
			}

			issues = append(issues, found...)
			if !send(completedEvent(t.stage)) {
				return
			}
		}

		result := model.NewCheckResult(issues)
		done := completedEvent(model.StageDone)
		done.Result = &result
		send(done)
	}()

	return events
}

func startEvent(stage model.Stage) model.StageEvent {
	return model.StageEvent{Stage: stage, Message: stageMessages[stage][0]}
}

func completedEvent(stage model.Stage) model.StageEvent {
	return model.StageEvent{Stage: stage, Completed: true, Message: stageMessages[stage][1]}
}
