package notify

import (
	"fmt"
	"strings"
)

func buildDiscordMessage(summary ImportSummary) string {
	var builder strings.Builder
	if summary.Err != nil {
		builder.WriteString(fmt.Sprintf("**%s** の質問インポートが途中で失敗しました。\n", actorName(summary)))
	} else {
		builder.WriteString(fmt.Sprintf("**%s** が質問をインポートしました。\n", actorName(summary)))
	}
	if name := strings.TrimSpace(summary.FileName); name != "" {
		builder.WriteString(fmt.Sprintf("- ファイル: %s\n", name))
	}
	builder.WriteString(fmt.Sprintf("- 既存更新: %s\n", onOff(summary.UpdateExisting)))
	if summary.Err != nil {
		builder.WriteString(fmt.Sprintf("- エラー: %s\n", summary.Err))
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf("- 追加: %d / 更新: %d / 無効化: %d\n",
		summary.Result.Inserted, summary.Result.Updated, summary.Result.Deactivated))
	return builder.String()
}

func buildSlackMessage(summary ImportSummary) string {
	var builder strings.Builder
	if summary.Err != nil {
		builder.WriteString(fmt.Sprintf(":warning: %s さんのインポートが失敗しました: %s\n", actorName(summary), summary.Err))
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf(":inbox_tray: %s さんが質問をインポートしました。\n", actorName(summary)))
	if name := strings.TrimSpace(summary.FileName); name != "" {
		builder.WriteString(fmt.Sprintf("ファイル: %s\n", name))
	}
	builder.WriteString(fmt.Sprintf("追加 %d / 更新 %d / 無効化 %d\n",
		summary.Result.Inserted, summary.Result.Updated, summary.Result.Deactivated))
	return builder.String()
}

func actorName(summary ImportSummary) string {
	if name := strings.TrimSpace(summary.Actor); name != "" {
		return name
	}
	return "管理者"
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
