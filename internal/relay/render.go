package relay

import "fmt"

const (
	transcriptPrefix = "🎤 語音轉錄：\n"

	transcriptFailedReply = "抱歉，語音轉文字時發生錯誤。\nSorry, an error occurred during transcription."
	genericFailedReply    = "抱歉，處理訊息時發生錯誤。\nSorry, an error occurred while handling your message."
)

// RenderReply turns the terminal outcome of msg into the single reply text.
func RenderReply(msg InboundMessage, out Outcome) string {
	switch out.Kind {
	case OutcomeCalendar:
		return renderCalendar(out)
	case OutcomeNote:
		return renderNote(msg, out)
	case OutcomeEcho:
		if msg.Kind == KindAudio {
			return transcriptPrefix + out.EchoText
		}
		return out.EchoText
	case OutcomeTranscriptFailed:
		return transcriptFailedReply
	default:
		return genericFailedReply
	}
}

func renderCalendar(out Outcome) string {
	res := out.Calendar
	if res == nil {
		return genericFailedReply
	}
	if !res.Success {
		return fmt.Sprintf("❌ 新增行事曆失敗\n錯誤：%s", res.Err)
	}
	return fmt.Sprintf("✅ 已新增行事曆事件！\n\n標題：%s\n時間：%s\n連結：%s",
		res.Summary, res.Start, res.EventLink)
}

func renderNote(msg InboundMessage, out Outcome) string {
	res := out.Note
	if res == nil {
		return genericFailedReply
	}

	if msg.Kind == KindAudio {
		reply := transcriptPrefix + out.NoteContent
		switch {
		case res.Success:
			reply += "\n\n✅ 已儲存到 Notion\n" + res.URL
		case res.Skipped:
			// Transcript-only reply; nothing was there to save.
		default:
			reply += "\n\n⚠️ Notion 儲存失敗: " + res.Err
		}
		return reply
	}

	switch {
	case res.Success:
		return fmt.Sprintf("📝 已儲存到 Notion\n\n%s\n\n%s", out.NoteContent, res.URL)
	case res.Skipped:
		return "❌ Notion 未設定或內容為空"
	default:
		return "⚠️ Notion 儲存失敗: " + res.Err
	}
}
