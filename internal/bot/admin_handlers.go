package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleAdminCommand(ctx context.Context, chatID, userID int64, cmd string) {
	if !b.cfg.IsAdmin(userID) {
		return
	}

	switch cmd {
	case "export":
		b.handleExportGames(ctx, chatID)
	case "stats":
		b.handleChatStats(ctx, chatID, userID)
	}
}

// handleChatStats shows the chat's game history summary.
func (b *Bot) handleChatStats(ctx context.Context, chatID, userID int64) {
	stats, err := b.storage.GetChatStatistics(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get chat statistics",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "통계를 가져오지 못했습니다.")
		return
	}

	var text strings.Builder
	text.WriteString("📊 게임 통계\n\n")
	text.WriteString(fmt.Sprintf("🎮 총 게임 수: %d\n", stats.TotalGames))
	text.WriteString(fmt.Sprintf("😈 마피아팀 승리: %d\n", stats.MafiaWins))
	text.WriteString(fmt.Sprintf("👤 시민팀 승리: %d\n", stats.CitizenWins))
	text.WriteString(fmt.Sprintf("🃏 중립팀 승리: %d\n", stats.NeutralWins))
	text.WriteString(fmt.Sprintf("📅 평균 게임 길이: %.1f일\n", stats.AverageDays))

	if len(stats.RolePlayed) > 0 {
		text.WriteString("\n직업별 등장 횟수:\n")
		names := make([]string, 0, len(stats.RolePlayed))
		for name := range stats.RolePlayed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			text.WriteString(fmt.Sprintf("• %s: %d\n", name, stats.RolePlayed[name]))
		}
	}

	played, err := b.storage.PlayerGameCount(ctx, chatID, userID)
	if err != nil {
		b.logger.Warn("Failed to count player games",
			zap.Int64("user_id", userID),
			zap.Error(err))
	} else {
		text.WriteString(fmt.Sprintf("\n🙋 요청자 참여 게임: %d회\n", played))
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, text.String()))
}

// handleExportGames sends the chat's game history as an xlsx file.
func (b *Bot) handleExportGames(ctx context.Context, chatID int64) {
	filepath, err := b.storage.ExportGamesToExcel(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to export games",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "게임 기록을 내보내지 못했습니다.")
		return
	}

	msg := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filepath))
	msg.Caption = "📊 게임 기록"

	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "파일 전송에 실패했습니다.")
	}
}
