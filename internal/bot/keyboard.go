package bot

import (
	"fmt"

	"mafia-bot/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS

func (b *Bot) menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✋ 참가", "menu_join"),
			tgbotapi.NewInlineKeyboardButtonData("👋 불참", "menu_leave"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎭 모집 시작", "menu_open"),
			tgbotapi.NewInlineKeyboardButtonData("▶️ 즉시 시작", "menu_game"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛑 중단", "menu_stop"),
			tgbotapi.NewInlineKeyboardButtonData("📋 상태", "menu_status"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 게임 규칙", "menu_rules"),
			tgbotapi.NewInlineKeyboardButtonData("🎭 직업 소개", "menu_roles"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ 게임 설정", "menu_settings"),
			tgbotapi.NewInlineKeyboardButtonData("🤖 봇 추가", "menu_addbots"),
		),
	)
}

func (b *Bot) teamKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("😈 마피아팀", "team_"+string(game.TeamMafia)),
			tgbotapi.NewInlineKeyboardButtonData("👤 시민팀", "team_"+string(game.TeamCitizen)),
			tgbotapi.NewInlineKeyboardButtonData("🃏 중립팀", "team_"+string(game.TeamNeutral)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ 메뉴로 돌아가기", "menu_back"),
		),
	)
}

func (b *Bot) joinKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✋ 참가하기", "join"),
		),
	)
}

func (b *Bot) settingsKeyboard(s *game.Settings) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 밤 "+fmt.Sprintf("%d초", s.NightDuration), "settings_night"),
			tgbotapi.NewInlineKeyboardButtonData("☀️ 낮 "+fmt.Sprintf("%d초", s.DayDuration), "settings_day"),
			tgbotapi.NewInlineKeyboardButtonData("🗳 투표 "+fmt.Sprintf("%d초", s.VoteDuration), "settings_vote"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔫 공격 방식 변경", "settings_killmode"),
			tgbotapi.NewInlineKeyboardButtonData("🎭 서브 직업 "+onOff(s.SubRoleEnabled), "settings_subrole"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🃏 직업 구성 변경", "settings_roles"),
			tgbotapi.NewInlineKeyboardButtonData("♻️ 기본값으로 초기화", "settings_reset"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ 메뉴로 돌아가기", "menu_back"),
		),
	)
}

// roleToggleKeyboard lists every role with its enabled mark and count;
// tapping cycles the count, long lists wrap two per row.
func (b *Bot) roleToggleKeyboard(s *game.Settings) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, team := range []game.Team{game.TeamMafia, game.TeamCitizen, game.TeamNeutral} {
		for _, name := range game.RolesByTeam(team) {
			mark := "✅"
			if !s.EnabledRoles[name] {
				mark = "🚫"
			}
			label := fmt.Sprintf("%s %s × %d", mark, name, s.RoleCounts[name])
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "role_"+name))
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ 설정으로 돌아가기", "menu_settings"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// nightActionKeyboard lists tonight's targets. A mafia with an unused
// sub-role also gets the mode switch row.
func (b *Bot) nightActionKeyboard(player *game.Player, targets []*game.Player) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if mafia, ok := player.Role.(*game.Mafia); ok && mafia.SubRole() != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔫 암살", "mafia_kill"),
			tgbotapi.NewInlineKeyboardButtonData("🎭 서브 직업 능력", "mafia_sub"),
		))
	}

	for _, target := range targets {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(target.Name, fmt.Sprintf("action_%d", target.UserID)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// guessKeyboard lists role names for the architect's prediction.
func (b *Bot) guessKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, team := range []game.Team{game.TeamMafia, game.TeamCitizen, game.TeamNeutral} {
		for _, name := range game.RolesByTeam(team) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(name, "guess_"+name))
			if len(row) == 3 {
				rows = append(rows, row)
				row = nil
			}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) voteKeyboard(alive []*game.Player) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, p := range alive {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(p.Name, fmt.Sprintf("vote_%d", p.UserID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
